// Package content holds the site's editable collections (blog posts,
// research papers, research areas and team members) and the flows that
// read and write them through a docstore.
package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ydbwellness/ydb/docstore"
)

// Collection names.
const (
	Blogs         = "blogs"
	ResearchPaper = "research-papers"
	ResearchArea  = "research-areas"
	TeamMembers   = "team-members"
)

var (
	// ErrValidation wraps every field validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidFileType is returned when an upload is not of the accepted type.
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrDeleteNotConfirmed is returned when a delete is attempted without
	// the user's confirmation.
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = docstore.ErrNotFound
)

// Entity is implemented by every stored content type.
type Entity interface {
	Key() string
	Fields() docstore.Fields
	Validate() error
}

// Kind describes how one entity type maps onto its collection.
type Kind[T Entity] struct {
	Collection string
	// Singular is the display name used in notifications, e.g. "Research paper".
	Singular string
	// CreatedVerb completes "<Singular> <verb> successfully!" after a create.
	CreatedVerb string
	// Order is pushed down to the store on List.
	Order []docstore.Order
	// Compare, when set, orders fetched items in memory after Order.
	Compare func(a, b T) int
}

func (k Kind[T]) lower() string {
	return strings.ToLower(k.Singular)
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, msg)
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid(field, "is required")
	}
	return nil
}

func oneOf(field, v string, set []string) error {
	for _, s := range set {
		if v == s {
			return nil
		}
	}
	return invalid(field, fmt.Sprintf("must be one of %s", strings.Join(set, ", ")))
}

// decode turns a stored document into T, carrying the document id into the
// entity's "id" field.
func decode[T any](d docstore.Document) (T, error) {
	var v T
	data := make(docstore.Fields, len(d.Data)+1)
	for k, val := range d.Data {
		data[k] = val
	}
	data["id"] = d.ID
	err := docstore.Document{ID: d.ID, Data: data}.Decode(&v)
	return v, err
}

// Timestamps are shared by every entity. They are assigned by the store and
// never written back by Fields.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newerFirst(a, b Timestamps) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}
