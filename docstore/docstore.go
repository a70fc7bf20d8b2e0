// Package docstore is a collection/document store. Documents are JSON objects
// addressed by (collection, id); reads are point-in-time queries with an
// optional equality filter, ordering and limit.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// TimeFormat is the fixed-width layout used for stored timestamps so that
// lexical order of the encoded value matches chronological order.
const TimeFormat = "2006-01-02T15:04:05.000000000Z"

// Fields is the data carried by a document.
type Fields map[string]any

type serverTimestamp struct{}

// ServerTimestamp may be used as a field value on Add or Update. The store
// replaces it with its own clock reading at write time.
var ServerTimestamp any = serverTimestamp{}

// Document is a single stored document.
type Document struct {
	ID         string
	Data       Fields
	CreateTime time.Time
	UpdateTime time.Time
}

// Decode unmarshals the document data into v (a pointer to a struct with
// json tags).
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("docstore: decode %s: %w", d.ID, err)
	}
	return nil
}

// Filter is an equality predicate on a top-level field.
type Filter struct {
	Field string
	Value any
}

// Order sorts query results by a top-level field.
type Order struct {
	Field string
	Desc  bool
}

// Query selects documents from one collection.
type Query struct {
	collection string
	filters    []Filter
	orders     []Order
	limit      uint64
}

// Collection starts a query over every document in name.
func Collection(name string) Query {
	return Query{collection: name}
}

// Where adds an equality filter.
func (q Query) Where(field string, value any) Query {
	q.filters = append(append([]Filter(nil), q.filters...), Filter{Field: field, Value: value})
	return q
}

// OrderBy appends a sort key.
func (q Query) OrderBy(field string, desc bool) Query {
	q.orders = append(append([]Order(nil), q.orders...), Order{Field: field, Desc: desc})
	return q
}

// Limit caps the number of returned documents. Zero means no limit.
func (q Query) Limit(n uint64) Query {
	q.limit = n
	return q
}

// Store is the document store contract consumed by the content layer.
type Store interface {
	Add(ctx context.Context, collection string, data Fields) (string, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Update(ctx context.Context, collection, id string, data Fields) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, q Query) ([]Document, error)
	Close() error
}

// resolve returns a copy of data with ServerTimestamp sentinels and time
// values replaced by fixed-width encoded timestamps.
func resolve(data Fields, now time.Time) Fields {
	out := make(Fields, len(data))
	for k, v := range data {
		switch tv := v.(type) {
		case serverTimestamp:
			out[k] = now.UTC().Format(TimeFormat)
		case time.Time:
			out[k] = tv.UTC().Format(TimeFormat)
		default:
			out[k] = v
		}
	}
	return out
}
