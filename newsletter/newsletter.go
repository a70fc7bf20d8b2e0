// Package newsletter handles mailing list sign-ups.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/docstore"
)

// Collection holds one document per subscription.
const Collection = "newsletter"

// StatusActive is the status written for new subscriptions.
const StatusActive = "active"

var (
	ErrInvalidEmail      = errors.New("newsletter: invalid email address")
	ErrAlreadySubscribed = errors.New("newsletter: already subscribed")
)

// Message is an outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// Service subscribes addresses.
//
// The duplicate check and the insert are two separate store calls with no
// lock between them, so two concurrent sign-ups for the same address can
// both succeed.
type Service struct {
	store  docstore.Store
	mailer Mailer
	site   string
	log    *zap.Logger
}

// NewService returns a Service. mailer may be nil to skip welcome mail.
func NewService(store docstore.Store, mailer Mailer, siteName string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, mailer: mailer, site: siteName, log: log}
}

// Normalize trims and lower-cases an address.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate reports whether email is a bare address.
func Validate(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

// Subscribe adds email to the list and returns the new document id.
func (s *Service) Subscribe(ctx context.Context, email string) (string, error) {
	email = Normalize(email)
	if err := Validate(email); err != nil {
		return "", err
	}

	existing, err := s.store.Query(ctx, docstore.Collection(Collection).Where("email", email).Limit(1))
	if err != nil {
		return "", fmt.Errorf("newsletter: check %s: %w", email, err)
	}
	if len(existing) > 0 {
		return "", ErrAlreadySubscribed
	}

	id, err := s.store.Add(ctx, Collection, docstore.Fields{
		"email":        email,
		"subscribedAt": docstore.ServerTimestamp,
		"status":       StatusActive,
	})
	if err != nil {
		return "", fmt.Errorf("newsletter: subscribe %s: %w", email, err)
	}
	s.log.Info("newsletter subscription", zap.String("id", id))

	if s.mailer != nil {
		if err := s.mailer.Send(ctx, s.welcome(email)); err != nil {
			s.log.Warn("welcome mail failed", zap.String("id", id), zap.Error(err))
		}
	}
	return id, nil
}

// Subscribers returns every subscription document's address, oldest first.
func (s *Service) Subscribers(ctx context.Context) ([]string, error) {
	docs, err := s.store.Query(ctx, docstore.Collection(Collection).OrderBy("subscribedAt", false))
	if err != nil {
		return nil, fmt.Errorf("newsletter: list: %w", err)
	}
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if e, ok := d.Data["email"].(string); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Service) welcome(email string) Message {
	return Message{
		To:      email,
		Subject: "Welcome to the " + s.site + " newsletter",
		HTML: "<p>Thank you for subscribing to the " + s.site + " newsletter.</p>" +
			"<p>You'll receive research updates, wellness tips and community stories.</p>",
	}
}
