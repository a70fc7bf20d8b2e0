package newsletter

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendMailer sends mail through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
	log    *zap.Logger
}

// NewResendMailer creates a mailer with the given API key and sender address.
func NewResendMailer(apiKey, from string, log *zap.Logger) *ResendMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResendMailer{client: resend.NewClient(apiKey), from: from, log: log}
}

func (r *ResendMailer) Send(ctx context.Context, m Message) error {
	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{m.To},
		Subject: m.Subject,
		Html:    m.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	r.log.Info("mail sent", zap.String("message_id", sent.Id), zap.String("subject", m.Subject))
	return nil
}

// LogMailer only logs messages. It is used when no API key is configured.
type LogMailer struct {
	Log *zap.Logger
}

func (l LogMailer) Send(_ context.Context, m Message) error {
	l.Log.Info("mail not sent (no provider configured)", zap.String("to", m.To), zap.String("subject", m.Subject))
	return nil
}
