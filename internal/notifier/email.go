package notifier

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// EmailNotifier publishes alerts to the configured admin address via
// Resend.
type EmailNotifier struct {
	client *resend.Client
	from   string
	to     string
}

func NewEmailNotifier(apiKey, from, to string) *EmailNotifier {
	return &EmailNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (n *EmailNotifier) Publish(ctx context.Context, subject, message string) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject,
		Text:    message,
	}
	if _, err := n.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}
