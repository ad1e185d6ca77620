package notifier

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier implements the Notifier interface by writing alerts to
// the service log. Used when no email credentials are configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Publish(ctx context.Context, subject, message string) error {
	logrus.WithField("subject", subject).Info(message)
	return nil
}
