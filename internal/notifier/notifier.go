package notifier

import "context"

// Notifier defines the interface for publishing operational alerts.
// This abstraction allows swapping the log-based notifier with the
// email integration without refactoring callers.
type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}
