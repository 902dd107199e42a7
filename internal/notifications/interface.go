// Package notifications pushes trading signal alerts to external channels.
package notifications

// Notifier delivers an alert with a severity level.
type Notifier interface {
	SendAlert(level, message string) error
}
