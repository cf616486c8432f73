// Package notify defines the user-visible notification sink. The real
// toast rendering lives in the presentation layer; the engine only
// hands it events. Delivery is best-effort and never affects the
// operation that triggered it.
package notify

import "github.com/rs/zerolog/log"

// Notifier delivers a user-visible notification.
type Notifier interface {
	Notify(userID int64, title, body string)
}

// LogNotifier writes notifications to the log. Used when no
// presentation layer is attached.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(userID int64, title, body string) {
	log.Info().
		Int64("user_id", userID).
		Str("title", title).
		Str("body", body).
		Msg("Notification")
}
