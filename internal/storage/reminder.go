package storage

import "time"

// ReminderMessage points at the last due reminder sent to a chat so it can be
// removed once a newer one goes out.
type ReminderMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// NewReminderStorage creates a registry of reminder messages keyed by chat ID.
func NewReminderStorage() *Registry[int64, ReminderMessage] {
	return NewRegistry[int64, ReminderMessage]()
}
