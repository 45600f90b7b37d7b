package domain

import "time"

// Severity classifies an operator notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient operator-facing message with a bounded lifetime.
// IDs are unique for the whole session.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}
