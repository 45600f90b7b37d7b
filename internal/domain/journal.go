package domain

import "time"

// Command outcome values recorded in the journal.
const (
	OutcomeAccepted     = "accepted"
	OutcomeRejected     = "rejected"
	OutcomeNetworkError = "network_error"
)

// CommandRecord is one outbound command and its observed outcome. The journal
// is a write-mostly audit trail; it is never read back into live state.
type CommandRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Instrument string    `gorm:"index" json:"instrument"`
	Command    string    `json:"command"`
	Payload    string    `json:"payload"`
	Outcome    string    `gorm:"index" json:"outcome"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
