package audit

import "time"

// Log is one audit trail record of a user action.
type Log struct {
	ID        string
	UserID    string
	UserEmail string
	UserRole  string
	ProjectID *string
	Action    string
	Details   map[string]interface{}
	IPAddress string
	CreatedAt time.Time
}
