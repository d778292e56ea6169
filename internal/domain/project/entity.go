package project

import "time"

// Status of a construction project. Projects are created and moved
// through their lifecycle by the main application; read-only here.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on_hold"
)

type Project struct {
	ID        string
	Name      string
	Status    Status
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}

// HistoryEntry is an append-only project activity record.
type HistoryEntry struct {
	ID        string
	ProjectID string
	UserID    *string
	UserEmail *string
	UserRole  *string
	Action    string
	Details   map[string]interface{}
	CreatedAt time.Time
}
