package audit

import "context"

// Actor identifies the authenticated caller of an audited action.
type Actor struct {
	UserID    string
	IPAddress string
}

// Service writes the audit trail.
type Service interface {
	LogAction(ctx context.Context, actor Actor, req LogActionRequest) error
}
