package verification

import "context"

type Repository interface {
	Create(ctx context.Context, v *ImageVerification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*ImageVerification, error)
	// ListRecentFailed returns the most recent verifications that did not
	// pass, across all users. Used by the assistant fallback responder.
	ListRecentFailed(ctx context.Context, limit int) ([]*ImageVerification, error)
}
