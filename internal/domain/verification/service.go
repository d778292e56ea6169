package verification

import "context"

// Service checks uploaded site photos for construction plausibility.
type Service interface {
	VerifyImage(ctx context.Context, userID string, req VerifyImageRequest) (*VerifyImageResponse, error)
	ListUserVerifications(ctx context.Context, userID string, limit int) ([]*ImageVerification, error)
}
