package assistant

import "context"

// Service answers chat queries about projects and verifications.
type Service interface {
	Chat(ctx context.Context, userID string, req ChatRequest) (*ChatResponse, error)
}
