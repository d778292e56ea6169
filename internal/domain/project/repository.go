package project

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Project, error)
	ListByStatus(ctx context.Context, status Status) ([]*Project, error)
	AddHistory(ctx context.Context, entry *HistoryEntry) error
}
