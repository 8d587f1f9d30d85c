package project

import "context"

// Repository persists projects.
type Repository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uint) (*Project, error)
	// ListActiveIDs returns the IDs of all active projects, ascending.
	ListActiveIDs(ctx context.Context) ([]uint, error)
}
