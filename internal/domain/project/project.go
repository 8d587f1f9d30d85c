package project

import (
	"errors"
	"time"

	"zavod/internal/shared/constants"
)

// Project is the tenant boundary: budgets, publications, tokens, and alerts
// all hang off a project.
type Project struct {
	id        uint
	name      string
	status    string
	timezone  string
	createdAt time.Time
	updatedAt time.Time
}

func NewProject(name, timezone string) (*Project, error) {
	if name == "" {
		return nil, errors.New("project name is required")
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, errors.New("invalid project timezone")
	}

	now := time.Now().UTC()
	return &Project{
		name:      name,
		status:    constants.ProjectStatusActive,
		timezone:  timezone,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructProject(
	id uint,
	name string,
	status string,
	timezone string,
	createdAt time.Time,
	updatedAt time.Time,
) *Project {
	return &Project{
		id:        id,
		name:      name,
		status:    status,
		timezone:  timezone,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p *Project) ID() uint {
	return p.id
}

func (p *Project) Name() string {
	return p.name
}

func (p *Project) Status() string {
	return p.status
}

func (p *Project) Timezone() string {
	return p.timezone
}

func (p *Project) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Project) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Project) IsActive() bool {
	return p.status == constants.ProjectStatusActive
}

// Archive removes the project from sweeps and reports without deleting its
// history.
func (p *Project) Archive() {
	p.status = constants.ProjectStatusArchived
	p.updatedAt = time.Now().UTC()
}

func (p *Project) SetID(id uint) error {
	if p.id != 0 {
		return errors.New("project ID already set")
	}
	if id == 0 {
		return errors.New("invalid project ID")
	}
	p.id = id
	return nil
}
