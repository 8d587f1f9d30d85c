// Package dto carries publication shapes crossing the application boundary.
package dto

import (
	"time"

	"zavod/internal/domain/publication"
)

// PublicationDTO is the external view of a publication row.
type PublicationDTO struct {
	ID              uint       `json:"id"`
	ProjectID       uint       `json:"project_id"`
	ContentItemID   uint       `json:"content_item_id"`
	Platform        string     `json:"platform"`
	Status          string     `json:"status"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	IdempotencyKey  string     `json:"idempotency_key"`
	AttemptCount    int        `json:"attempt_count"`
	PlatformPostID  *string    `json:"platform_post_id,omitempty"`
	PlatformPostURL *string    `json:"platform_post_url,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	LastError       *string    `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FromEntity converts a publication entity into its DTO form.
func FromEntity(p *publication.Publication) *PublicationDTO {
	if p == nil {
		return nil
	}
	return &PublicationDTO{
		ID:              p.ID(),
		ProjectID:       p.ProjectID(),
		ContentItemID:   p.ContentItemID(),
		Platform:        p.Platform().String(),
		Status:          p.Status().String(),
		ScheduledAt:     p.ScheduledAt(),
		IdempotencyKey:  p.IdempotencyKey(),
		AttemptCount:    p.AttemptCount(),
		PlatformPostID:  p.PlatformPostID(),
		PlatformPostURL: p.PlatformPostURL(),
		PublishedAt:     p.PublishedAt(),
		LastError:       p.LastError(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}
