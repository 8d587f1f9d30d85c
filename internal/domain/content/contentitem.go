package content

import (
	"errors"
	"time"
)

// ContentItem is the read model of a produced piece of content. The
// publication pipeline consumes finished items; authoring and generation
// happen elsewhere.
type ContentItem struct {
	id        uint
	projectID uint
	channel   string
	format    string
	body      string
	metadata  map[string]interface{}
	status    string
	createdAt time.Time
	updatedAt time.Time
}

func NewContentItem(projectID uint, channel, format, body string, metadata map[string]interface{}) (*ContentItem, error) {
	if projectID == 0 {
		return nil, errors.New("project ID is required")
	}
	if body == "" {
		return nil, errors.New("body is required")
	}

	now := time.Now().UTC()
	return &ContentItem{
		projectID: projectID,
		channel:   channel,
		format:    format,
		body:      body,
		metadata:  metadata,
		status:    "ready",
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructContentItem(
	id uint,
	projectID uint,
	channel string,
	format string,
	body string,
	metadata map[string]interface{},
	status string,
	createdAt time.Time,
	updatedAt time.Time,
) *ContentItem {
	return &ContentItem{
		id:        id,
		projectID: projectID,
		channel:   channel,
		format:    format,
		body:      body,
		metadata:  metadata,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c *ContentItem) ID() uint {
	return c.id
}

func (c *ContentItem) ProjectID() uint {
	return c.projectID
}

func (c *ContentItem) Channel() string {
	return c.channel
}

func (c *ContentItem) Format() string {
	return c.format
}

func (c *ContentItem) Body() string {
	return c.body
}

func (c *ContentItem) Metadata() map[string]interface{} {
	return c.metadata
}

func (c *ContentItem) Status() string {
	return c.status
}

func (c *ContentItem) CreatedAt() time.Time {
	return c.createdAt
}

func (c *ContentItem) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *ContentItem) SetID(id uint) error {
	if c.id != 0 {
		return errors.New("content item ID already set")
	}
	if id == 0 {
		return errors.New("invalid content item ID")
	}
	c.id = id
	return nil
}
