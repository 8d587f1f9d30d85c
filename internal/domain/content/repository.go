package content

import "context"

// Reader provides read access to finished content items.
type Reader interface {
	// Get returns the content item, or a not-found error when the item does
	// not exist or belongs to another project.
	Get(ctx context.Context, projectID, contentItemID uint) (*ContentItem, error)
}

// QCResultSource exposes quality check outcomes to the publisher.
type QCResultSource interface {
	// LatestResult returns the most recent report for the item, or nil when
	// the item was never checked.
	LatestResult(ctx context.Context, projectID, contentItemID uint) (*QCReport, error)
}
