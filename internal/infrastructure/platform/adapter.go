// Package platform holds the delivery adapters for external social
// networks. Adapters receive decrypted credentials per call and never
// store them.
package platform

import (
	"context"
	"fmt"

	vo "zavod/internal/domain/publication/value_objects"
	"zavod/internal/shared/errors"
)

// Request carries everything one delivery needs.
type Request struct {
	// Credentials is the decrypted provider token for this project.
	Credentials string
	// Body is the markdown source of the content item; adapters render it
	// to whatever the platform accepts.
	Body string
	// Metadata is the content item's platform-specific routing data, such
	// as the target chat or wall.
	Metadata map[string]interface{}
}

// PostRef identifies the created post on the platform.
type PostRef struct {
	PostID  string
	PostURL string
}

// Adapter publishes a single request to one platform.
type Adapter interface {
	Platform() vo.Platform
	Publish(ctx context.Context, req Request) (*PostRef, error)
}

// Registry resolves adapters by platform.
type Registry struct {
	adapters map[vo.Platform]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[vo.Platform]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

func (r *Registry) Register(a Adapter) {
	r.adapters[a.Platform()] = a
}

// Get returns the adapter for a platform. An unregistered platform is a
// terminal condition, not a retryable one.
func (r *Registry) Get(p vo.Platform) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported platform: %s", p))
	}
	return a, nil
}
