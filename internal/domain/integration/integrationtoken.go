package integration

import (
	"errors"
	"time"
)

// IntegrationToken holds a platform credential for one (project, provider)
// pair. The token value is encrypted at rest and only decrypted at the
// moment a delivery call needs it.
type IntegrationToken struct {
	id             uint
	projectID      uint
	provider       string
	tokenEncrypted string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewIntegrationToken(projectID uint, provider, tokenEncrypted string) (*IntegrationToken, error) {
	if projectID == 0 {
		return nil, errors.New("project ID is required")
	}
	if provider == "" {
		return nil, errors.New("provider is required")
	}
	if tokenEncrypted == "" {
		return nil, errors.New("encrypted token is required")
	}

	now := time.Now().UTC()
	return &IntegrationToken{
		projectID:      projectID,
		provider:       provider,
		tokenEncrypted: tokenEncrypted,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructIntegrationToken(
	id uint,
	projectID uint,
	provider string,
	tokenEncrypted string,
	createdAt time.Time,
	updatedAt time.Time,
) *IntegrationToken {
	return &IntegrationToken{
		id:             id,
		projectID:      projectID,
		provider:       provider,
		tokenEncrypted: tokenEncrypted,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (t *IntegrationToken) ID() uint {
	return t.id
}

func (t *IntegrationToken) ProjectID() uint {
	return t.projectID
}

func (t *IntegrationToken) Provider() string {
	return t.provider
}

func (t *IntegrationToken) TokenEncrypted() string {
	return t.tokenEncrypted
}

func (t *IntegrationToken) CreatedAt() time.Time {
	return t.createdAt
}

func (t *IntegrationToken) UpdatedAt() time.Time {
	return t.updatedAt
}

// Rotate replaces the stored ciphertext with a newly encrypted credential.
func (t *IntegrationToken) Rotate(tokenEncrypted string) error {
	if tokenEncrypted == "" {
		return errors.New("encrypted token is required")
	}
	t.tokenEncrypted = tokenEncrypted
	t.updatedAt = time.Now().UTC()
	return nil
}

func (t *IntegrationToken) SetID(id uint) error {
	if t.id != 0 {
		return errors.New("integration token ID already set")
	}
	if id == 0 {
		return errors.New("invalid integration token ID")
	}
	t.id = id
	return nil
}
