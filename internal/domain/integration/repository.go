package integration

import "context"

// TokenRepository persists integration tokens, one per (project, provider).
type TokenRepository interface {
	// Upsert stores the token, replacing any existing row for the same
	// project and provider.
	Upsert(ctx context.Context, token *IntegrationToken) error
	// FindByProjectAndProvider returns the token, or nil when the project
	// has no credential for the provider.
	FindByProjectAndProvider(ctx context.Context, projectID uint, provider string) (*IntegrationToken, error)
}

// TokenCipher encrypts credentials at rest.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
