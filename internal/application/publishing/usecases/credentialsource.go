package usecases

import (
	"context"
	"fmt"

	"zavod/internal/domain/integration"
	apperrors "zavod/internal/shared/errors"
)

// TokenCredentialSource resolves platform credentials from encrypted
// integration tokens, decrypting on demand so plaintext never sits in a row.
type TokenCredentialSource struct {
	tokens integration.TokenRepository
	cipher integration.TokenCipher
}

func NewTokenCredentialSource(tokens integration.TokenRepository, cipher integration.TokenCipher) *TokenCredentialSource {
	return &TokenCredentialSource{
		tokens: tokens,
		cipher: cipher,
	}
}

func (s *TokenCredentialSource) Credential(ctx context.Context, projectID uint, provider string) (string, error) {
	token, err := s.tokens.FindByProjectAndProvider(ctx, projectID, provider)
	if err != nil {
		return "", fmt.Errorf("failed to load %s credential for project %d: %w", provider, projectID, err)
	}
	if token == nil {
		return "", apperrors.NewValidationError(fmt.Sprintf("no %s credential configured for project %d", provider, projectID))
	}

	plaintext, err := s.cipher.Decrypt(token.TokenEncrypted())
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s credential for project %d: %w", provider, projectID, err)
	}
	return plaintext, nil
}
