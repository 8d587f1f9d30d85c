package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zavod/internal/domain/integration"
	apperrors "zavod/internal/shared/errors"
)

func testToken(t *testing.T, projectID uint, provider, encrypted string) *integration.IntegrationToken {
	t.Helper()
	now := time.Now().UTC()
	return integration.ReconstructIntegrationToken(1, projectID, provider, encrypted, now, now)
}

func TestTokenCredentialSource_DecryptsStoredToken(t *testing.T) {
	tokens := &mockTokenRepository{}
	source := NewTokenCredentialSource(tokens, &stubCipher{})

	tokens.On("FindByProjectAndProvider", mock.Anything, uint(7), "telegram").
		Return(testToken(t, 7, "telegram", "enc:123:secret"), nil)

	got, err := source.Credential(context.Background(), 7, "telegram")

	require.NoError(t, err)
	assert.Equal(t, "123:secret", got)
}

func TestTokenCredentialSource_MissingTokenIsValidationError(t *testing.T) {
	tokens := &mockTokenRepository{}
	source := NewTokenCredentialSource(tokens, &stubCipher{})

	tokens.On("FindByProjectAndProvider", mock.Anything, uint(7), "vk").Return(nil, nil)

	_, err := source.Credential(context.Background(), 7, "vk")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Contains(t, err.Error(), "no vk credential configured for project 7")
}

func TestTokenCredentialSource_StoreErrorIsNotValidation(t *testing.T) {
	tokens := &mockTokenRepository{}
	source := NewTokenCredentialSource(tokens, &stubCipher{})

	tokens.On("FindByProjectAndProvider", mock.Anything, uint(7), "telegram").
		Return(nil, errors.New("connection refused"))

	_, err := source.Credential(context.Background(), 7, "telegram")

	require.Error(t, err)
	assert.False(t, apperrors.IsValidationError(err))
}

func TestTokenCredentialSource_DecryptFailureSurfaces(t *testing.T) {
	tokens := &mockTokenRepository{}
	source := NewTokenCredentialSource(tokens, &stubCipher{decryptErr: errors.New("cipher: message authentication failed")})

	tokens.On("FindByProjectAndProvider", mock.Anything, uint(7), "telegram").
		Return(testToken(t, 7, "telegram", "enc:whatever"), nil)

	_, err := source.Credential(context.Background(), 7, "telegram")

	require.Error(t, err)
	assert.False(t, apperrors.IsValidationError(err))
	assert.Contains(t, err.Error(), "failed to decrypt telegram credential")
}
