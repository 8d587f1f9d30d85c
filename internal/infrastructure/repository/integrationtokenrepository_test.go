package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zavod/internal/domain/integration"
	"zavod/internal/shared/constants"
)

func TestIntegrationTokenRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIntegrationTokenRepository(db)
	ctx := context.Background()

	t.Run("insert then read back", func(t *testing.T) {
		token, err := integration.NewIntegrationToken(1, constants.ProviderTelegram, "enc-v1")
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, token))

		found, err := repo.FindByProjectAndProvider(ctx, 1, constants.ProviderTelegram)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "enc-v1", found.TokenEncrypted())
	})

	t.Run("second upsert replaces the ciphertext", func(t *testing.T) {
		rotated, err := integration.NewIntegrationToken(1, constants.ProviderTelegram, "enc-v2")
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, rotated))

		found, err := repo.FindByProjectAndProvider(ctx, 1, constants.ProviderTelegram)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "enc-v2", found.TokenEncrypted())

		var count int64
		require.NoError(t, db.Table(constants.TableIntegrationTokens).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("providers are independent", func(t *testing.T) {
		vk, err := integration.NewIntegrationToken(1, constants.ProviderVK, "enc-vk")
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, vk))

		tg, err := repo.FindByProjectAndProvider(ctx, 1, constants.ProviderTelegram)
		require.NoError(t, err)
		require.NotNil(t, tg)
		assert.Equal(t, "enc-v2", tg.TokenEncrypted())
	})

	t.Run("missing token returns nil", func(t *testing.T) {
		found, err := repo.FindByProjectAndProvider(ctx, 42, constants.ProviderTelegram)
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}
