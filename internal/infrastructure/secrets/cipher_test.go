package secrets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipher_RoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	cipher, err := NewCipher(key)
	require.NoError(t, err)

	sealed, err := cipher.Encrypt("123456:bot-token-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "123456:bot-token-secret", sealed)

	opened, err := cipher.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "123456:bot-token-secret", opened)
}

func TestCipher_NoncePerMessage(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	cipher, err := NewCipher(key)
	require.NoError(t, err)

	first, err := cipher.Encrypt("same-secret")
	require.NoError(t, err)
	second, err := cipher.Encrypt("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "identical plaintexts must not produce identical ciphertexts")
}

func TestCipher_TamperedCiphertextFails(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	cipher, err := NewCipher(key)
	require.NoError(t, err)

	sealed, err := cipher.Encrypt("secret")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = cipher.Decrypt(tampered)
	assert.Error(t, err)
}

func TestCipher_WrongKeyFails(t *testing.T) {
	firstKey, err := GenerateKey()
	require.NoError(t, err)
	secondKey, err := GenerateKey()
	require.NoError(t, err)

	first, err := NewCipher(firstKey)
	require.NoError(t, err)
	second, err := NewCipher(secondKey)
	require.NoError(t, err)

	sealed, err := first.Encrypt("secret")
	require.NoError(t, err)

	_, err = second.Decrypt(sealed)
	assert.Error(t, err)
}

func TestNewCipher_RejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "not base64", key: "%%%not-base64%%%"},
		{name: "wrong length", key: base64.StdEncoding.EncodeToString([]byte("short"))},
		{name: "empty", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCipher(tt.key)
			assert.Error(t, err)
		})
	}
}
