package config

import (
	"bytes"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyedCodecValidatesLengths(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 32)
	iv := bytes.Repeat([]byte{0x22}, 16)

	_, err := NewKeyedCodec(key, iv)
	assert.NoError(t, err)

	_, err = NewKeyedCodec(key[:31], iv)
	assert.Error(t, err)

	_, err = NewKeyedCodec(key, iv[:8])
	assert.Error(t, err)
}

func TestCodecRoundTrip(t *testing.T) {
	c, err := NewKeyedCodec(bytes.Repeat([]byte{1}, 32), bytes.Repeat([]byte{2}, 16))
	require.NoError(t, err)

	plain := []byte(`{"access_token":"a","refresh_token":"r"}`)
	sealed, err := c.Encrypt(plain)
	require.NoError(t, err)
	opened, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestSetCodecAppliesToStorage(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	c, err := NewKeyedCodec(bytes.Repeat([]byte{3}, 32), bytes.Repeat([]byte{4}, 16))
	require.NoError(t, err)
	restore := SetCodec(c)
	defer restore()

	require.NoError(t, SaveTokens(Tokens{AccessToken: "at", RefreshToken: "rt"}))
	tokens, err := LoadTokens()
	require.NoError(t, err)
	assert.Equal(t, "at", tokens.AccessToken)
}
