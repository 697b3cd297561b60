package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealUnseal(t *testing.T) {
	payload := []byte(`{"endpoint":"http://localhost:5000"}`)

	ciphertext, err := seal(payload, []byte("passphrase"))
	require.NoError(t, err)
	assert.NotContains(t, string(ciphertext), "localhost")

	plaintext, err := unseal(ciphertext, []byte("passphrase"))
	require.NoError(t, err)
	assert.Equal(t, payload, plaintext)

	_, err = unseal(ciphertext, []byte("wrong"))
	assert.EqualError(t, err, "could not decrypt credentials file: chacha20poly1305: message authentication failed")

	_, err = unseal(ciphertext[:10], []byte("passphrase"))
	assert.EqualError(t, err, "credentials file is too short")
}
