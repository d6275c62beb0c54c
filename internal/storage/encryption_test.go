package storage

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryption_RoundTrip(t *testing.T) {
	enc := testEncryption(t)

	ciphertext, err := enc.Encrypt([]byte("hello"))
	require.NoError(t, err)
	assert.NotEqual(t, "hello", ciphertext)

	plaintext, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), plaintext)
}

func TestEncryption_NonDeterministic(t *testing.T) {
	enc := testEncryption(t)

	first, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)
	second, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)

	// A fresh nonce per call means identical plaintexts never produce
	// identical ciphertexts.
	assert.NotEqual(t, first, second)
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	enc := testEncryption(t)
	other := testEncryption(t)

	ciphertext, err := enc.Encrypt([]byte("secret"))
	require.NoError(t, err)

	_, err = other.Decrypt(ciphertext)
	assert.Error(t, err)
}

func TestEncryption_RejectsBadKeySize(t *testing.T) {
	_, err := NewEncryption([]byte("too short"))
	assert.Error(t, err)
}

func TestEncryption_SecretsRoundTrip(t *testing.T) {
	enc := testEncryption(t)

	secrets := map[string]string{"apiKey": "AIza123", "accessToken": ""}
	ciphertext, err := enc.EncryptSecrets(secrets)
	require.NoError(t, err)

	got, err := enc.DecryptSecrets(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, secrets, got)
}

func TestNewEncryptionFromBase64(t *testing.T) {
	key, err := GenerateKey(32)
	require.NoError(t, err)

	_, err = base64.StdEncoding.DecodeString(key)
	require.NoError(t, err)

	enc, err := NewEncryptionFromBase64(key)
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt([]byte("x"))
	require.NoError(t, err)
	_, err = enc.Decrypt(ciphertext)
	assert.NoError(t, err)

	_, err = NewEncryptionFromBase64("")
	assert.Error(t, err)
}
