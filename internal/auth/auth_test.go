package auth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestGenerateAndValidateJWT(t *testing.T) {
	secret := []byte("test-secret")

	token, expiresAt, err := GenerateJWT("admin", secret)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	claims, err := ValidateJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, _, err := GenerateJWT("admin", []byte("secret-a"))
	require.NoError(t, err)

	_, err = ValidateJWT(token, []byte("secret-b"))
	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not.a.jwt", []byte("secret"))
	assert.Error(t, err)
}

func TestUserStore_Authenticate(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewUserStore(client)
	ctx := context.Background()

	hash, err := HashPassword("hunter22hunter22")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "admin", hash))

	assert.NoError(t, store.Authenticate(ctx, "admin", "hunter22hunter22"))
	assert.Error(t, store.Authenticate(ctx, "admin", "wrong"))
	assert.ErrorIs(t, store.Authenticate(ctx, "nobody", "pw"), ErrUserNotFound)
}
