package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrUserNotFound is returned when no such user exists.
var ErrUserNotFound = errors.New("user not found")

// UserStore persists dashboard users as bcrypt hashes in Redis. Users are
// seeded by the init-admin command; there is no self-service signup.
type UserStore struct {
	redis *redis.Client
}

// NewUserStore creates a user store backed by the given Redis client.
func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{redis: client}
}

func userKey(username string) string {
	return fmt.Sprintf("user:%s", username)
}

// Put stores (or overwrites) a user's password hash.
func (s *UserStore) Put(ctx context.Context, username, passwordHash string) error {
	return s.redis.Set(ctx, userKey(username), passwordHash, 0).Err()
}

// Authenticate checks the password for username. It returns ErrUserNotFound
// for unknown users and an invalid-credentials error for a bad password, so
// callers can log them apart while reporting them identically.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) error {
	hash, err := s.redis.Get(ctx, userKey(username)).Result()
	if err == redis.Nil {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !CheckPassword(hash, password) {
		return errors.New("invalid credentials")
	}
	return nil
}
