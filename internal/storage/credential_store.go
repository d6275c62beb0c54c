package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CredentialStore persists per-(project, platform) secret mappings in Redis,
// AES-GCM encrypted at rest. It mirrors the original key-value storage
// semantics: reads of absent entries return an empty mapping, writes replace
// the whole blob, nothing is ever merged.
type CredentialStore struct {
	redis      *redis.Client
	encryption *Encryption
	cache      *LRUCache
}

// NewCredentialStore creates a credential store. Cache settings bound how
// long decrypted blobs are kept in memory.
func NewCredentialStore(client *redis.Client, enc *Encryption, cacheSize int, cacheTTL time.Duration) *CredentialStore {
	return &CredentialStore{
		redis:      client,
		encryption: enc,
		cache:      NewLRUCache(cacheSize, cacheTTL),
	}
}

// credentialKey is the (project, platform) natural key. Changing the active
// project changes the prefix, so one project's secrets can never satisfy
// another project's read.
func credentialKey(platform, projectID string) string {
	return fmt.Sprintf("cred:%s:%s", projectID, platform)
}

// Get returns the stored mapping for (platform, project), or an empty
// mapping when nothing has been saved. Absence is not an error.
func (s *CredentialStore) Get(ctx context.Context, platform, projectID string) (map[string]string, error) {
	key := credentialKey(platform, projectID)

	if cached, ok := s.cache.Get(key); ok {
		return cloneSecrets(cached.(map[string]string)), nil
	}

	ciphertext, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	secrets, err := s.encryption.DecryptSecrets(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	s.cache.Set(key, cloneSecrets(secrets))
	return secrets, nil
}

// Set overwrites the stored mapping entirely. Callers needing a partial
// update must read-modify-write.
func (s *CredentialStore) Set(ctx context.Context, platform, projectID string, values map[string]string) error {
	key := credentialKey(platform, projectID)

	ciphertext, err := s.encryption.EncryptSecrets(values)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	if err := s.redis.Set(ctx, key, ciphertext, 0).Err(); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	s.cache.Set(key, cloneSecrets(values))
	return nil
}

func cloneSecrets(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
