// auth/token_store.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// MemoryTokenStore keeps the connection token in process memory. The token
// survives only as long as the process; a restart forces reauthorization.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token *OAuthToken
}

// NewMemoryTokenStore creates an empty in-memory token store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// SaveToken stores the connection token
func (s *MemoryTokenStore) SaveToken(_ context.Context, token *OAuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *token
	s.token = &copied
	return nil
}

// GetToken retrieves the connection token
func (s *MemoryTokenStore) GetToken(_ context.Context) (*OAuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, ErrNoToken
	}
	copied := *s.token
	return &copied, nil
}

// DeleteToken removes the connection token
func (s *MemoryTokenStore) DeleteToken(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}

// RedisTokenStore implements TokenStore using Redis
type RedisTokenStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisTokenStore creates a new Redis-backed token store
func NewRedisTokenStore(client redis.UniversalClient, prefix string) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		prefix: prefix,
	}
}

// key generates the Redis key for the connection token
func (s *RedisTokenStore) key() string {
	return fmt.Sprintf("%s:token", s.prefix)
}

// SaveToken stores the connection token
func (s *RedisTokenStore) SaveToken(ctx context.Context, token *OAuthToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	// TTL covers the access-token expiry plus the refresh-token window buffer
	ttl := time.Until(token.ExpiresAt) + (24 * time.Hour)

	if err := s.client.Set(ctx, s.key(), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// GetToken retrieves the connection token
func (s *RedisTokenStore) GetToken(ctx context.Context) (*OAuthToken, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	var token OAuthToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}

// DeleteToken removes the connection token
func (s *RedisTokenStore) DeleteToken(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}
