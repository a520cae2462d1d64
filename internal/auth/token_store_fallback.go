// auth/token_store_fallback.go
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// FallbackTokenStore provides a resilient token store with local cache
type FallbackTokenStore struct {
	redisStore  *RedisTokenStore
	cacheMutex  sync.RWMutex
	cached      *OAuthToken
	healthCheck func() bool
	log         *zap.Logger
}

// NewFallbackTokenStore creates a token store with Redis and local fallback
func NewFallbackTokenStore(redisClient redis.UniversalClient, prefix string, healthCheck func() bool, log *zap.Logger) *FallbackTokenStore {
	return &FallbackTokenStore{
		redisStore:  NewRedisTokenStore(redisClient, prefix),
		healthCheck: healthCheck,
		log:         log,
	}
}

// SaveToken stores the token in Redis and the local cache
func (s *FallbackTokenStore) SaveToken(ctx context.Context, token *OAuthToken) error {
	s.cacheMutex.Lock()
	copied := *token
	s.cached = &copied
	s.cacheMutex.Unlock()

	// If Redis is healthy, update it too
	if s.healthCheck() {
		if err := s.redisStore.SaveToken(ctx, token); err != nil {
			s.log.Warn("failed to save token to redis, keeping local copy", zap.Error(err))
		}
	}

	return nil
}

// GetToken retrieves the token, trying Redis first, falling back to the cache
func (s *FallbackTokenStore) GetToken(ctx context.Context) (*OAuthToken, error) {
	if s.healthCheck() {
		token, err := s.redisStore.GetToken(ctx)
		if err == nil {
			s.cacheMutex.Lock()
			copied := *token
			s.cached = &copied
			s.cacheMutex.Unlock()
			return token, nil
		}
		if err != ErrNoToken {
			s.log.Warn("failed to get token from redis, trying local cache", zap.Error(err))
		}
	}

	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()
	if s.cached == nil {
		return nil, ErrNoToken
	}
	copied := *s.cached
	return &copied, nil
}

// DeleteToken removes the token from both stores
func (s *FallbackTokenStore) DeleteToken(ctx context.Context) error {
	s.cacheMutex.Lock()
	s.cached = nil
	s.cacheMutex.Unlock()

	if s.healthCheck() {
		if err := s.redisStore.DeleteToken(ctx); err != nil {
			s.log.Warn("failed to delete token from redis", zap.Error(err))
		}
	}

	return nil
}

// StartReplicationRoutine begins background sync of the local cache to Redis
// so a token accepted during a Redis outage is not lost to a later restart.
func (s *FallbackTokenStore) StartReplicationRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.healthCheck() {
					continue
				}

				s.cacheMutex.RLock()
				var token *OAuthToken
				if s.cached != nil {
					copied := *s.cached
					token = &copied
				}
				s.cacheMutex.RUnlock()

				if token == nil {
					continue
				}
				if err := s.redisStore.SaveToken(ctx, token); err != nil {
					s.log.Warn("token replication to redis failed", zap.Error(err))
				}
			}
		}
	}()
}
