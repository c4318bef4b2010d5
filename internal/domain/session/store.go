package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/carehub/portal/internal/domain/identity"
)

// Store holds one "current user" slot per session.
type Store interface {
	// Get returns nil and no error for an empty slot.
	Get(ctx context.Context, sessionID string) (*identity.User, error)
	Set(ctx context.Context, sessionID string, u *identity.User) error
	Clear(ctx context.Context, sessionID string) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]*identity.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]*identity.User)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[sessionID], nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, u *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[sessionID] = u
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, sessionID)
	return nil
}

// redisCmdable is the part of *redis.Client the store uses.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps each slot as a JSON-encoded user under one key that
// expires with the session.
type RedisStore struct {
	client redisCmdable
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func slotKey(sessionID string) string {
	return fmt.Sprintf("session:%s:current_user", sessionID)
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*identity.User, error) {
	raw, err := s.client.Get(ctx, slotKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session slot: %w", err)
	}
	var u identity.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode session slot: %w", err)
	}
	return &u, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, u *identity.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session slot: %w", err)
	}
	if err := s.client.Set(ctx, slotKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("write session slot: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, slotKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear session slot: %w", err)
	}
	return nil
}

// NewRedisClient parses url and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis server: %w", err)
	}
	return client, nil
}
