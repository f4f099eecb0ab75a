package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yoockh/mindwell/internal/cache"
	"github.com/yoockh/mindwell/internal/utils"
)

// Store persists tracker sessions. Load returns utils.ErrNotFound for an
// unknown id.
type Store interface {
	Save(ctx context.Context, s *UserSession) error
	Load(ctx context.Context, id string) (*UserSession, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*UserSession, error)
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*UserSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*UserSession)}
}

func (m *MemoryStore) Save(_ context.Context, s *UserSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*UserSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false, nil
	}
	delete(m.sessions, id)
	return true, nil
}

func (m *MemoryStore) List(_ context.Context) ([]*UserSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*UserSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	return out, nil
}

const (
	redisKeyPrefix = "tracker:session:"
	redisIndexKey  = "tracker:sessions"
)

// RedisStore keeps each session as a JSON value with a TTL and tracks ids in
// a set. Ids whose value has expired are pruned from the set on List.
type RedisStore struct {
	c   cache.Cache
	ttl time.Duration
}

func NewRedisStore(c cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{c: c, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, s *UserSession) error {
	if err := r.c.SetJSON(ctx, redisKeyPrefix+s.ID, s, r.ttl); err != nil {
		return err
	}
	return r.c.SAdd(ctx, redisIndexKey, s.ID)
}

func (r *RedisStore) Load(ctx context.Context, id string) (*UserSession, error) {
	var s UserSession
	hit, err := r.c.GetJSON(ctx, redisKeyPrefix+id, &s)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	var s UserSession
	hit, err := r.c.GetJSON(ctx, redisKeyPrefix+id, &s)
	if err != nil {
		return false, err
	}
	if err := r.c.Del(ctx, redisKeyPrefix+id); err != nil {
		return false, err
	}
	if err := r.c.SRem(ctx, redisIndexKey, id); err != nil {
		return false, err
	}
	return hit, nil
}

func (r *RedisStore) List(ctx context.Context) ([]*UserSession, error) {
	ids, err := r.c.SMembers(ctx, redisIndexKey)
	if err != nil {
		return nil, err
	}
	out := make([]*UserSession, 0, len(ids))
	var stale []string
	for _, id := range ids {
		s, err := r.Load(ctx, id)
		if errors.Is(err, utils.ErrNotFound) {
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if len(stale) > 0 {
		if err := r.c.SRem(ctx, redisIndexKey, stale...); err != nil {
			return nil, err
		}
	}
	return out, nil
}
