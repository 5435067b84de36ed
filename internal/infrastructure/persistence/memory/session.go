package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// SessionStore 进程内会话与黑名单,Redis未启用时使用
// 与redis.SessionStore方法一致
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uint]expiring
	blacklist map[string]time.Time
	now       func() time.Time
}

type expiring struct {
	data      map[string]string
	expiresAt time.Time
}

// NewSessionStore 创建进程内会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[uint]expiring),
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

func (s *SessionStore) SaveSession(_ context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]string, len(data))
	for k, v := range data {
		values[k] = fmt.Sprint(v)
	}
	s.sessions[userID] = expiring{data: values, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, userID uint) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || !s.now().Before(sess.expiresAt) {
		delete(s.sessions, userID)
		return nil, apperrors.ErrUnauthorized
	}
	return sess.data, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func (s *SessionStore) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist[token] = s.now().Add(ttl)
	return nil
}

func (s *SessionStore) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.blacklist[token]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.blacklist, token)
		return false, nil
	}
	return true, nil
}

// Cache 进程内JSON缓存,Redis未启用时使用
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewCache 创建进程内缓存
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, apperrors.Wrap(err, "解析缓存失败")
	}
	return true, nil
}

func (c *Cache) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, "序列化缓存失败")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: data, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}
