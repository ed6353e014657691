package devserver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/models"
)

// ErrSessionNotFound 支付会话不存在
var ErrSessionNotFound = errors.New("payment session not found")

// SessionStore 支付会话存储接口
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.PaymentSession, error)
	Put(ctx context.Context, session *models.PaymentSession) error
}

// redisSessionStore Redis 支付会话存储
type redisSessionStore struct {
	ttlHours int
}

// NewRedisSessionStore 创建 Redis 支付会话存储（要求 cache 已初始化）
func NewRedisSessionStore(ttlHours int) SessionStore {
	return &redisSessionStore{ttlHours: ttlHours}
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (*models.PaymentSession, error) {
	session, err := cache.GetPaymentSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *redisSessionStore) Put(ctx context.Context, session *models.PaymentSession) error {
	return cache.SetPaymentSession(ctx, session, s.ttlHours)
}

// memorySessionStore 内存支付会话存储（未启用 Redis 时的回退）
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.PaymentSession
	ttl      time.Duration
	expires  map[string]time.Time
}

// NewMemorySessionStore 创建内存支付会话存储（TTL 策略与 Redis 存储一致）
func NewMemorySessionStore(ttlHours int) SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]models.PaymentSession),
		expires:  make(map[string]time.Time),
		ttl:      cache.SessionTTL(ttlHours),
	}
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (*models.PaymentSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	expiry, hasExpiry := s.expires[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if hasExpiry && time.Now().After(expiry) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		delete(s.expires, sessionID)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	copied := session
	return &copied, nil
}

func (s *memorySessionStore) Put(_ context.Context, session *models.PaymentSession) error {
	if session == nil {
		return nil
	}
	s.mu.Lock()
	s.sessions[session.ID] = *session
	s.expires[session.ID] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return nil
}
