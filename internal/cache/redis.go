package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/models"

	"github.com/redis/go-redis/v9"
)

// 本包只缓存一种对象：支付会话。键统一落在
// <prefix>:payment:session:<id> 命名空间下，TTL 不合法时回退默认值。

// DefaultSessionTTLHours 支付会话默认存活小时数
const DefaultSessionTTLHours = 24

const sessionKeyspace = "payment:session"

var redisClient *redis.Client
var redisPrefix string
var redisEnabled bool

// InitRedis 初始化 Redis 客户端
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		redisEnabled = false
		return nil
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	redisPrefix = strings.TrimSpace(cfg.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sf"
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	redisEnabled = true
	return nil
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return redisEnabled && redisClient != nil
}

// Client 获取 Redis 客户端
func Client() *redis.Client {
	if !Enabled() {
		return nil
	}
	return redisClient
}

// SessionTTL 支付会话存活时长，小时数不合法时回退默认值。
// Redis 与内存两种会话存储共用此策略。
func SessionTTL(ttlHours int) time.Duration {
	if ttlHours <= 0 {
		ttlHours = DefaultSessionTTLHours
	}
	return time.Duration(ttlHours) * time.Hour
}

// GetPaymentSession 读取缓存的支付会话，未命中返回 (nil, nil)
func GetPaymentSession(ctx context.Context, sessionID string) (*models.PaymentSession, error) {
	var session models.PaymentSession
	found, err := getJSON(ctx, sessionKey(sessionID), &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &session, nil
}

// SetPaymentSession 写入支付会话缓存
func SetPaymentSession(ctx context.Context, session *models.PaymentSession, ttlHours int) error {
	if session == nil {
		return nil
	}
	return setJSON(ctx, sessionKey(session.ID), session, SessionTTL(ttlHours))
}

// DelPaymentSession 删除支付会话缓存
func DelPaymentSession(ctx context.Context, sessionID string) error {
	return del(ctx, sessionKey(sessionID))
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", sessionKeyspace, strings.TrimSpace(sessionID))
}

func getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	val, err := redisClient.Get(ctx, buildKey(key)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return redisClient.Set(ctx, buildKey(key), payload, ttl).Err()
}

func del(ctx context.Context, key string) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Del(ctx, buildKey(key)).Err()
}

func buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return redisPrefix
	}
	return fmt.Sprintf("%s:%s", redisPrefix, trimmed)
}
