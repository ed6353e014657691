package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/alicebob/miniredis/v2"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	if err != nil {
		t.Fatalf("miniredis port invalid: %v", err)
	}
	if err := InitRedis(&config.RedisConfig{
		Enabled: true,
		Host:    server.Host(),
		Port:    port,
		Prefix:  "sf",
	}); err != nil {
		t.Fatalf("init redis failed: %v", err)
	}
	t.Cleanup(func() {
		redisEnabled = false
		redisClient = nil
	})
	return server
}

func TestCacheDisabledIsNoOp(t *testing.T) {
	if err := InitRedis(nil); err != nil {
		t.Fatalf("disabled init failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	ctx := context.Background()
	if err := SetPaymentSession(ctx, &models.PaymentSession{ID: "cs_off"}, 1); err != nil {
		t.Fatalf("disabled set should be a no-op: %v", err)
	}
	got, err := GetPaymentSession(ctx, "cs_off")
	if err != nil || got != nil {
		t.Fatalf("disabled get want miss got (%v,%v)", got, err)
	}
}

func TestSessionTTLFallsBackToDefault(t *testing.T) {
	if got := SessionTTL(0); got != time.Duration(DefaultSessionTTLHours)*time.Hour {
		t.Fatalf("ttl(0) want default got %v", got)
	}
	if got := SessionTTL(-3); got != time.Duration(DefaultSessionTTLHours)*time.Hour {
		t.Fatalf("ttl(-3) want default got %v", got)
	}
	if got := SessionTTL(2); got != 2*time.Hour {
		t.Fatalf("ttl(2) want 2h got %v", got)
	}
}

func TestPaymentSessionRoundTrip(t *testing.T) {
	server := setupRedis(t)
	ctx := context.Background()

	session := &models.PaymentSession{
		ID:            "cs_cache",
		PaymentStatus: constants.PaymentStatusUnpaid,
		AmountTotal:   4999,
		Currency:      "USD",
		Metadata:      map[string]string{"user_id": "1"},
	}
	if err := SetPaymentSession(ctx, session, 1); err != nil {
		t.Fatalf("set session failed: %v", err)
	}

	// 键落在前缀 + 会话命名空间下，带会话 TTL
	key := "sf:payment:session:cs_cache"
	if !server.Exists(key) {
		t.Fatalf("key want %s got %v", key, server.Keys())
	}
	if ttl := server.TTL(key); ttl != time.Hour {
		t.Fatalf("ttl want 1h got %v", ttl)
	}

	got, err := GetPaymentSession(ctx, "cs_cache")
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if got == nil || got.AmountTotal != 4999 || got.Metadata["user_id"] != "1" {
		t.Fatalf("session mismatch: %+v", got)
	}

	missing, err := GetPaymentSession(ctx, "cs_other")
	if err != nil || missing != nil {
		t.Fatalf("unknown session want (nil,nil) got (%v,%v)", missing, err)
	}

	if err := DelPaymentSession(ctx, "cs_cache"); err != nil {
		t.Fatalf("del session failed: %v", err)
	}
	if got, _ := GetPaymentSession(ctx, "cs_cache"); got != nil {
		t.Fatalf("session should be gone after delete")
	}
}
