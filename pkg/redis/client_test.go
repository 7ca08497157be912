package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/retail-admin-backend/pkg/config"
)

func TestIncrWithTTLSetsExpiryOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	for want := int64(1); want <= 3; want++ {
		count, err := client.IncrWithTTL(ctx, "login:ip:1.2.3.4", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != want {
			t.Fatalf("expected counter %d got %d", want, count)
		}
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expected a single expire call, got %d", len(mock.expireCalls))
	}
	if call := mock.expireCalls[0]; call.key != "retail:rate_limit:login:ip:1.2.3.4" || call.ttl != time.Minute {
		t.Fatalf("unexpected expire call %+v", call)
	}
}

func TestResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if _, err := client.IncrWithTTL(ctx, "login:user:alice", time.Minute); err != nil {
		t.Fatalf("incr: %v", err)
	}
	if err := client.Reset(ctx, "login:user:alice"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	count, err := client.IncrWithTTL(ctx, "login:user:alice", time.Minute)
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected counter to restart at 1, got %d", count)
	}
}

func TestUninitializedClient(t *testing.T) {
	var client *Client
	if _, err := client.IncrWithTTL(context.Background(), "k", time.Second); err == nil {
		t.Fatal("expected error from nil client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on nil client should be a no-op, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected missing url error")
	}
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:         "redis://localhost:6380/2",
		PoolSize:    7,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 {
		t.Fatalf("unexpected address/db %s/%d", opts.Addr, opts.DB)
	}
	if opts.PoolSize != 7 || opts.DialTimeout != 2*time.Second {
		t.Fatalf("pool settings not applied: %+v", opts)
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	client := &Client{}
	if got := client.buildKey(rateLimitPrefix, "", " login "); got != "retail:rate_limit:login" {
		t.Fatalf("unexpected key %s", got)
	}
}

type mockCmdable struct {
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{incr: make(map[string]int64)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.incr, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
