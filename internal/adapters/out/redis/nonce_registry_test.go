package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setCall struct {
	key string
	ttl time.Duration
}

type mockCmdable struct {
	data     map[string]string
	setCalls []setCall
	err      error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.err)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if m.err != nil {
		return redis.NewBoolResult(false, m.err)
	}
	m.setCalls = append(m.setCalls, setCall{key: key, ttl: ttl})
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func newRegistry(t *testing.T) (*NonceRegistry, *mockCmdable) {
	t.Helper()
	store := newMockCmdable()
	registry, err := NewNonceRegistry(&Client{store: store})
	require.NoError(t, err)
	return registry, store
}

func TestNonceRegistry_RegisterAndResolve(t *testing.T) {
	registry, store := newRegistry(t)
	orderID := kernel.NewUUID()

	require.NoError(t, registry.Register(t.Context(), "nonce-1", orderID, 15*time.Minute))

	require.Len(t, store.setCalls, 1)
	assert.Equal(t, "fulfillment:pickup:nonce:nonce-1", store.setCalls[0].key)
	assert.Equal(t, 15*time.Minute, store.setCalls[0].ttl)

	resolved, err := registry.Resolve(t.Context(), "nonce-1")
	require.NoError(t, err)
	assert.Equal(t, orderID, resolved)
}

func TestNonceRegistry_RegisterWithoutTTLStillExpires(t *testing.T) {
	registry, store := newRegistry(t)

	require.NoError(t, registry.Register(t.Context(), "nonce-1", kernel.NewUUID(), 0))
	require.NoError(t, registry.Register(t.Context(), "nonce-2", kernel.NewUUID(), -time.Minute))

	require.Len(t, store.setCalls, 2)
	assert.Equal(t, DefaultNonceTTL, store.setCalls[0].ttl)
	assert.Equal(t, DefaultNonceTTL, store.setCalls[1].ttl)
}

func TestNonceRegistry_RegisterTwice(t *testing.T) {
	registry, _ := newRegistry(t)

	require.NoError(t, registry.Register(t.Context(), "nonce-1", kernel.NewUUID(), time.Minute))
	err := registry.Register(t.Context(), "nonce-1", kernel.NewUUID(), time.Minute)

	require.ErrorIs(t, err, ErrNonceTaken)
}

func TestNonceRegistry_RegisterValidatesInput(t *testing.T) {
	registry, store := newRegistry(t)

	require.Error(t, registry.Register(t.Context(), "  ", kernel.NewUUID(), time.Minute))
	require.ErrorIs(t, registry.Register(t.Context(), "nonce-1", kernel.UUID{}, time.Minute), kernel.ErrUUIDIsNotConstructed)
	assert.Empty(t, store.setCalls)
}

func TestNonceRegistry_ResolveUnknown(t *testing.T) {
	registry, store := newRegistry(t)
	store.data["fulfillment:pickup:nonce:garbage"] = "not-a-uuid"

	for _, nonce := range []string{"", "missing", "garbage"} {
		_, err := registry.Resolve(t.Context(), nonce)
		require.ErrorIs(t, err, ports.ErrNonceUnknown, nonce)
	}
}

func TestNonceRegistry_StoreFailure(t *testing.T) {
	registry, store := newRegistry(t)
	store.err = errors.New("connection refused")

	err := registry.Register(t.Context(), "nonce-1", kernel.NewUUID(), time.Minute)
	require.ErrorIs(t, err, store.err)

	_, err = registry.Resolve(t.Context(), "nonce-1")
	require.ErrorIs(t, err, store.err)
	assert.NotErrorIs(t, err, ports.ErrNonceUnknown)
}

func TestNewNonceRegistry_RequiresClient(t *testing.T) {
	_, err := NewNonceRegistry(nil)
	require.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(Config{})
	require.Error(t, err)

	opts, err := optionsFromConfig(Config{URL: "redis://:secret@localhost:6380/2", PoolSize: 20, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(Config{Address: "cache:6379", DB: 3})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)
}
