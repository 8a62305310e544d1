package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(key)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

func (m *mockKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(key, value, expiration)
	return redis.NewStatusResult("OK", args.Error(0))
}

func (m *mockKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(keys)
	return redis.NewIntResult(1, args.Error(0))
}

func TestRedisStoreLoadMissingKey(t *testing.T) {
	kv := new(mockKV)
	kv.On("Get", "heartlink:session").Return("", redis.Nil)

	token, err := NewRedisStore(kv, "").Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	kv.AssertExpectations(t)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := new(mockKV)
	kv.On("Set", "custom", "tok", time.Minute).Return(nil)
	kv.On("Get", "custom").Return("tok", nil)
	kv.On("Del", []string{"custom"}).Return(nil)

	store := NewRedisStore(kv, "custom")
	require.NoError(t, store.Save(ctx, "tok", time.Minute))

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Delete(ctx))
	kv.AssertExpectations(t)
}

func TestRedisStoreLoadError(t *testing.T) {
	kv := new(mockKV)
	kv.On("Get", "heartlink:session").Return("", errors.New("connection refused"))

	_, err := NewRedisStore(kv, "").Load(context.Background())
	assert.EqualError(t, err, "connection refused")
}

func TestRedisStoreDropsExpiredToken(t *testing.T) {
	kv := new(mockKV)
	kv.On("Del", []string{"heartlink:session"}).Return(nil).Once()

	require.NoError(t, NewRedisStore(kv, "").Save(context.Background(), "tok", -time.Second))
	kv.AssertExpectations(t)
	kv.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedisStoreZeroTTLKeepsToken(t *testing.T) {
	kv := new(mockKV)
	kv.On("Set", "heartlink:session", "tok", time.Duration(0)).Return(nil).Once()

	require.NoError(t, NewRedisStore(kv, "").Save(context.Background(), "tok", 0))
	kv.AssertExpectations(t)
}
