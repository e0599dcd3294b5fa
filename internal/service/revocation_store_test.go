package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationStore(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryRevocationStore{items: map[string]time.Time{}, now: func() time.Time { return now }}
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, " j1 ", time.Minute))
	revoked, err = store.IsRevoked(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "j1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "", time.Minute))
	require.NoError(t, store.Revoke(ctx, "j2", 0))
	assert.Empty(t, store.items)
}

func TestMemoryRevocationStore_RevokeSweepsExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryRevocationStore{items: map[string]time.Time{}, now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "j1", time.Minute))
	require.NoError(t, store.Revoke(ctx, "j2", time.Hour))

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Revoke(ctx, "j3", time.Minute))

	assert.Len(t, store.items, 2)
	assert.NotContains(t, store.items, "j1")
	assert.Contains(t, store.items, "j2")
	assert.Contains(t, store.items, "j3")
}

func TestRedisRevocationStore(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisRevocationStore(client)
	ctx := context.Background()

	mock.ExpectSet("auth:revoked:j1", 1, time.Minute).SetVal("OK")
	require.NoError(t, store.Revoke(ctx, " j1 ", time.Minute))

	mock.ExpectExists("auth:revoked:j1").SetVal(1)
	revoked, err := store.IsRevoked(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mock.ExpectExists("auth:revoked:j2").SetVal(0)
	revoked, err = store.IsRevoked(ctx, "j2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mock.ExpectExists("auth:revoked:j3").SetErr(errors.New("down"))
	_, err = store.IsRevoked(ctx, "j3")
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisRevocationStore_NilClient(t *testing.T) {
	assert.Nil(t, NewRedisRevocationStore(nil))
}
