// internal/session/redis_test.go
package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "lease-concierge/internal/common/errors"
	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/models"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Hour, logger.NewTestLogger(t)), mr
}

func sampleSession() *models.Session {
	beds := 2
	return &models.Session{
		ID:    "sess-1",
		State: models.StateCollectingFields,
		Prospect: models.ProspectRecord{
			Name:       "Jane Doe",
			Email:      "jane@example.com",
			BedsWanted: &beds,
		},
		Turns: []models.Turn{
			{Sender: "user", Text: "hi", Timestamp: time.Now().UTC().Truncate(time.Second)},
		},
		SelectedUnitIDs: []string{"B301"},
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
		UpdatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	sess := sampleSession()
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, models.StateCollectingFields, loaded.State)
	assert.Equal(t, "Jane Doe", loaded.Prospect.Name)
	require.NotNil(t, loaded.Prospect.BedsWanted)
	assert.Equal(t, 2, *loaded.Prospect.BedsWanted)
	assert.Equal(t, []string{"B301"}, loaded.SelectedUnitIDs)
	require.Len(t, loaded.Turns, 1)
	assert.Equal(t, "user", loaded.Turns[0].Sender)
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_UnavailableBackendWrapped(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession()))
	mr.Close()

	var stdErr *stderrors.StandardError

	_, err := store.Load(ctx, "sess-1")
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeSessionLoadFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)

	err = store.Save(ctx, sampleSession())
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeSessionSaveFailed, stdErr.Code)
}

func TestRedisStore_SaveSetsTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)

	require.NoError(t, store.Save(context.Background(), sampleSession()))

	ttl := mr.TTL(keyPrefix + "sess-1")
	assert.Equal(t, time.Hour, ttl)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession()))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := sampleSession()
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Prospect.Email, loaded.Prospect.Email)

	// Mutating the loaded copy must not affect the stored one.
	loaded.Prospect.Email = "other@example.com"
	again, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", again.Prospect.Email)
}

func TestMemoryStore_Missing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
