package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionRepository(client), mr
}

func TestCreateAndGet(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	rec := &Record{UserID: "u1", Email: "mom@example.com", RefreshToken: "rt-1"}
	require.NoError(t, repo.Create(ctx, rec))
	require.NotEmpty(t, rec.SessionID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.True(t, rec.ExpiresAt.After(rec.CreatedAt))

	got, err := repo.Get(ctx, rec.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "mom@example.com", got.Email)
	assert.Equal(t, "rt-1", got.RefreshToken)
}

func TestGetMissing(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDelete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	rec := &Record{UserID: "u1"}
	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, repo.Delete(ctx, rec.SessionID))

	_, err := repo.Get(ctx, rec.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sessions, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestListByUserDropsExpired(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()

	a := &Record{UserID: "u1"}
	b := &Record{UserID: "u1"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	sessions, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	// Drop one record but leave its id in the user's index.
	mr.Del(sessionKeyPrefix + a.SessionID)

	sessions, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, b.SessionID, sessions[0].SessionID)
}

func TestDeleteByUser(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &Record{UserID: "u1"}))
	}
	other := &Record{UserID: "u2"}
	require.NoError(t, repo.Create(ctx, other))

	require.NoError(t, repo.DeleteByUser(ctx, "u1"))

	sessions, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = repo.Get(ctx, other.SessionID)
	assert.NoError(t, err)
}

func TestSessionExpiresWithTTL(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()

	rec := &Record{UserID: "u1"}
	require.NoError(t, repo.Create(ctx, rec))

	mr.FastForward(25 * time.Hour)

	_, err := repo.Get(ctx, rec.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
