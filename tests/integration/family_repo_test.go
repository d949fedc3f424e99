package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazoku-nikki/family-diary-backend/internal/family"
	"github.com/kazoku-nikki/family-diary-backend/internal/users"
)

// setupTestPostgres opens the test database, creating the tables the repos
// need. Skips when TEST_DB_DSN is not set.
func setupTestPostgres(t *testing.T) (*sql.DB, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())

	schema := []string{
		`create extension if not exists "pgcrypto";`,
		`create table if not exists users (
			id uuid primary key default gen_random_uuid(),
			firebase_uid text unique not null,
			email text,
			display_name text,
			avatar_url text,
			created_at timestamptz not null default now(),
			updated_at timestamptz not null default now()
		);`,
		`create table if not exists family_members (
			id uuid primary key default gen_random_uuid(),
			display_name text not null,
			email text not null,
			role text not null,
			joined_at timestamptz not null default now(),
			removed_at timestamptz
		);`,
		`create table if not exists family_invites (
			code text primary key,
			email text not null,
			role text not null,
			created_at timestamptz not null default now(),
			accepted_at timestamptz
		);`,
	}
	for _, q := range schema {
		_, err := db.Exec(q)
		require.NoError(t, err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Exec(`delete from family_invites;`)
		db.Exec(`delete from family_members;`)
		db.Exec(`delete from users;`)
		pool.Close()
		db.Close()
	})

	return db, pool
}

func TestInviteLifecycle(t *testing.T) {
	_, pool := setupTestPostgres(t)
	repo := family.NewRepo(pool)
	ctx := context.Background()

	inv, err := repo.CreateInvite(ctx, "grandma@example.com", family.RoleParent)
	require.NoError(t, err)
	assert.Regexp(t, `^fam-\d{5}-\d{4}$`, inv.Code)
	assert.Equal(t, "grandma@example.com", inv.Email)

	m, err := repo.AcceptInvite(ctx, inv.Code, "おばあちゃん")
	require.NoError(t, err)
	assert.Equal(t, "おばあちゃん", m.DisplayName)
	assert.Equal(t, family.RoleParent, m.Role)
	assert.Equal(t, "grandma@example.com", m.Email)

	// A claimed invite cannot be used again.
	_, err = repo.AcceptInvite(ctx, inv.Code, "someone else")
	assert.ErrorIs(t, err, family.ErrInviteNotFound)

	members, err := repo.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, m.ID, members[0].ID)
}

func TestAcceptUnknownInvite(t *testing.T) {
	_, pool := setupTestPostgres(t)
	repo := family.NewRepo(pool)

	_, err := repo.AcceptInvite(context.Background(), "fam-00000-0000", "nobody")
	assert.ErrorIs(t, err, family.ErrInviteNotFound)
}

func TestRemoveMemberSoftDelete(t *testing.T) {
	_, pool := setupTestPostgres(t)
	repo := family.NewRepo(pool)
	ctx := context.Background()

	inv, err := repo.CreateInvite(ctx, "kid@example.com", family.RoleChild)
	require.NoError(t, err)
	m, err := repo.AcceptInvite(ctx, inv.Code, "太郎")
	require.NoError(t, err)

	ok, err := repo.RemoveMember(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	members, err := repo.ListMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)

	// Removing twice is a no-op.
	ok, err = repo.RemoveMember(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnsureUserUpsert(t *testing.T) {
	db, pool := setupTestPostgres(t)
	repo := users.NewRepo(pool)
	ctx := context.Background()

	id1, err := repo.EnsureUser(ctx, users.UpsertUser{
		FirebaseUID: "uid-1",
		Email:       "mom@example.com",
		DisplayName: "お母さん",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	// Same uid resolves to the same row; empty fields do not erase data.
	id2, err := repo.EnsureUser(ctx, users.UpsertUser{FirebaseUID: "uid-1"})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	var name string
	require.NoError(t, db.QueryRow(`select display_name from users where firebase_uid = 'uid-1'`).Scan(&name))
	assert.Equal(t, "お母さん", name)
}
