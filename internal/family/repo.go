// Package family manages the household roster: who belongs, with which
// role, and the invite flow for adding someone new.
package family

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInviteNotFound = errors.New("invite not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// ListMembers returns the roster in join order.
func (r *Repo) ListMembers(ctx context.Context) ([]Member, error) {
	const q = `
select id::text, display_name, email, role, joined_at
from family_members
where removed_at is null
order by joined_at asc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Member, 0, 8)
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Email, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateInvite records a pending invitation with a fresh code. Codes are
// random; a collision with an existing one is retried a few times.
func (r *Repo) CreateInvite(ctx context.Context, email, role string) (*Invite, error) {
	if email == "" {
		return nil, fmt.Errorf("email required")
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	for i := 0; i < 5; i++ {
		code, err := NewInviteCode("fam")
		if err != nil {
			return nil, err
		}

		const q = `
insert into family_invites (code, email, role)
values ($1, $2, $3)
returning code, email, role, created_at;
`
		var inv Invite
		err = r.db.QueryRow(ctx, q, code, email, role).
			Scan(&inv.Code, &inv.Email, &inv.Role, &inv.CreatedAt)

		if err == nil {
			return &inv, nil
		}

		// unique violation on code → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique invite code")
}

// AcceptInvite marks the invite accepted and adds the member in one
// transaction.
func (r *Repo) AcceptInvite(ctx context.Context, code, displayName string) (*Member, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const claim = `
update family_invites
set accepted_at = now()
where code = $1 and accepted_at is null
returning email, role;
`
	var email, role string
	if err := tx.QueryRow(ctx, claim, code).Scan(&email, &role); err != nil {
		return nil, ErrInviteNotFound
	}

	const insert = `
insert into family_members (display_name, email, role)
values ($1, $2, $3)
returning id::text, display_name, email, role, joined_at;
`
	var m Member
	if err := tx.QueryRow(ctx, insert, displayName, email, role).
		Scan(&m.ID, &m.DisplayName, &m.Email, &m.Role, &m.JoinedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveMember soft-deletes a member from the roster.
func (r *Repo) RemoveMember(ctx context.Context, memberID string) (bool, error) {
	const q = `
update family_members
set removed_at = now()
where id = $1::uuid and removed_at is null;
`
	ct, err := r.db.Exec(ctx, q, memberID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
