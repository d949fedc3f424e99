// Package repository keeps a Redis record per live session so the operator
// can enumerate and revoke them; the record expires with the session.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix   = "diary:session:"  // session data: diary:session:{session_id}
	userSessionsPrefix = "diary:sessions:" // set of session ids per user: diary:sessions:{user_id}
	defaultSessionTTL  = 24 * time.Hour
)

var ErrSessionNotFound = errors.New("session not found")

// Record is the stored shape of one login session.
type Record struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client, ttl: defaultSessionTTL}
}

// Create stores a new session record. A missing id and timestamps are filled
// in here so callers can pass a sparse record.
func (r *SessionRepository) Create(ctx context.Context, rec *Record) error {
	if rec.SessionID == "" {
		rec.SessionID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.ExpiresAt.IsZero() {
		rec.ExpiresAt = rec.CreatedAt.Add(r.ttl)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		ttl = r.ttl
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.sessionKey(rec.SessionID), data, ttl)
	pipe.SAdd(ctx, r.userKey(rec.UserID), rec.SessionID)
	pipe.Expire(ctx, r.userKey(rec.UserID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get retrieves a session by id.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*Record, error) {
	data, err := r.client.Get(ctx, r.sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &rec, nil
}

// Delete removes one session.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	rec, err := r.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.sessionKey(sessionID))
	pipe.SRem(ctx, r.userKey(rec.UserID), sessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListByUser returns the user's live sessions. Ids whose record has already
// expired are dropped from the index as a side effect.
func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]*Record, error) {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err == ErrSessionNotFound {
			r.client.SRem(ctx, r.userKey(userID), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DeleteByUser removes every session the user has.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	pipe := r.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, r.sessionKey(id))
	}
	pipe.Del(ctx, r.userKey(userID))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) sessionKey(id string) string { return sessionKeyPrefix + id }
func (r *SessionRepository) userKey(id string) string    { return userSessionsPrefix + id }
