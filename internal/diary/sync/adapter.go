// Package sync bridges the entry store to the document backend: it forwards
// writes and feeds inbound snapshots back into the store.
package sync

import (
	"context"
	"errors"
	"log"
	"strings"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/store"
	"github.com/kazoku-nikki/family-diary-backend/internal/session"
)

// DocumentStore is the slice of the document backend the adapter needs. The
// production implementation is Firestore; the in-memory one serves tests and
// disconnected development.
type DocumentStore interface {
	// Listen opens the live snapshot feed for the given viewer and invokes
	// onSnapshot with the whole collection on every change. It blocks until
	// ctx is done and returns nil on clean teardown.
	Listen(ctx context.Context, viewerID string, onSnapshot func([]domain.DiaryEntry)) error

	Insert(ctx context.Context, input domain.CreateEntryInput, authorID string) (string, error)
	ToggleLike(ctx context.Context, entryID, viewerID string) error
	AddComment(ctx context.Context, entryID string, comment domain.Comment) error
	AddImage(ctx context.Context, entryID string, image domain.EntryImage) error
}

// Adapter wires the session gate, the entry store and the document backend
// together. Writes go to the backend only; the store is updated exclusively
// by inbound snapshots, so the backend's view always wins and there is no
// optimistic local state to reconcile.
type Adapter struct {
	docs  DocumentStore
	store *store.Store

	mu     gosync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(docs DocumentStore, st *store.Store) *Adapter {
	return &Adapter{docs: docs, store: st}
}

// Bind subscribes the adapter to gate transitions: login opens the snapshot
// feed, logout tears it down and clears the store.
func (a *Adapter) Bind(g *session.Gate) {
	g.OnChange(func(u *domain.User) {
		if u != nil {
			a.Start(*u)
		} else {
			a.Stop()
		}
	})
}

// Start opens the snapshot subscription for the given viewer. A second Start
// while one is live is a no-op.
func (a *Adapter) Start(viewer domain.User) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done

	go func() {
		defer close(done)
		err := a.docs.Listen(ctx, viewer.ID, a.store.Replace)
		if err != nil && ctx.Err() == nil {
			log.Printf("[error] operation=subscribe error=%v", &domain.SyncError{Op: "subscribe", Err: err})
		}
	}()
}

// Stop tears down the subscription deterministically and clears the store.
// No snapshot callback fires after Stop returns.
func (a *Adapter) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	done := a.done
	a.cancel = nil
	a.done = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	a.store.Clear()
}

// Create validates and forwards an insert. The caller sees the new entry
// when the authoritative snapshot lands, not before.
func (a *Adapter) Create(ctx context.Context, input domain.CreateEntryInput, author domain.User) (string, error) {
	if err := input.Validate(); err != nil {
		return "", err
	}

	id, err := a.docs.Insert(ctx, input, author.ID)
	if err != nil {
		serr := &domain.SyncError{Op: "create entry", Err: err}
		log.Printf("[error] operation=create_entry error=%v", serr)
		return "", serr
	}
	return id, nil
}

// ToggleLike flips the viewer's like in the backend.
func (a *Adapter) ToggleLike(ctx context.Context, entryID, viewerID string) error {
	err := a.docs.ToggleLike(ctx, entryID, viewerID)
	if err == nil || errors.Is(err, domain.ErrEntryNotFound) {
		return err
	}
	serr := &domain.SyncError{Op: "toggle like", Err: err}
	log.Printf("[error] operation=toggle_like entry_id=%s error=%v", entryID, serr)
	return serr
}

// AddComment validates, stamps and forwards a comment. The content is kept
// verbatim; only all-blank input is rejected.
func (a *Adapter) AddComment(ctx context.Context, entryID, content string, author domain.User) (domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, &domain.ValidationError{Field: "content", Reason: "must not be blank"}
	}

	au := author
	comment := domain.Comment{
		ID:        uuid.NewString(),
		Content:   content,
		Author:    &au,
		CreatedAt: time.Now(),
	}

	err := a.docs.AddComment(ctx, entryID, comment)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return domain.Comment{}, err
		}
		serr := &domain.SyncError{Op: "add comment", Err: err}
		log.Printf("[error] operation=add_comment entry_id=%s error=%v", entryID, serr)
		return domain.Comment{}, serr
	}
	return comment, nil
}

// AddImage attaches an uploaded image to an entry.
func (a *Adapter) AddImage(ctx context.Context, entryID string, image domain.EntryImage) error {
	err := a.docs.AddImage(ctx, entryID, image)
	if err == nil || errors.Is(err, domain.ErrEntryNotFound) {
		return err
	}
	serr := &domain.SyncError{Op: "add image", Err: err}
	log.Printf("[error] operation=add_image entry_id=%s error=%v", entryID, serr)
	return serr
}
