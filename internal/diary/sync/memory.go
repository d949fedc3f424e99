package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
)

// MemoryStore is the in-process document backend used when no Firebase
// project is configured, and as the test double. It mirrors the Firestore
// semantics: per-viewer likes, whole-collection snapshots, server-side
// creation timestamps.
type MemoryStore struct {
	mu       gosync.Mutex
	docs     []*memEntry
	watchers map[int]chan struct{}
	nextID   int

	now func() time.Time
}

type memEntry struct {
	entry    domain.DiaryEntry
	likes    map[string]bool
	comments []domain.Comment
}

func NewMemoryStore(seed []domain.DiaryEntry) *MemoryStore {
	m := &MemoryStore{
		watchers: make(map[int]chan struct{}),
		now:      time.Now,
	}
	for _, e := range seed {
		me := &memEntry{
			entry: e,
			likes: make(map[string]bool),
		}
		me.comments = append(me.comments, e.Comments...)
		me.entry.Comments = nil
		me.entry.IsLiked = false
		m.docs = append(m.docs, me)
	}
	return m
}

func (m *MemoryStore) Listen(ctx context.Context, viewerID string, onSnapshot func([]domain.DiaryEntry)) error {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	ch := make(chan struct{}, 1)
	m.watchers[id] = ch
	snap := m.snapshotLocked(viewerID)
	m.mu.Unlock()

	// Initial snapshot, then one per change. Changes are coalesced; every
	// delivery carries the full current collection.
	onSnapshot(snap)

	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			delete(m.watchers, id)
			m.mu.Unlock()
			return nil
		case <-ch:
			m.mu.Lock()
			snap := m.snapshotLocked(viewerID)
			m.mu.Unlock()
			onSnapshot(snap)
		}
	}
}

func (m *MemoryStore) Insert(_ context.Context, input domain.CreateEntryInput, authorID string) (string, error) {
	m.mu.Lock()
	me := &memEntry{
		entry: domain.DiaryEntry{
			ID:           uuid.NewString(),
			Title:        input.Title,
			Content:      input.Content,
			AuthorID:     authorID,
			PrivacyLevel: input.PrivacyLevel,
			EventDate:    input.EventDate,
			CreatedAt:    m.now(),
			Category:     domain.CategoryByID(input.CategoryID),
		},
		likes: make(map[string]bool),
	}
	m.docs = append(m.docs, me)
	id := me.entry.ID
	m.mu.Unlock()

	m.notify()
	return id, nil
}

func (m *MemoryStore) ToggleLike(_ context.Context, entryID, viewerID string) error {
	m.mu.Lock()
	me := m.findLocked(entryID)
	if me == nil {
		m.mu.Unlock()
		return domain.ErrEntryNotFound
	}
	if me.likes[viewerID] {
		delete(me.likes, viewerID)
		if me.entry.LikeCount > 0 {
			me.entry.LikeCount--
		}
	} else {
		me.likes[viewerID] = true
		me.entry.LikeCount++
	}
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *MemoryStore) AddComment(_ context.Context, entryID string, comment domain.Comment) error {
	m.mu.Lock()
	me := m.findLocked(entryID)
	if me == nil {
		m.mu.Unlock()
		return domain.ErrEntryNotFound
	}
	me.comments = append(me.comments, comment)
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *MemoryStore) AddImage(_ context.Context, entryID string, image domain.EntryImage) error {
	m.mu.Lock()
	me := m.findLocked(entryID)
	if me == nil {
		m.mu.Unlock()
		return domain.ErrEntryNotFound
	}
	me.entry.Images = append(me.entry.Images, image)
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *MemoryStore) findLocked(entryID string) *memEntry {
	for _, me := range m.docs {
		if me.entry.ID == entryID {
			return me
		}
	}
	return nil
}

func (m *MemoryStore) snapshotLocked(viewerID string) []domain.DiaryEntry {
	out := make([]domain.DiaryEntry, 0, len(m.docs))
	for _, me := range m.docs {
		e := me.entry
		e.IsLiked = me.likes[viewerID]
		e.Comments = append([]domain.Comment(nil), me.comments...)
		e.CommentCount = len(me.comments)
		e.Images = append([]domain.EntryImage(nil), me.entry.Images...)
		out = append(out, e)
	}
	return out
}

func (m *MemoryStore) notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
