package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
)

// Store owns the in-memory entry list. When a document backend is attached
// the backend is the owner of record and the store is a replaceable snapshot
// of it; when running standalone the store is the only state there is.
//
// The snapshot listener and HTTP handlers run on different goroutines, so
// every access goes through the mutex.
type Store struct {
	mu      sync.RWMutex
	entries []domain.DiaryEntry
	version uint64

	now   func() time.Time
	newID func() string
}

func New() *Store {
	return &Store{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// List returns a copy of the current entries, newest first: event_date
// descending, ties broken by created_at descending.
func (s *Store) List() []domain.DiaryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DiaryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns a single entry by id.
func (s *Store) Get(entryID string) (domain.DiaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return domain.DiaryEntry{}, domain.ErrEntryNotFound
}

// Create validates the input and adds a new entry with zeroed engagement
// counters. The category id is resolved against the catalog; unknown ids
// leave the entry uncategorized.
func (s *Store) Create(input domain.CreateEntryInput, author domain.User) (domain.DiaryEntry, error) {
	if err := input.Validate(); err != nil {
		return domain.DiaryEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := author
	entry := domain.DiaryEntry{
		ID:           s.newID(),
		Title:        input.Title,
		Content:      input.Content,
		AuthorID:     author.ID,
		Author:       &a,
		PrivacyLevel: input.PrivacyLevel,
		EventDate:    input.EventDate,
		CreatedAt:    s.now(),
		Category:     domain.CategoryByID(input.CategoryID),
	}

	s.entries = append(s.entries, entry)
	s.resort()
	s.version++
	return entry, nil
}

// ToggleLike flips the viewer's like on an entry. Becoming liked increments
// the count, becoming unliked decrements it, floored at zero.
func (s *Store) ToggleLike(entryID string) (domain.DiaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != entryID {
			continue
		}
		e := &s.entries[i]
		e.IsLiked = !e.IsLiked
		if e.IsLiked {
			e.LikeCount++
		} else if e.LikeCount > 0 {
			e.LikeCount--
		}
		s.version++
		return *e, nil
	}
	return domain.DiaryEntry{}, domain.ErrEntryNotFound
}

// AddComment appends a comment with the content kept verbatim. Only input
// that is blank after trimming is rejected.
func (s *Store) AddComment(entryID, content string, author domain.User) (domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, &domain.ValidationError{Field: "content", Reason: "must not be blank"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != entryID {
			continue
		}
		a := author
		c := domain.Comment{
			ID:        s.newID(),
			Content:   content,
			Author:    &a,
			CreatedAt: s.now(),
		}
		s.entries[i].Comments = append(s.entries[i].Comments, c)
		s.entries[i].CommentCount = len(s.entries[i].Comments)
		s.version++
		return c, nil
	}
	return domain.Comment{}, domain.ErrEntryNotFound
}

// Replace installs an authoritative snapshot from the document backend,
// discarding whatever was there. Local-only mutations do not survive a
// replace; the backend wins.
func (s *Store) Replace(entries []domain.DiaryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]domain.DiaryEntry, len(entries))
	copy(s.entries, entries)
	s.resort()
	s.version++
}

// Clear empties the store. Called when the owning session ends.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.version++
}

// Version increases on every mutation. The SSE stream polls it to detect
// changes without diffing the list.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// resort keeps the list in the published order. Callers hold the lock.
func (s *Store) resort() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		a, b := s.entries[i], s.entries[j]
		if a.EventDate != b.EventDate {
			return a.EventDate > b.EventDate
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
