package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
)

const (
	diariesCollection  = "diaries"
	commentsCollection = "comments"
)

// FirestoreStore persists diary entries in the "diaries" collection, with
// comments in a per-entry subcollection and likes as a uid-keyed map on the
// entry document.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// entryDoc is the Firestore shape of an entry. The store accepts any
// document shape, so decoding is best-effort and missing fields stay zero.
type entryDoc struct {
	Title        string          `firestore:"title"`
	Content      string          `firestore:"content"`
	AuthorID     string          `firestore:"author_id"`
	PrivacyLevel string          `firestore:"privacy_level"`
	EventDate    string          `firestore:"event_date"`
	CreatedAt    time.Time       `firestore:"created_at"`
	CategoryID   string          `firestore:"category_id"`
	LikeCount    int             `firestore:"like_count"`
	CommentCount int             `firestore:"comment_count"`
	Likes        map[string]bool `firestore:"likes"`
	Images       []imageDoc      `firestore:"images"`
}

type imageDoc struct {
	ID       string `firestore:"id"`
	ImageURL string `firestore:"image_url"`
	Caption  string `firestore:"caption"`
}

type commentDoc struct {
	Content     string    `firestore:"content"`
	AuthorID    string    `firestore:"author_id"`
	AuthorName  string    `firestore:"author_name"`
	AuthorEmail string    `firestore:"author_email"`
	CreatedAt   time.Time `firestore:"created_at"`
}

func (d *entryDoc) toDomain(id, viewerID string) domain.DiaryEntry {
	e := domain.DiaryEntry{
		ID:           id,
		Title:        d.Title,
		Content:      d.Content,
		AuthorID:     d.AuthorID,
		PrivacyLevel: domain.PrivacyLevel(d.PrivacyLevel),
		EventDate:    d.EventDate,
		CreatedAt:    d.CreatedAt,
		LikeCount:    d.LikeCount,
		CommentCount: d.CommentCount,
		IsLiked:      d.Likes[viewerID],
		Category:     domain.CategoryByID(d.CategoryID),
	}
	for _, img := range d.Images {
		e.Images = append(e.Images, domain.EntryImage{ID: img.ID, ImageURL: img.ImageURL, Caption: img.Caption})
	}
	return e
}

// Listen streams whole-collection snapshots until ctx is cancelled. Each
// snapshot fully replaces the previous view; there is no incremental patch.
func (s *FirestoreStore) Listen(ctx context.Context, viewerID string, onSnapshot func([]domain.DiaryEntry)) error {
	it := s.client.Collection(diariesCollection).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("next snapshot: %w", err)
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("read snapshot documents: %w", err)
		}

		entries := make([]domain.DiaryEntry, 0, len(docs))
		for _, doc := range docs {
			var ed entryDoc
			if err := doc.DataTo(&ed); err != nil {
				// Any shape is accepted at this boundary; skip what cannot
				// be projected instead of failing the whole snapshot.
				log.Printf("[warn] operation=snapshot doc=%s error=%v", doc.Ref.ID, err)
				continue
			}
			entries = append(entries, ed.toDomain(doc.Ref.ID, viewerID))
		}

		onSnapshot(entries)
	}
}

// Insert writes a new entry with a server-assigned creation timestamp and
// returns the server-assigned document id.
func (s *FirestoreStore) Insert(ctx context.Context, input domain.CreateEntryInput, authorID string) (string, error) {
	ref, _, err := s.client.Collection(diariesCollection).Add(ctx, map[string]any{
		"title":         input.Title,
		"content":       input.Content,
		"category_id":   input.CategoryID,
		"privacy_level": string(input.PrivacyLevel),
		"event_date":    input.EventDate,
		"author_id":     authorID,
		"like_count":    0,
		"comment_count": 0,
		"likes":         map[string]bool{},
		"images":        []imageDoc{},
		"created_at":    firestore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}
	return ref.ID, nil
}

// ToggleLike flips the viewer's like in a transaction so concurrent toggles
// cannot lose counts. The count is floored at zero.
func (s *FirestoreStore) ToggleLike(ctx context.Context, entryID, viewerID string) error {
	ref := s.client.Collection(diariesCollection).Doc(entryID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrEntryNotFound
			}
			return err
		}

		var ed entryDoc
		if err := snap.DataTo(&ed); err != nil {
			return fmt.Errorf("decode entry: %w", err)
		}

		liked := ed.Likes[viewerID]
		count := ed.LikeCount
		var likeValue any
		if liked {
			if count > 0 {
				count--
			}
			likeValue = firestore.Delete
		} else {
			count++
			likeValue = true
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "likes." + viewerID, Value: likeValue},
			{Path: "like_count", Value: count},
		})
	})
}

// AddComment appends to the entry's comments subcollection and bumps the
// denormalized counter in the same transaction.
func (s *FirestoreStore) AddComment(ctx context.Context, entryID string, comment domain.Comment) error {
	entryRef := s.client.Collection(diariesCollection).Doc(entryID)
	commentRef := entryRef.Collection(commentsCollection).Doc(comment.ID)

	doc := commentDoc{
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		doc.AuthorID = comment.Author.ID
		doc.AuthorName = comment.Author.DisplayName
		doc.AuthorEmail = comment.Author.Email
	}

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(entryRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrEntryNotFound
			}
			return err
		}
		if err := tx.Set(commentRef, doc); err != nil {
			return err
		}
		return tx.Update(entryRef, []firestore.Update{
			{Path: "comment_count", Value: firestore.Increment(1)},
		})
	})
}

// AddImage appends an image reference to the entry document.
func (s *FirestoreStore) AddImage(ctx context.Context, entryID string, image domain.EntryImage) error {
	ref := s.client.Collection(diariesCollection).Doc(entryID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "images", Value: firestore.ArrayUnion(imageDoc{
			ID:       image.ID,
			ImageURL: image.ImageURL,
			Caption:  image.Caption,
		})},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrEntryNotFound
	}
	return err
}
