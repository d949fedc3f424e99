// Package storage uploads entry images to the Firebase project's Cloud
// Storage bucket and hands back the public URL the entry document carries.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	fbstorage "firebase.google.com/go/v4/storage"
	"github.com/google/uuid"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
)

type ImageStore struct {
	storage    *fbstorage.Client
	bucketName string
}

func NewImageStore(client *fbstorage.Client, bucketName string) *ImageStore {
	return &ImageStore{storage: client, bucketName: bucketName}
}

func (s *ImageStore) bucket() (*gcs.BucketHandle, error) {
	return s.storage.Bucket(s.bucketName)
}

// Upload streams one image into the bucket under a per-entry, per-day key
// and returns the image reference to attach to the entry.
func (s *ImageStore) Upload(ctx context.Context, entryID, filename string, r io.Reader, contentType string) (domain.EntryImage, error) {
	bucket, err := s.bucket()
	if err != nil {
		return domain.EntryImage{}, fmt.Errorf("open bucket: %w", err)
	}

	id := uuid.NewString()
	d := time.Now()
	key := fmt.Sprintf("diaries/%s/%d/%02d/%s-%s", entryID, d.Year(), d.Month(), id, filename)

	w := bucket.Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return domain.EntryImage{}, fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return domain.EntryImage{}, fmt.Errorf("close object: %w", err)
	}

	return domain.EntryImage{
		ID:       id,
		ImageURL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, key),
	}, nil
}
