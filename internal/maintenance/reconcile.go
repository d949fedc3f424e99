package maintenance

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// CounterReconciler repairs the denormalized comment_count on entry
// documents. The document boundary accepts any shape, so a client writing
// directly to Firestore can desync the counter; the nightly pass walks the
// comments subcollections and restores the invariant.
type CounterReconciler struct {
	client *firestore.Client
}

func NewCounterReconciler(client *firestore.Client) *CounterReconciler {
	return &CounterReconciler{client: client}
}

func (r *CounterReconciler) Run(ctx context.Context) error {
	it := r.client.Collection("diaries").Documents(ctx)
	defer it.Stop()

	checked, fixed := 0, 0
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("iterate entries: %w", err)
		}
		checked++

		actual, err := r.countComments(ctx, doc.Ref)
		if err != nil {
			log.Printf("[warn] operation=reconcile doc=%s error=%v", doc.Ref.ID, err)
			continue
		}

		stored, _ := doc.Data()["comment_count"].(int64)
		if int(stored) == actual {
			continue
		}

		if _, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "comment_count", Value: actual},
		}); err != nil {
			log.Printf("[warn] operation=reconcile doc=%s error=%v", doc.Ref.ID, err)
			continue
		}
		fixed++
	}

	log.Printf("[info] operation=reconcile checked=%d fixed=%d", checked, fixed)
	return nil
}

func (r *CounterReconciler) countComments(ctx context.Context, entry *firestore.DocumentRef) (int, error) {
	it := entry.Collection("comments").Documents(ctx)
	defer it.Stop()

	n := 0
	for {
		_, err := it.Next()
		if err == iterator.Done {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		n++
	}
}
