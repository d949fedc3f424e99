package auth

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	fbstorage "firebase.google.com/go/v4/storage"
	"google.golang.org/api/option"

	"github.com/kazoku-nikki/family-diary-backend/config"
)

// Clients bundles the Firebase-backed service handles: token verification,
// the diary document store and the image bucket. Everything is constructed
// once at startup and injected into the components that need it.
type Clients struct {
	Auth      *fbauth.Client
	Firestore *firestore.Client
	Storage   *fbstorage.Client
}

// InitializeFirebase initializes the Firebase Admin SDK and derives the
// Auth, Firestore and Storage clients from the one app handle.
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*Clients, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Storage client: %w", err)
	}

	return &Clients{
		Auth:      authClient,
		Firestore: fsClient,
		Storage:   storageClient,
	}, nil
}
