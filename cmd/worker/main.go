package main

import (
	"context"
	"log"
	"os"

	"github.com/kazoku-nikki/family-diary-backend/config"
	"github.com/kazoku-nikki/family-diary-backend/internal/auth"
	"github.com/kazoku-nikki/family-diary-backend/internal/maintenance"
)

// The worker runs one maintenance job and exits. The api binary schedules
// the same jobs nightly; this entrypoint exists for manual runs and for
// environments that prefer an external scheduler.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker <reconcile|export>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.FirebaseEnabled() {
		log.Fatal("maintenance jobs need Firebase credentials")
	}

	ctx := context.Background()
	clients, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	defer clients.Firestore.Close()

	var job maintenance.Job
	switch os.Args[1] {
	case "reconcile":
		job = maintenance.NewCounterReconciler(clients.Firestore)
	case "export":
		if cfg.Backup.Bucket == "" {
			log.Fatal("BACKUP_S3_BUCKET is not set")
		}
		job = maintenance.NewExporter(clients.Firestore, cfg.Backup)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}

	if err := job.Run(ctx); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}
