package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kazoku-nikki/family-diary-backend/config"
	"github.com/kazoku-nikki/family-diary-backend/internal/auth"
	"github.com/kazoku-nikki/family-diary-backend/internal/auth/identity"
	"github.com/kazoku-nikki/family-diary-backend/internal/bootstrap"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/store"
	diarysync "github.com/kazoku-nikki/family-diary-backend/internal/diary/sync"
	"github.com/kazoku-nikki/family-diary-backend/internal/maintenance"
	"github.com/kazoku-nikki/family-diary-backend/internal/session"
	"github.com/kazoku-nikki/family-diary-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := bootstrap.RouterDeps{
		ServiceName:    "family-diary-backend",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	st := store.New()
	deps.Store = st

	var (
		provider  session.Provider
		docs      diarysync.DocumentStore
		scheduler *maintenance.Scheduler
	)

	if cfg.FirebaseEnabled() {
		clients, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		defer clients.Firestore.Close()

		provider = auth.NewFirebaseProvider(identity.NewClient(cfg.Firebase.WebAPIKey), clients.Auth)
		docs = diarysync.NewFirestoreStore(clients.Firestore)
		deps.AuthClient = clients.Auth

		if cfg.Firebase.StorageBucket != "" {
			deps.Images = storage.NewImageStore(clients.Storage, cfg.Firebase.StorageBucket)
		}

		var exporter maintenance.Job
		if cfg.Backup.Bucket != "" {
			exporter = maintenance.NewExporter(clients.Firestore, cfg.Backup)
		}
		scheduler = maintenance.NewScheduler(maintenance.NewCounterReconciler(clients.Firestore), exporter)

		log.Println("[info] mode=connected project=" + cfg.Firebase.ProjectID)
	} else {
		provider = auth.NewDemoProvider()
		docs = diarysync.NewMemoryStore(store.SeedEntries())

		log.Println("[info] mode=disconnected (demo login, in-memory entries)")
	}

	adapter := diarysync.New(docs, st)
	deps.Adapter = adapter

	gate := session.NewGate(provider)
	adapter.Bind(gate)
	deps.Gate = gate

	if cfg.Database.DSN != "" {
		pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		deps.DB = pool
	}

	if cfg.Redis.Addr != "" {
		rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		deps.Redis = rdb
	}

	if scheduler != nil {
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: bootstrap.BuildRouter(deps),
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[info] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[warn] operation=shutdown error=%v", err)
	}

	adapter.Stop()
}
