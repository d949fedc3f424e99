package bootstrap

import (
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/kazoku-nikki/family-diary-backend/internal/api/http"
	"github.com/kazoku-nikki/family-diary-backend/internal/auth"
	diaryhttp "github.com/kazoku-nikki/family-diary-backend/internal/diary/http"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/store"
	diarysync "github.com/kazoku-nikki/family-diary-backend/internal/diary/sync"
	"github.com/kazoku-nikki/family-diary-backend/internal/family"
	familyhttp "github.com/kazoku-nikki/family-diary-backend/internal/family/http"
	"github.com/kazoku-nikki/family-diary-backend/internal/middleware"
	"github.com/kazoku-nikki/family-diary-backend/internal/session"
	sessionhttp "github.com/kazoku-nikki/family-diary-backend/internal/session/http"
	"github.com/kazoku-nikki/family-diary-backend/internal/session/repository"
	"github.com/kazoku-nikki/family-diary-backend/internal/storage"
	"github.com/kazoku-nikki/family-diary-backend/internal/users"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string

	Gate    *session.Gate
	Store   *store.Store
	Adapter *diarysync.Adapter

	// Optional. Nil dependencies disable the routes or checks they back.
	AuthClient *fbauth.Client
	Images     *storage.ImageStore
	DB         *pgxpool.Pool
	Redis      *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "X-User-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	var sessions *repository.SessionRepository
	if dep.Redis != nil {
		sessions = repository.NewSessionRepository(dep.Redis)
	}
	sessionhttp.New(dep.Gate, sessions).Register(api)

	// Entry routes sit behind token verification when a live project is
	// configured; the disconnected variant trusts the demo header instead.
	protected := api.Group("")
	if dep.AuthClient != nil {
		protected.Use(auth.FirebaseAuthMiddleware(dep.AuthClient))
		if dep.DB != nil {
			protected.Use(auth.WithUser(users.NewRepo(dep.DB)))
		}
	} else {
		protected.Use(auth.OptionalUser())
	}

	diaryhttp.New(dep.Store, dep.Adapter, dep.Images).Register(protected)

	if dep.DB != nil {
		familyhttp.New(family.NewRepo(dep.DB)).Register(protected)
	}

	return r
}
