package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/engagement"
	"github.com/anonto42/inkwell/backend/internal/handlers"
	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/anonto42/inkwell/backend/pkg/config"
	"github.com/anonto42/inkwell/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Migrate creates the relational tables and the Mongo indexes.
func Migrate(ctx context.Context, db *config.DB) error {
	if err := db.Postgres.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Like{},
		&models.Notification{},
		&models.Follow{},
		&models.Bookmark{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := repositories.EnsureMongoIndexes(ctx, db.MongoDB); err != nil {
		return fmt.Errorf("ensure mongo indexes: %w", err)
	}
	return nil
}

// SetupRoutes configures all application routes and injects dependencies.
// fb may be nil, in which case the API is protected by JWT auth.
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config, fb *firebase.App, log *slog.Logger) {
	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(db.MongoDB)
	commentRepo := repositories.NewMongoCommentRepository(db.MongoDB)
	activityRepo := repositories.NewMongoActivityRepository(db.MongoDB)
	readingRepo := repositories.NewMongoReadingRepository(db.MongoDB)

	engine := engagement.New(log, engagement.Stores{
		Users:         userRepo,
		Posts:         postRepo,
		Comments:      engagement.TargetSourceFunc(commentRepo.CommentOwner),
		Replies:       engagement.TargetSourceFunc(commentRepo.ReplyOwner),
		Content:       commentRepo,
		Likes:         likeRepo,
		Notifications: notificationRepo,
		Activity:      activityRepo,
		Follows:       followRepo,
		Reading:       readingRepo,
		Bookmarks:     bookmarkRepo,
	})

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(db).HealthCheck)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	if fb != nil {
		api.Use(middleware.FirebaseAuthMiddleware(fb.AuthClient, userRepo))
		log.Info("firebase authentication applied", "group", "/api/v1")
	} else {
		api.Use(middleware.JWTAuthMiddleware(cfg.Auth.JWTSecret))
		log.Info("jwt authentication applied", "group", "/api/v1")
	}

	handlers.NewUserHandler(userRepo, readingRepo).RegisterProfileRoutes(api)
	handlers.NewPostHandler(postRepo, engine, bookmarkRepo, log).RegisterPostRoutes(api)
	handlers.NewLikeHandler(engine, likeRepo).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(engine, commentRepo).RegisterCommentRoutes(api)
	handlers.NewFollowHandler(engine, followRepo).RegisterFollowRoutes(api)
	handlers.NewBookmarkHandler(engine).RegisterBookmarkRoutes(api)
	handlers.NewActivityHandler(engine).RegisterActivityRoutes(api)
	handlers.NewNotificationHandler(notificationRepo, userRepo).RegisterNotificationRoutes(api)

	log.Info("routes configured", "count", len(e.Routes()))
}

// NewMetricsServer serves the Prometheus registry on its own port.
func NewMetricsServer(cfg config.MetricsConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: ":" + cfg.Port, Handler: mux}
}
