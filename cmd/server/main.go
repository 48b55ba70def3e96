package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relayhq/taskboard/api/internal/config"
	"github.com/relayhq/taskboard/api/internal/database"
	"github.com/relayhq/taskboard/api/internal/handler"
	"github.com/relayhq/taskboard/api/internal/middleware"
	"github.com/relayhq/taskboard/api/internal/repository"
	"github.com/relayhq/taskboard/api/internal/service"
	"github.com/relayhq/taskboard/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		JWTService: jwtService,
	})
	projectService := service.NewProjectService(service.ProjectServiceConfig{
		ProjectRepo: projectRepo,
		UserRepo:    userRepo,
	})
	boardService := service.NewBoardService(service.BoardServiceConfig{
		ProjectRepo: projectRepo,
		UserRepo:    userRepo,
	})

	// Initialize rate limiter and idempotency store
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{})
	defer rateLimiter.Stop()

	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{})
	defer idempotencyStore.Stop()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	columnHandler := handler.NewColumnHandler(boardService)
	taskHandler := handler.NewTaskHandler(boardService)

	// Set up routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	// Protected endpoints
	authMiddleware := middleware.Auth(jwtService)
	adminMiddleware := middleware.AdminAuth(jwtService)

	mux.Handle("GET /v1/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))

	// Project lifecycle
	mux.Handle("GET /v1/projects", authMiddleware(http.HandlerFunc(projectHandler.ListOwned)))
	mux.Handle("POST /v1/projects", authMiddleware(http.HandlerFunc(projectHandler.Create)))
	mux.Handle("GET /v1/projects/invited", authMiddleware(http.HandlerFunc(projectHandler.ListInvited)))
	mux.Handle("GET /v1/projects/{projectId}", authMiddleware(http.HandlerFunc(projectHandler.Get)))
	mux.Handle("PATCH /v1/projects/{projectId}", authMiddleware(http.HandlerFunc(projectHandler.Update)))
	mux.Handle("DELETE /v1/projects/{projectId}", authMiddleware(http.HandlerFunc(projectHandler.Delete)))

	// Membership
	mux.Handle("POST /v1/projects/{projectId}/members", authMiddleware(http.HandlerFunc(projectHandler.AddMember)))
	mux.Handle("DELETE /v1/projects/{projectId}/members", authMiddleware(http.HandlerFunc(projectHandler.RemoveMember)))
	mux.Handle("PATCH /v1/projects/{projectId}/members/{userId}/role", authMiddleware(http.HandlerFunc(projectHandler.ChangeMemberRole)))

	// Columns
	mux.Handle("POST /v1/projects/{projectId}/columns", authMiddleware(http.HandlerFunc(columnHandler.Create)))
	mux.Handle("PATCH /v1/projects/{projectId}/columns/{columnId}", authMiddleware(http.HandlerFunc(columnHandler.Rename)))
	mux.Handle("DELETE /v1/projects/{projectId}/columns/{columnId}", authMiddleware(http.HandlerFunc(columnHandler.Delete)))
	mux.Handle("POST /v1/projects/{projectId}/columns/{columnId}/reorder", authMiddleware(http.HandlerFunc(columnHandler.Reorder)))

	// Tasks
	mux.Handle("POST /v1/projects/{projectId}/columns/{columnId}/tasks", authMiddleware(http.HandlerFunc(taskHandler.Create)))
	mux.Handle("PATCH /v1/projects/{projectId}/tasks/{taskId}", authMiddleware(http.HandlerFunc(taskHandler.Update)))
	mux.Handle("PATCH /v1/projects/{projectId}/tasks/{taskId}/quick", authMiddleware(http.HandlerFunc(taskHandler.QuickEdit)))
	mux.Handle("DELETE /v1/projects/{projectId}/tasks/{taskId}", authMiddleware(http.HandlerFunc(taskHandler.Delete)))
	mux.Handle("POST /v1/projects/{projectId}/tasks/{taskId}/assignees", authMiddleware(http.HandlerFunc(taskHandler.Assign)))
	mux.Handle("DELETE /v1/projects/{projectId}/tasks/{taskId}/assignees", authMiddleware(http.HandlerFunc(taskHandler.Unassign)))
	mux.Handle("POST /v1/projects/{projectId}/tasks/{taskId}/move", authMiddleware(http.HandlerFunc(taskHandler.Move)))

	// Admin surface
	mux.Handle("DELETE /v1/admin/projects", adminMiddleware(http.HandlerFunc(projectHandler.DeleteAll)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
