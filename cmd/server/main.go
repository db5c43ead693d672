package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shimssung/moimlog-backend/internal/config"
	"github.com/shimssung/moimlog-backend/internal/database"
	"github.com/shimssung/moimlog-backend/internal/handler"
	"github.com/shimssung/moimlog-backend/internal/middleware"
	"github.com/shimssung/moimlog-backend/internal/repository"
	"github.com/shimssung/moimlog-backend/internal/service"
	"github.com/shimssung/moimlog-backend/pkg/jwt"
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
	moimRepo := repository.NewMoimRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	joinRequestRepo := repository.NewJoinRequestRepository(db)

	// Initialize services
	tokenService := service.NewTokenService(jwtService)

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})

	gate := service.NewMoimGate()
	notifier := service.NewLogNotifier(logger)

	moimService := service.NewMoimService(service.MoimServiceConfig{
		MoimRepo:       moimRepo,
		MembershipRepo: membershipRepo,
		Gate:           gate,
		Notifier:       notifier,
		Logger:         logger,
	})

	joinRequestService := service.NewJoinRequestService(service.JoinRequestServiceConfig{
		MoimRepo:       moimRepo,
		MembershipRepo: membershipRepo,
		RequestRepo:    joinRequestRepo,
		Gate:           gate,
		Notifier:       notifier,
		Logger:         logger,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	moimHandler := handler.NewMoimHandler(moimService)
	joinRequestHandler := handler.NewJoinRequestHandler(joinRequestService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	authMiddleware := middleware.Auth(tokenService)
	moimAccess := middleware.MoimAccess(moimService)

	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	memberOnly := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(moimAccess(h))
	}

	// Moim endpoints
	mux.Handle("POST /v1/moims", protected(moimHandler.Create))
	mux.Handle("GET /v1/moims/me", protected(moimHandler.ListMine))
	mux.Handle("GET /v1/moims/{moimId}", protected(moimHandler.Get))
	mux.Handle("DELETE /v1/moims/{moimId}", memberOnly(moimHandler.Deactivate))
	mux.Handle("GET /v1/moims/{moimId}/members", memberOnly(moimHandler.GetMembers))
	mux.Handle("DELETE /v1/moims/{moimId}/members/me", memberOnly(moimHandler.Leave))

	// Join request endpoints
	mux.Handle("POST /v1/moims/{moimId}/join-requests", protected(joinRequestHandler.Join))
	mux.Handle("GET /v1/moims/{moimId}/join-requests", memberOnly(joinRequestHandler.List))
	mux.Handle("GET /v1/moims/{moimId}/join-requests/stats", memberOnly(joinRequestHandler.Stats))
	mux.Handle("GET /v1/moims/{moimId}/join-requests/my-status", protected(joinRequestHandler.MyStatus))
	mux.Handle("GET /v1/moims/{moimId}/join-requests/{requestId}", memberOnly(joinRequestHandler.Get))
	mux.Handle("POST /v1/moims/{moimId}/join-requests/{requestId}/approve", memberOnly(joinRequestHandler.Approve))
	mux.Handle("POST /v1/moims/{moimId}/join-requests/{requestId}/reject", memberOnly(joinRequestHandler.Reject))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
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
