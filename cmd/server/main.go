// Onboard - employee onboarding server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/onboard-hub/onboard/internal/api"
	"github.com/onboard-hub/onboard/internal/catalog"
	"github.com/onboard-hub/onboard/internal/chat"
	"github.com/onboard-hub/onboard/internal/config"
	"github.com/onboard-hub/onboard/internal/middleware"
	"github.com/onboard-hub/onboard/internal/store"
	"github.com/onboard-hub/onboard/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	var repo store.Repository
	if cfg.DBPath == "" {
		repo = store.NewMemory()
		slog.Info("Using in-memory session store")
	} else {
		repo, err = store.NewSQLite(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		slog.Info("Database connected", "path", cfg.DBPath)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Store health check failed", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load()
	if err != nil {
		slog.Error("Failed to load training catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Training catalog loaded", "modules", len(cat.Modules), "resources", len(cat.Resources))

	// Assistant provider (optional).
	var chatClient chat.Client
	if cfg.Chat.Enabled() {
		chatClient = chat.NewOpenAIClient(chat.OpenAIConfig{
			APIKey:  cfg.Chat.APIKey,
			BaseURL: cfg.Chat.BaseURL,
			Model:   cfg.Chat.Model,
		})
		slog.Info("Assistant enabled", "model", cfg.Chat.Model)
	} else {
		slog.Info("Assistant disabled (OPENAI_API_KEY not set)")
	}

	handler := api.NewHandler(repo, cat, chatClient)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(corsOrigins(cfg)))

	handler.RegisterRoutes(r)
	r.Get("/api/health", handler.Health)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// No WriteTimeout: assistant calls can take longer than any fixed
	// deadline and are bounded by the client disconnecting instead.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func corsOrigins(cfg *config.Config) []string {
	if cfg.IsDevelopment() {
		return []string{"*"}
	}
	return []string{cfg.FrontendURL}
}
