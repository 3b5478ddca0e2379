package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/smolblud/forge/internal/coach"
	"github.com/smolblud/forge/internal/config"
	"github.com/smolblud/forge/internal/embedding"
	"github.com/smolblud/forge/internal/handler"
	"github.com/smolblud/forge/internal/index"
	"github.com/smolblud/forge/internal/llm"
	"github.com/smolblud/forge/internal/middleware"
	"github.com/smolblud/forge/internal/repository/postgres"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool. Conversation storage is a hard
	// dependency: without it nothing can be served.
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	txManager := postgres.NewTransactionManager(pool, logger)
	store := postgres.NewConversationRepository(repoConfig, txManager)

	// Assemble the agent collaborators. Failures here do not abort
	// startup: the server comes up degraded and /submit reports the
	// pipeline as uninitialized until the pieces are available.
	handles := &coach.Handles{Store: store}

	embedder := embedding.NewClient(cfg.OllamaURL, cfg.EmbedModel, cfg.EmbedDims)
	idx, err := index.Open(cfg.IndexPath, embedder, logger)
	if err != nil {
		handles.InitErr = err
		logger.Error("advice index unavailable, starting degraded",
			"path", cfg.IndexPath,
			"error", err,
		)
	} else {
		defer idx.Close()
		handles.Index = idx
		n, err := idx.Count(ctx)
		if err != nil {
			logger.Warn("advice index count failed", "error", err)
		} else {
			logger.Info("advice index loaded", "path", cfg.IndexPath, "snippets", n)
		}
	}

	handles.Generator = llm.NewClient(cfg.OllamaURL, cfg.ChatModel)

	coachService := coach.NewService(
		coach.NewLibrarian(handles.Index, cfg.RetrievalMinScore, logger),
		coach.NewPromptBuilder(cfg.HistoryWindow),
		coach.NewGuardrail(cfg.RewriteThreshold, cfg.RewriteMinChars),
		handles.Generator,
		store,
		coach.Options{
			RetrievalTimeout: cfg.RetrievalTimeout,
			GenerateTimeout:  cfg.GenerateTimeout,
			GenerateRetries:  cfg.GenerateRetries,
			RetryBackoff:     cfg.RetryBackoff,
		},
		logger,
	)

	coachHandler := handler.NewCoachHandler(coachService, handles, logger)
	chatHandler := handler.NewChatHandler(store, logger)
	healthHandler := handler.NewHealthHandler(handles)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", healthHandler.Root)
	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.HandleFunc("POST /submit", coachHandler.Submit)

	mux.HandleFunc("GET /chats", chatHandler.ListChats)
	mux.HandleFunc("POST /chats", chatHandler.CreateChat)
	mux.HandleFunc("GET /chats/{id}", chatHandler.GetChat)
	mux.HandleFunc("DELETE /chats/{id}", chatHandler.DeleteChat)

	// Build middleware chain
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerateTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
