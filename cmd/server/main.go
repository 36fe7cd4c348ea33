package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/ai"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/vector"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/handler"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/service"
	"github.com/arturoeanton/go-doc-editor-ollama/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting DocPilot",
		"port", cfg.Port,
		"ollama_embed", cfg.OllamaEmbedURL,
		"ollama_chat", cfg.OllamaChatURL,
		"qdrant", cfg.QdrantURL != "",
	)

	// ── Document store ───────────────────────────────────────────────────
	var docs port.DocumentStore
	if cfg.DatabaseURL != "" {
		pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pgStore.Close()
		docs = pgStore
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory document store")
		docs = store.NewMemoryStore()
	}

	// ── Vector store: primary backend chained to in-memory fallback ─────
	var backends []port.VectorBackend
	if cfg.QdrantURL != "" {
		qdrant := vector.NewQdrant(vector.QdrantConfig{
			BaseURL:    cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := qdrant.EnsureCollection(ctx, cfg.EmbeddingDimension); err != nil {
			slog.Warn("qdrant collection setup failed, fallback will serve until it recovers", "error", err)
		}
		cancel()
		backends = append(backends, qdrant)
	}
	backends = append(backends, vector.NewMemory())
	vectorStore := vector.NewStore(cfg.VectorBreakerThreshold, backends...)

	// ── AI provider ──────────────────────────────────────────────────────
	ollamaAI := ai.NewOllamaProvider(
		ai.OllamaEndpointConfig{
			BaseURL: cfg.OllamaEmbedURL,
			Model:   cfg.OllamaEmbedModel,
			Token:   cfg.OllamaEmbedToken,
		},
		ai.OllamaEndpointConfig{
			BaseURL: cfg.OllamaChatURL,
			Model:   cfg.OllamaChatModel,
			Token:   cfg.OllamaChatToken,
		},
	)

	// ── Services ─────────────────────────────────────────────────────────
	indexer := service.NewIndexer(ollamaAI, docs, vectorStore)
	discovery := service.NewDiscovery(ollamaAI, docs, vectorStore)
	generator := service.NewDiffGenerator(ollamaAI)
	editor := service.NewEditor(discovery, generator)
	assistant := service.NewAssistant(ollamaAI, docs, vectorStore, editor)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	jobTracker := handler.NewJobTracker()

	editHandler := handler.NewEditHandler(editor)
	editHandler.Register(api)

	assistHandler := handler.NewAssistHandler(assistant)
	assistHandler.Register(api)

	indexHandler := handler.NewIndexHandler(indexer, jobTracker)
	indexHandler.Register(api)

	jobsHandler := handler.NewJobsHandler(jobTracker)
	jobsHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
