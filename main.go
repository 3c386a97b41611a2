package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/talentgraph/ingest-engine/pkg/config"
	"github.com/talentgraph/ingest-engine/pkg/extract"
	"github.com/talentgraph/ingest-engine/pkg/graph"
	"github.com/talentgraph/ingest-engine/pkg/handlers"
	"github.com/talentgraph/ingest-engine/pkg/ingest"
	"github.com/talentgraph/ingest-engine/pkg/logging"
	"github.com/talentgraph/ingest-engine/pkg/middleware"
	"github.com/talentgraph/ingest-engine/pkg/retry"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("neo4j_uri", logging.SanitizeURI(cfg.Neo4j.URI)),
		zap.String("neo4j_database", cfg.Neo4j.Database),
		zap.String("model", cfg.OpenAI.Model),
		zap.Bool("basic_auth", cfg.Auth.Enabled()))

	runner, err := graph.NewNeo4jRunner(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		logger.Fatal("failed to create graph driver", zap.String("error", logging.SanitizeError(err)))
	}
	defer func() { _ = runner.Close(context.Background()) }()

	verifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := retry.DoIfRetryable(verifyCtx, nil, func() error {
		return runner.Verify(verifyCtx)
	}); err != nil {
		logger.Fatal("graph store unreachable", zap.String("error", logging.SanitizeError(err)))
	}

	extractor := extract.New(&extract.Config{
		APIKey:    cfg.OpenAI.APIKey,
		BaseURL:   cfg.OpenAI.BaseURL,
		Model:     cfg.OpenAI.Model,
		MaxTokens: cfg.OpenAI.MaxTokens,
		Timeout:   cfg.OpenAI.ExtractTimeout(),
	}, logger)

	writer := graph.NewWriter(runner, cfg.Neo4j.WriteTimeout(), logger)
	mapper := ingest.NewMapper(extractor, logger)
	orchestrator := ingest.NewOrchestrator(mapper, writer, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	ingestMux := http.NewServeMux()
	ingestHandler := handlers.NewIngestHandler(orchestrator, cfg.Ingest.DefaultTenantID, logger)
	ingestHandler.RegisterRoutes(ingestMux)
	mux.Handle("/import", middleware.BasicAuth(cfg.Auth.BasicUser, cfg.Auth.BasicPassword)(ingestMux))

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting ingest-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// newLogger builds a development logger for local runs and a production
// logger otherwise.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
