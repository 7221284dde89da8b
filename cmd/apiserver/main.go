// API server entry point: wires storage, messaging, search and the HTTP
// interface together.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/claimlens/claimlens/internal/application/analysis"
	"github.com/claimlens/claimlens/internal/application/claims"
	"github.com/claimlens/claimlens/internal/application/documents"
	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/domain/scheme"
	"github.com/claimlens/claimlens/internal/eligibility"
	"github.com/claimlens/claimlens/internal/infrastructure/database/postgres"
	"github.com/claimlens/claimlens/internal/infrastructure/database/postgres/repositories"
	redisinfra "github.com/claimlens/claimlens/internal/infrastructure/database/redis"
	"github.com/claimlens/claimlens/internal/infrastructure/messaging/kafka"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/prometheus"
	"github.com/claimlens/claimlens/internal/infrastructure/search/opensearch"
	miniostore "github.com/claimlens/claimlens/internal/infrastructure/storage/minio"
	"github.com/claimlens/claimlens/internal/intelligence/textextract"
	httpserver "github.com/claimlens/claimlens/internal/interfaces/http"
	"github.com/claimlens/claimlens/internal/interfaces/http/handlers"
	"github.com/claimlens/claimlens/internal/validation"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	logger.Info("starting claimlens api server",
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode))

	config.Watch(configPath, func(next *config.Config) {
		logger.Info("configuration file changed on disk",
			logging.String("path", configPath),
			logging.String("log_level", next.Log.Level))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres
	if err := postgres.RunMigrations(cfg.Database); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	pool, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	docRepo := repositories.NewDocumentRepository(pool)
	claimRepo := repositories.NewClaimRepository(pool)
	reportRepo := repositories.NewReportRepository(pool)

	// Redis report cache
	redisClient, err := redisinfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redisinfra.NewCache(redisClient, cfg.Redis, logger)

	// MinIO object store
	minioClient, err := miniostore.NewClient(ctx, cfg.MinIO)
	if err != nil {
		return err
	}
	store := miniostore.NewStore(minioClient, cfg.MinIO)

	// Kafka producer
	producer := kafka.NewProducer(cfg.Kafka, "apiserver", logger)
	defer producer.Close()

	// OpenSearch indexer; search is optional, the pipeline degrades without it.
	var osIndexer *opensearch.Indexer
	if osClient, err := opensearch.NewClient(cfg.OpenSearch); err != nil {
		logger.Warn("opensearch unavailable, text search disabled", logging.Err(err))
	} else {
		osIndexer = opensearch.NewIndexer(osClient, cfg.OpenSearch, logger)
	}
	var indexer documents.Indexer
	var searcher handlers.TextSearcher
	if osIndexer != nil {
		indexer = osIndexer
		searcher = osIndexer
	}

	registry := loadRegistry(cfg.Catalog.DocumentTypesPath, logger)
	catalog := loadCatalog(cfg.Catalog.SchemesPath, logger)
	metrics := prometheus.NewAppMetrics()

	docSvc := documents.NewService(registry,
		textextract.New(nil, cfg.Extraction, logger),
		validation.New(registry),
		docRepo, store, indexer, producer, metrics, logger)
	claimSvc := claims.NewService(claimRepo, docRepo, logger)
	analysisSvc := analysis.NewService(claimRepo,
		eligibility.NewRanker(eligibility.NewScorer(cfg.Scoring), catalog),
		eligibility.NewPlanner(nil),
		reportRepo, cache, producer, metrics, logger)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		DocumentHandler: handlers.NewDocumentHandler(docSvc, cfg.Server.MaxUploadBytes),
		ClaimHandler:    handlers.NewClaimHandler(claimSvc, docSvc),
		AnalysisHandler: handlers.NewAnalysisHandler(analysisSvc),
		SearchHandler:   handlers.NewSearchHandler(searcher),
		HealthHandler: handlers.NewHealthHandler(
			handlers.Check{Name: "postgres", Ping: pool.Ping},
			handlers.Check{Name: "redis", Ping: cache.Ping},
		),
		Logger:  logger,
		Metrics: metrics,
		Mode:    cfg.Server.Mode,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	return server.Stop(context.Background())
}

func loadRegistry(path string, logger logging.Logger) *document.Registry {
	registry, err := document.LoadRegistry(path)
	if err != nil {
		logger.Warn("document type rules not loaded, using built-in rules",
			logging.String("path", path), logging.Err(err))
		return document.DefaultRegistry()
	}
	return registry
}

func loadCatalog(path string, logger logging.Logger) *scheme.Catalog {
	catalog, err := scheme.LoadCatalog(path)
	if err != nil {
		logger.Warn("scheme catalog not loaded, using built-in catalog",
			logging.String("path", path), logging.Err(err))
		return scheme.DefaultCatalog()
	}
	return catalog
}
