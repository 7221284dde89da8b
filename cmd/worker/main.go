// Background worker entry point: consumes document.uploaded events and runs
// the processing pipeline over stored files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/claimlens/claimlens/internal/application/documents"
	"github.com/claimlens/claimlens/internal/application/ingest"
	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/infrastructure/database/postgres"
	"github.com/claimlens/claimlens/internal/infrastructure/database/postgres/repositories"
	"github.com/claimlens/claimlens/internal/infrastructure/messaging/kafka"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/prometheus"
	"github.com/claimlens/claimlens/internal/infrastructure/search/opensearch"
	miniostore "github.com/claimlens/claimlens/internal/infrastructure/storage/minio"
	"github.com/claimlens/claimlens/internal/intelligence/textextract"
	"github.com/claimlens/claimlens/internal/validation"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
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
	logger.Info("starting claimlens worker",
		logging.Int("concurrency", cfg.Worker.Concurrency))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	minioClient, err := miniostore.NewClient(ctx, cfg.MinIO)
	if err != nil {
		return err
	}
	store := miniostore.NewStore(minioClient, cfg.MinIO)

	producer := kafka.NewProducer(cfg.Kafka, "worker", logger)
	defer producer.Close()

	var indexer documents.Indexer
	if osClient, err := opensearch.NewClient(cfg.OpenSearch); err != nil {
		logger.Warn("opensearch unavailable, text search disabled", logging.Err(err))
	} else {
		indexer = opensearch.NewIndexer(osClient, cfg.OpenSearch, logger)
	}

	registry, err := document.LoadRegistry(cfg.Catalog.DocumentTypesPath)
	if err != nil {
		logger.Warn("document type rules not loaded, using built-in rules",
			logging.String("path", cfg.Catalog.DocumentTypesPath), logging.Err(err))
		registry = document.DefaultRegistry()
	}

	metrics := prometheus.NewAppMetrics()
	docSvc := documents.NewService(registry,
		textextract.New(nil, cfg.Extraction, logger),
		validation.New(registry),
		repositories.NewDocumentRepository(pool), store, indexer, producer, metrics, logger)
	worker := ingest.NewWorker(docSvc, store, logger)

	group, groupCtx := errgroup.WithContext(ctx)
	consumers := make([]*kafka.Consumer, 0, cfg.Worker.Concurrency)
	for i := 0; i < cfg.Worker.Concurrency; i++ {
		consumer := kafka.NewConsumer(cfg.Kafka, kafka.TopicDocumentUploaded, logger)
		consumers = append(consumers, consumer)
		group.Go(func() error {
			return consumer.Run(groupCtx, worker.Handle)
		})
	}

	<-groupCtx.Done()
	logger.Info("shutdown signal received")
	for _, consumer := range consumers {
		if err := consumer.Close(); err != nil {
			logger.Warn("consumer close failed", logging.Err(err))
		}
	}
	return group.Wait()
}
