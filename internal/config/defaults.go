package config

import (
	"time"

	"github.com/claimlens/claimlens/internal/domain/scheme"
)

// ApplyDefaults fills every unset field of cfg with its production default.
// Explicitly configured values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 25 << 20 // 25 MiB
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "claimlens"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "claimlens"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MinConns == 0 {
		cfg.Database.MinConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 10 * time.Minute
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "claimlens"
	}

	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{"localhost:9092"}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "claimlens-pipeline"
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = time.Second
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{"http://localhost:9200"}
	}
	if cfg.OpenSearch.IndexPrefix == "" {
		cfg.OpenSearch.IndexPrefix = "claimlens"
	}

	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = "localhost:9000"
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = "claim-documents"
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = time.Hour
	}

	if cfg.Extraction.PdftotextBin == "" {
		cfg.Extraction.PdftotextBin = "pdftotext"
	}
	if cfg.Extraction.TesseractBin == "" {
		cfg.Extraction.TesseractBin = "tesseract"
	}
	if cfg.Extraction.TesseractLang == "" {
		cfg.Extraction.TesseractLang = "eng"
	}
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 45 * time.Second
	}
	if cfg.Extraction.DefaultOCRConfidence == 0 {
		cfg.Extraction.DefaultOCRConfidence = 0.8
	}

	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = 4
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.RetryBackoff == 0 {
		cfg.Worker.RetryBackoff = 2 * time.Second
	}

	if cfg.Catalog.DocumentTypesPath == "" {
		cfg.Catalog.DocumentTypesPath = "configs/document_types.yaml"
	}
	if cfg.Catalog.SchemesPath == "" {
		cfg.Catalog.SchemesPath = "configs/schemes.yaml"
	}

	weightSum := cfg.Scoring.GeographicWeight + cfg.Scoring.StatusWeight +
		cfg.Scoring.CommunityWeight + cfg.Scoring.LandWeight + cfg.Scoring.DocumentationWeight
	if weightSum == 0 {
		cfg.Scoring = scheme.DefaultScoringConfig()
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}
