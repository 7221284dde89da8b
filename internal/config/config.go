// Package config defines all configuration structures for ClaimLens.  No I/O
// or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/claimlens/claimlens/internal/domain/scheme"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters for the report cache.
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds broker parameters for pipeline events.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// OpenSearchConfig holds full-text index cluster parameters.
type OpenSearchConfig struct {
	Addresses          []string `mapstructure:"addresses"`
	User               string   `mapstructure:"user"`
	Password           string   `mapstructure:"password"`
	InsecureSkipVerify bool     `mapstructure:"insecure_skip_verify"`
	IndexPrefix        string   `mapstructure:"index_prefix"`
}

// MinIOConfig holds object-storage parameters for uploaded files.
type MinIOConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// ExtractionConfig holds text-recognition tunables.  The recognition engines
// are external binaries driven over exec; only their names/paths and limits
// are configured here.
type ExtractionConfig struct {
	PdftotextBin  string        `mapstructure:"pdftotext_bin"`
	TesseractBin  string        `mapstructure:"tesseract_bin"`
	TesseractLang string        `mapstructure:"tesseract_lang"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// DefaultOCRConfidence is used when tesseract provides no per-word
	// confidences (TSV unavailable).
	DefaultOCRConfidence float64 `mapstructure:"default_ocr_confidence"`
}

// WorkerConfig holds background pipeline execution parameters.
type WorkerConfig struct {
	Concurrency  int           `mapstructure:"concurrency"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// CatalogConfig points at the static rule files loaded once at startup.
type CatalogConfig struct {
	DocumentTypesPath string `mapstructure:"document_types_path"`
	SchemesPath       string `mapstructure:"schemes_path"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// Config is the root configuration structure.  Every infrastructure
// component and application service reads its settings from the relevant
// sub-struct.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Log        LogConfig        `mapstructure:"log"`
}

// ScoringConfig aliases the eligibility weight set so operators tune it in
// the same file as everything else.
type ScoringConfig = scheme.ScoringConfig

// Validate performs semantic validation of the fully-populated Config.  It
// returns the first error encountered; callers treat any error as fatal and
// refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}

	if c.MinIO.Endpoint == "" {
		return fmt.Errorf("config: minio.endpoint is required")
	}
	if c.MinIO.Bucket == "" {
		return fmt.Errorf("config: minio.bucket is required")
	}

	if c.Extraction.Timeout <= 0 {
		return fmt.Errorf("config: extraction.timeout must be positive, got %v", c.Extraction.Timeout)
	}
	if c.Extraction.DefaultOCRConfidence < 0 || c.Extraction.DefaultOCRConfidence > 1 {
		return fmt.Errorf("config: extraction.default_ocr_confidence %f is out of range [0, 1]",
			c.Extraction.DefaultOCRConfidence)
	}

	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be >= 1, got %d", c.Worker.Concurrency)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}
