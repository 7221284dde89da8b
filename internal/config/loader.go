package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all ClaimLens settings.
const envPrefix = "CLAIMLENS"

// envBoundKeys lists every configuration key that may be supplied through
// the environment.  Viper only merges env values into Unmarshal for keys it
// knows about, so each one is bound explicitly.
var envBoundKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.max_upload_bytes", "server.shutdown_timeout",
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns",
	"database.min_conns", "database.conn_max_lifetime", "database.migration_path",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.default_ttl", "redis.key_prefix",
	"kafka.brokers", "kafka.group_id", "kafka.producer_retries",
	"kafka.batch_timeout", "kafka.write_timeout",
	"opensearch.addresses", "opensearch.user", "opensearch.password",
	"opensearch.insecure_skip_verify", "opensearch.index_prefix",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
	"minio.use_ssl", "minio.presign_expiry",
	"extraction.pdftotext_bin", "extraction.tesseract_bin",
	"extraction.tesseract_lang", "extraction.timeout",
	"extraction.default_ocr_confidence",
	"worker.concurrency", "worker.max_retries", "worker.retry_backoff",
	"catalog.document_types_path", "catalog.schemes_path",
	"log.level", "log.format",
}

// newViper builds a pre-configured Viper instance: YAML file type, CLAIMLENS_
// env prefix, automatic env binding, and a key replacer that maps "." → "_"
// so that nested keys like "database.host" resolve to
// "CLAIMLENS_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envBoundKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges CLAIMLENS_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from CLAIMLENS_* environment
// variables with no config file, the preferred strategy for containerised
// deployments.
//
//	CLAIMLENS_<SECTION>_<FIELD>   e.g.  CLAIMLENS_DATABASE_HOST
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk.  Intended for hot-reloading
// non-critical settings such as log level; callers apply only the safe
// subset at runtime.  A change that fails to parse or validate is skipped.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on any error; for use in main() where a
// config failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
