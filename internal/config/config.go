// Package config defines all configuration structures for the OncoTerm
// service.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/postgres"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/redis"
	"github.com/turtacn/OncoTerm/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/bioportal"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/chembl"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/hgnc"
	"github.com/turtacn/OncoTerm/internal/infrastructure/storage/minio"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// KafkaConfig groups the broker list with producer and consumer settings.
// Brokers set here propagate to producer and consumer when theirs are empty.
type KafkaConfig struct {
	Brokers  []string             `mapstructure:"brokers"`
	Producer kafka.ProducerConfig `mapstructure:"producer"`
	Consumer kafka.ConsumerConfig `mapstructure:"consumer"`
}

// HGNCConfig selects between the bulk TSV extract and the REST search
// endpoint.  BulkFile is preferred when present; the search client serves
// on-demand lookups for symbols missing from the extract.
type HGNCConfig struct {
	BulkFile string            `mapstructure:"bulk_file"`
	Search   hgnc.SearchConfig `mapstructure:"search"`
}

// SourcesConfig holds the remote ontology source settings.
type SourcesConfig struct {
	ChEMBL    chembl.ClientConfig    `mapstructure:"chembl"`
	HGNC      HGNCConfig             `mapstructure:"hgnc"`
	BioPortal bioportal.ClientConfig `mapstructure:"bioportal"`

	// CacheTTL bounds how long fetched source answers live in Redis.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// SeedFile points at an entries JSON document whose terms seed the
	// term-driven sources at startup.  Empty disables seeding; the server
	// then relies on snapshots and the termless sources.
	SeedFile string `mapstructure:"seed_file"`

	// HierarchyFile points at a JSON document mapping disease IDs to their
	// root-first DOID ancestor label paths.  Empty leaves disease summaries
	// without a hierarchy path.
	HierarchyFile string `mapstructure:"hierarchy_file"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the entire service.  Every
// infrastructure component and application service reads its settings from
// the relevant sub-struct.
type Config struct {
	Server   ServerConfig              `mapstructure:"server"`
	Database postgres.PostgresConfig   `mapstructure:"database"`
	Redis    redis.RedisConfig         `mapstructure:"redis"`
	Kafka    KafkaConfig               `mapstructure:"kafka"`
	MinIO    minio.MinIOConfig         `mapstructure:"minio"`
	Sources  SourcesConfig             `mapstructure:"sources"`
	Pipeline enrichment.PipelineConfig `mapstructure:"pipeline"`
	Metrics  MetricsConfig             `mapstructure:"metrics"`
	Log      logging.LogConfig         `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.Username == "" {
		return fmt.Errorf("config: database.username is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("config: database.database is required")
	}

	// Redis
	if c.Redis.Addr == "" && len(c.Redis.ClusterAddrs) == 0 {
		return fmt.Errorf("config: redis.addr or redis.cluster_addrs is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.Consumer.GroupID == "" {
		return fmt.Errorf("config: kafka.consumer.group_id is required")
	}

	// Sources
	if c.Sources.BioPortal.APIKey == "" {
		return fmt.Errorf("config: sources.bioportal.api_key is required")
	}

	// Pipeline
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("config: pipeline.concurrency must be ≥ 1, got %d", c.Pipeline.Concurrency)
	}

	// Log
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

	return nil
}

//Personal.AI order the ending
