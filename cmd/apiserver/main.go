// OncoTerm API server: serves term resolution, batch enrichment and run
// reports over HTTP, persisting runs to PostgreSQL and publishing run events
// to Kafka.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
	"github.com/turtacn/OncoTerm/internal/config"
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/postgres"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/OncoTerm/internal/infrastructure/database/redis"
	"github.com/turtacn/OncoTerm/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/catalog"
	"github.com/turtacn/OncoTerm/internal/infrastructure/sources/hgnc"
	"github.com/turtacn/OncoTerm/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/OncoTerm/internal/interfaces/http"
	"github.com/turtacn/OncoTerm/internal/interfaces/http/handlers"
	"github.com/turtacn/OncoTerm/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	migrationsPath := flag.String("migrations", "file://migrations", "migrations source URL")
	flag.Parse()

	if err := run(*configPath, *migrationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, migrationsPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger = logger.Named("apiserver")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL: run persistence and the unknown-term report.
	if err := postgres.RunMigrations(cfg.Database.DSN(), migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer conn.Close()
	repo := repositories.NewEnrichmentRepository(conn.Pool(), logger)

	// Redis: caches remote source lookups between dictionary rebuilds.
	redisClient, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()
	sourceCache := redis.NewSourceCache(redisClient, cfg.Sources.CacheTTL, logger)

	// Kafka: run events out, plus topic bootstrap.
	producer, err := kafka.NewProducer(cfg.Kafka.Producer, logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()
	if err := ensureTopics(ctx, cfg.Kafka.Brokers, logger); err != nil {
		return err
	}

	// MinIO: source snapshots keep dictionaries buildable when a remote
	// ontology is down.
	minioClient, err := minio.NewClient(&cfg.MinIO, logger)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	snapshots := minio.NewSnapshotStore(minioClient, logger)

	// Prometheus.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		Subsystem:            "apiserver",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	observer := prometheus.NewPipelineObserver(prometheus.NewAppMetrics(collector))

	svc, err := buildService(cfg, serviceDeps{
		cache:     sourceCache,
		snapshots: snapshots,
		store:     &runStoreAdapter{repo: repo},
		events:    &eventSinkAdapter{producer: producer},
		observer:  observer,
	}, logger)
	if err != nil {
		return err
	}

	// Build dictionaries in the background; readiness flips once the first
	// build lands.
	go func() {
		if _, err := svc.Prepare(ctx); err != nil {
			logger.Error("initial dictionary build failed", logging.Err(err))
		}
	}()

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = collector.Handler()
	}
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Mode:        cfg.Server.Mode,
		CORS:        middleware.DefaultCORSConfig(),
		RateLimit:   middleware.DefaultRateLimitConfig(),
		MetricsPath: cfg.Metrics.Path,
		Metrics:     metricsHandler,
	}, httpserver.Handlers{
		Enrichment: handlers.NewEnrichmentHandler(svc),
		Report:     handlers.NewReportHandler(&reportStoreAdapter{repo: repo}),
		Health: handlers.NewHealthHandler(svc,
			&postgresHealth{conn: conn},
			&redisHealth{client: redisClient},
		),
	}, logger)

	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()
	logger.Info("api server started", logging.Int("port", cfg.Server.Port))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}

// serviceDeps bundles the wiring the enrichment service needs beyond config.
type serviceDeps struct {
	cache     *redis.SourceCache
	snapshots enrichment.SnapshotStore
	store     enrichment.RunStore
	events    enrichment.EventSink
	observer  enrichment.Observer
}

// buildService assembles the source catalog and enrichment service.  Seed
// terms come from the configured entries file when present; termless sources
// (HGNC bulk, curated antigens) and saved snapshots cover the rest.
func buildService(cfg *config.Config, deps serviceDeps, logger logging.Logger) (*enrichment.Service, error) {
	var terms enrichment.TermSet
	if cfg.Sources.SeedFile != "" {
		data, err := os.ReadFile(cfg.Sources.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("seed file: %w", err)
		}
		entries, err := enrichment.ParseEntries(data)
		if err != nil {
			return nil, fmt.Errorf("seed file: %w", err)
		}
		terms = enrichment.SeedTerms(entries)
		logger.Info("seed terms loaded",
			logging.String("file", cfg.Sources.SeedFile),
			logging.Int("entries", len(entries)))
	}

	var hierarchy *ontology.DiseaseHierarchy
	if cfg.Sources.HierarchyFile != "" {
		data, err := os.ReadFile(cfg.Sources.HierarchyFile)
		if err != nil {
			return nil, fmt.Errorf("hierarchy file: %w", err)
		}
		hierarchy, err = enrichment.ParseHierarchy(data)
		if err != nil {
			return nil, fmt.Errorf("hierarchy file: %w", err)
		}
		logger.Info("disease hierarchy loaded",
			logging.String("file", cfg.Sources.HierarchyFile),
			logging.Int("diseases", hierarchy.Size()))
	}

	search, err := hgnc.NewSearchClient(cfg.Sources.HGNC.Search, logger)
	if err != nil {
		return nil, fmt.Errorf("hgnc search: %w", err)
	}

	cat, err := catalog.New(cfg.Sources, catalog.Options{
		Terms:         terms,
		AntigenSearch: redis.NewCachedSearch(search, deps.cache),
	}, logger)
	if err != nil {
		return nil, err
	}

	builder, err := enrichment.NewBuilder(cat.Extractors, deps.snapshots, enrichment.BuilderConfig{
		SaveSnapshots: true,
	}, logger)
	if err != nil {
		return nil, err
	}

	return enrichment.NewService(builder, cat.AntigenFallback, deps.store, deps.events, deps.observer,
		enrichment.ServiceConfig{Pipeline: cfg.Pipeline, Hierarchy: hierarchy}, logger)
}

// loadConfig reads the config file, falling back to environment variables
// and defaults when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return config.LoadFromEnv()
		}
		return nil, err
	}
	return config.Load(path)
}

// ensureTopics creates the event topics when the broker allows it.  A failure
// is logged, not fatal: the broker may manage topics itself.
func ensureTopics(ctx context.Context, brokers []string, logger logging.Logger) error {
	manager, err := kafka.NewTopicManager(brokers, logger)
	if err != nil {
		logger.Warn("topic manager unavailable", logging.Err(err))
		return nil
	}
	defer manager.Close()
	if err := manager.EnsureDefaultTopics(ctx); err != nil {
		logger.Warn("topic bootstrap failed", logging.Err(err))
	}
	return nil
}

//Personal.AI order the ending
