// OncoTerm enrichment worker: consumes raw entry mentions from Kafka,
// resolves each term against the ontology dictionaries and writes the
// enriched entities back to PostgreSQL and the entity.enriched topic.
package main

import (
	"context"
	"flag"
	"fmt"
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
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	migrationsPath := flag.String("migrations", "file://migrations", "migrations source URL")
	flag.Parse()

	if err := run(*configPath, *migrationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
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
	logger = logger.Named("worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.RunMigrations(cfg.Database.DSN(), migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer conn.Close()
	repo := repositories.NewEnrichmentRepository(conn.Pool(), logger)

	redisClient, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()
	sourceCache := redis.NewSourceCache(redisClient, cfg.Sources.CacheTTL, logger)

	producer, err := kafka.NewProducer(cfg.Kafka.Producer, logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()

	minioClient, err := minio.NewClient(&cfg.MinIO, logger)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	snapshots := minio.NewSnapshotStore(minioClient, logger)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	observer := prometheus.NewPipelineObserver(prometheus.NewAppMetrics(collector))

	svc, err := buildService(ctx, cfg, sourceCache, snapshots, repo, producer, observer, logger)
	if err != nil {
		return err
	}

	consumerCfg := cfg.Kafka.Consumer
	if consumerCfg.Topic == "" {
		consumerCfg.Topic = kafka.TopicEntryReceived
	}
	consumer, err := kafka.NewConsumer(consumerCfg, producer, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer consumer.Close()

	logger.Info("worker started",
		logging.String("topic", consumerCfg.Topic),
		logging.String("group", consumerCfg.GroupID))

	err = consumer.Run(ctx, entryHandler(svc, logger))
	if err == context.Canceled || err == kafka.ErrConsumerClosed {
		logger.Info("worker stopped")
		return nil
	}
	return err
}

// entryHandler enriches one mention per entry.received event.  Unknown event
// types are dead-lettered by returning an error.
func entryHandler(svc *enrichment.Service, logger logging.Logger) kafka.EnvelopeHandler {
	return func(ctx context.Context, env *kafka.EventEnvelope) error {
		if env.EventType != kafka.TopicEntryReceived {
			return fmt.Errorf("unexpected event type %q", env.EventType)
		}
		var payload kafka.EntryReceivedPayload
		if err := env.DecodePayload(&payload); err != nil {
			return err
		}

		result, err := svc.Enrich(ctx, []enrichment.RawMention{payload.Mention})
		if err != nil {
			return err
		}
		logger.Debug("entry enriched",
			logging.String("entry_id", payload.Mention.EntryID),
			logging.String("run_id", result.RunID))
		return nil
	}
}

// buildService mirrors the apiserver wiring: catalog from config,
// snapshot-backed builder, PostgreSQL store and Kafka sink.  The worker
// builds its dictionaries before consuming; an empty dictionary set is fatal
// here because there is no rebuild endpoint to recover through.
func buildService(
	ctx context.Context,
	cfg *config.Config,
	cache *redis.SourceCache,
	snapshots enrichment.SnapshotStore,
	repo *repositories.EnrichmentRepository,
	producer *kafka.Producer,
	observer enrichment.Observer,
	logger logging.Logger,
) (*enrichment.Service, error) {
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
	}

	search, err := hgnc.NewSearchClient(cfg.Sources.HGNC.Search, logger)
	if err != nil {
		return nil, fmt.Errorf("hgnc search: %w", err)
	}

	cat, err := catalog.New(cfg.Sources, catalog.Options{
		Terms:         terms,
		AntigenSearch: redis.NewCachedSearch(search, cache),
	}, logger)
	if err != nil {
		return nil, err
	}

	builder, err := enrichment.NewBuilder(cat.Extractors, snapshots, enrichment.BuilderConfig{
		SaveSnapshots: true,
	}, logger)
	if err != nil {
		return nil, err
	}

	svc, err := enrichment.NewService(builder, cat.AntigenFallback,
		&runStoreAdapter{repo: repo},
		&eventSinkAdapter{producer: producer},
		observer,
		enrichment.ServiceConfig{Pipeline: cfg.Pipeline, Hierarchy: hierarchy}, logger)
	if err != nil {
		return nil, err
	}
	if _, err := svc.Prepare(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return config.LoadFromEnv()
		}
		return nil, err
	}
	return config.Load(path)
}

//Personal.AI order the ending
