package di

import (
	"context"
	"fmt"
	"time"

	domrepo "DestinyMap/internal/domain/repository"
	domsvc "DestinyMap/internal/domain/service"
	"DestinyMap/internal/handler/api"
	mid "DestinyMap/internal/middleware"
	internalrepo "DestinyMap/internal/repository"
	"DestinyMap/internal/services/chart"
	"DestinyMap/internal/services/ephemeris"
	"DestinyMap/internal/services/saju"
	"DestinyMap/internal/services/tzlookup"
	"DestinyMap/internal/usecase"
	pkgcache "DestinyMap/pkg/cache"
	pkgch "DestinyMap/pkg/clickhouse"
	"DestinyMap/pkg/config"
	pkgkafka "DestinyMap/pkg/kafka"
	applogger "DestinyMap/pkg/logger"
	"DestinyMap/pkg/metrics"
	"DestinyMap/pkg/server"
)

// ProvideLogger creates the application logger from config. When a Kafka
// producer is available, repeated error logs are aggregated and shipped to a
// side topic for fleet-wide triage.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Kafka.MapsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.MapsTopic + ".logs",
			Publisher:      producerLogSink{producer: producer},
		})
	}
	return l, nil
}

// producerLogSink adapts the Kafka producer to the log collector's publisher.
type producerLogSink struct {
	producer *pkgkafka.Producer
}

func (s producerLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCacheService creates the aggregate cache. A plain in-memory cache
// by default; layered over Redis when configured for multi-instance sharing.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Redis.Enabled {
		redis, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return pkgcache.NewLayeredCache(redis,
			pkgcache.WithLayeredMemorySize(cfg.Cache.MaxSize),
			pkgcache.WithLayeredMemoryTTL(cfg.Cache.TTL),
		), nil
	}

	return pkgcache.NewMemoryCache(
		pkgcache.WithMemoryMaxSize(cfg.Cache.MaxSize),
		pkgcache.WithMemoryTTL(cfg.Cache.TTL),
	), nil
}

// ProvideClickHouseClient creates a ClickHouse client when the audit backend
// needs one, and initializes the audit schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Audit.Backend != "clickhouse" && cfg.Audit.Backend != "both" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := append([]string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database}, internalrepo.AuditSchema...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the audit backend
// publishes records.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Audit.Backend != "kafka" && cfg.Audit.Backend != "both" {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideAuditStore creates the ClickHouse audit store.
func ProvideAuditStore(chClient *pkgch.Client, cfg *config.Config) domrepo.AuditStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseAuditStore(chClient.DB(), cfg.ClickHouse.Database+".destiny_audit")
}

// ProvideAuditPublisher creates the Kafka audit publisher.
func ProvideAuditPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.MapsTopic)
}

// ProvideRecordProcessor creates the audit record processor, nil when
// auditing is disabled.
func ProvideRecordProcessor(
	pub domrepo.Publisher,
	store domrepo.AuditStore,
	m domrepo.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.RecordProcessor {
	if cfg.Audit.Backend == "" {
		return nil
	}
	return usecase.NewRecordProcessor(
		pub,
		store,
		m,
		log,
		cfg.Audit.Backend,
		cfg.Audit.BatchSize,
		cfg.Audit.BatchTimeout,
	)
}

// ProvideEphemerisEngine creates the HTTP ephemeris sidecar client.
func ProvideEphemerisEngine(cfg *config.Config) domsvc.EphemerisEngine {
	return ephemeris.NewHTTPEngine(cfg)
}

// ProvideSajuEngine creates the saju sidecar client, nil when disabled.
func ProvideSajuEngine(cfg *config.Config) domsvc.SajuEngine {
	if !cfg.Saju.Enabled {
		return nil
	}
	return saju.NewHTTPEngine(cfg)
}

// ProvideTimezoneLocator creates the coordinate-based timezone locator.
func ProvideTimezoneLocator() domsvc.TimezoneLocator {
	return tzlookup.New()
}

// ProvideCalculators bundles the chart calculators for the orchestrator.
func ProvideCalculators(engine domsvc.EphemerisEngine, log *applogger.Logger, cfg *config.Config) usecase.Calculators {
	return usecase.Calculators{
		Natal:          chart.NewNatalCalculator(engine, cfg.Ephemeris.HouseSystem),
		Points:         chart.NewAdvancedPointsCalculator(engine, log),
		Returns:        chart.NewReturnsProgressionsCalculator(engine),
		Specialized:    chart.NewSpecializedChartsCalculator(),
		AsteroidsStars: chart.NewAsteroidsStarsCalculator(engine, log),
	}
}

// ProvideOrchestrator creates the destiny-map orchestrator use case.
func ProvideOrchestrator(
	cacheSvc pkgcache.Service,
	calc usecase.Calculators,
	sajuEngine domsvc.SajuEngine,
	tz domsvc.TimezoneLocator,
	m domrepo.Metrics,
	records *usecase.RecordProcessor,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.Orchestrator {
	return usecase.NewOrchestrator(cacheSvc, calc, sajuEngine, tz, m, records, log, usecase.Options{
		GeneratorID:      cfg.Destiny.GeneratorID,
		FallbackTimezone: cfg.Destiny.FallbackTimezone,
		TaskTimeout:      cfg.Destiny.TaskTimeout,
		CacheTTL:         cfg.Cache.TTL,
		UpcomingEclipses: cfg.Destiny.UpcomingEclipses,
		IncludeSolarArc:  cfg.Destiny.IncludeSolarArc,
	})
}

// ProvideAuditUseCase creates the audit query use case.
func ProvideAuditUseCase(store domrepo.AuditStore) *usecase.AuditUseCase {
	return usecase.NewAuditUseCase(store)
}

// ProvideDestinyHandler creates the Echo HTTP handler.
func ProvideDestinyHandler(log *applogger.Logger, orch *usecase.Orchestrator, audit *usecase.AuditUseCase) *api.DestinyEchoHandler {
	return api.NewDestinyEchoHandler(log, orch, audit)
}

// ProvideKafkaConsumer creates the precompute consumer, nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Precompute.Enabled {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Precompute.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Precompute.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Precompute.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Precompute.RetryMax, cfg.Kafka.Precompute.BackoffMin, cfg.Kafka.Precompute.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Precompute.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Precompute.MinBytes, cfg.Kafka.Precompute.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvidePrecomputeHandler registers the cache-warming handler for the
// precompute topic, nil when the consumer is disabled.
func ProvidePrecomputeHandler(orch *usecase.Orchestrator, m domrepo.Metrics, cfg *config.Config) pkgkafka.MessageHandler {
	if !cfg.Kafka.Precompute.Enabled {
		return nil
	}

	// Middleware pipeline between Kafka and the orchestrator
	pipe := mid.NewPrecomputePipeline(orch, m,
		mid.WithDedupeWindow(cfg.Cache.TTL),
		mid.WithMaxTrackedKeys(cfg.Cache.MaxSize*10),
	)
	return usecase.NewPrecomputeHandler(cfg.Kafka.Precompute.Topic, pipe, m)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.DestinyEchoHandler,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	cacheSvc pkgcache.Service,
	records *usecase.RecordProcessor,
	log *applogger.Logger,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, handler, consumer, kh, chClient, log)
	app.RecordProc = records

	// Hand the L1 cache to the app so it can sweep expired aggregates
	switch c := cacheSvc.(type) {
	case *pkgcache.MemoryCache:
		app.SetMemoryCache(c)
	case *pkgcache.LayeredCache:
		app.SetMemoryCache(c.Memory())
	}
	return app
}
