//go:build wireinject
// +build wireinject

package di

import (
	"DestinyMap/pkg/config"
	"DestinyMap/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCacheService,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideAuditStore,
		ProvideAuditPublisher,

		// Domain services
		ProvideEphemerisEngine,
		ProvideSajuEngine,
		ProvideTimezoneLocator,
		ProvideCalculators,

		// Use cases
		ProvideRecordProcessor,
		ProvideOrchestrator,
		ProvideAuditUseCase,
		ProvidePrecomputeHandler,

		// HTTP handler
		ProvideDestinyHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
