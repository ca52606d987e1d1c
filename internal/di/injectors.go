//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"hobbyd/internal"
	"hobbyd/internal/common/clock"
	"hobbyd/internal/common/uuid"
	"hobbyd/internal/controllers"
	"hobbyd/internal/providers"
	"hobbyd/internal/repositories"
	"hobbyd/internal/services"
	"hobbyd/internal/statistic"
	"hobbyd/internal/structures"
)

var trackerSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	clock.New,
	wire.Bind(new(clock.Clock), new(*clock.DefaultClock)),
	uuid.New,
	wire.Bind(new(uuid.UUID), new(*uuid.DefaultUUID)),

	repositories.NewRepository,
	statistic.NewEngine,
	statistic.NewZstdCompressor,
	statistic.NewFileManager,
	statistic.NewScheduler,
	services.NewTrackerService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		trackerSet,
		providers.NewInstrumentedCacheProvider,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}

func InitTracker(cfg *structures.CliFlags) (*internal.Tracker, error) {

	wire.Build(
		trackerSet,
		internal.NewTracker,
	)

	return nil, nil
}
