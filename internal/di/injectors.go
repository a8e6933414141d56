//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"kudosd/internal"
	"kudosd/internal/controllers"
	"kudosd/internal/dispatch"
	"kudosd/internal/feed"
	"kudosd/internal/kudos"
	"kudosd/internal/maintain"
	"kudosd/internal/providers"
	"kudosd/internal/services"
	"kudosd/internal/storage"
	"kudosd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewCacheProvider,
		providers.NewMetricsProvider,
		providers.NewHTTPClientProvider,

		storage.NewZstdCompressor,
		storage.NewStore,
		wire.Bind(new(storage.StoreInterface), new(*storage.FileStore)),

		services.NewSettingsService,
		dispatch.NewDispatcher,
		kudos.NewEndorser,
		kudos.NewWorker,
		feed.NewBus,
		feed.NewPipeline,
		maintain.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
