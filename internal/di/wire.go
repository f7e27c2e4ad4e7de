//go:build wireinject
// +build wireinject

package di

import (
	"StockRadar/pkg/config"
	"StockRadar/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideResultStore,
		ProvideResultCache,
		ProvideBarSource,
		ProvideHub,

		// Use cases
		ProvideAnalyzer,
		ProvideScreener,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
