//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters"
	"github.com/greenhaze-labs/hazedeploy/internal/config"
	"github.com/greenhaze-labs/hazedeploy/internal/logging"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployProxy,
		usecase.NewListNetworks,
		usecase.NewListDeployments,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,
		usecase.NewMigrateSecrets,

		// App
		NewApp,
	)
	return nil, nil
}
