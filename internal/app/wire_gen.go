// Maintained by hand in the shape wire emits for wire.go. Running go generate
// replaces this file with wire's own output.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package app

import (
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/blockchain"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/contracts"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/fs"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/interactive"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/network"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/repository/deployments"
	"github.com/greenhaze-labs/hazedeploy/internal/adapters/resolvers"
	"github.com/greenhaze-labs/hazedeploy/internal/config"
	"github.com/greenhaze-labs/hazedeploy/internal/logging"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/spf13/viper"
)

// Injectors from wire.go:

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	runtimeConfig, err := config.Provider(v)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(runtimeConfig)
	resolver := network.NewResolver(runtimeConfig, logger)
	indexer := contracts.NewIndexer(runtimeConfig, logger)
	selectorAdapter := interactive.NewSelectorAdapter(runtimeConfig)
	contractResolver := resolvers.NewContractResolver(runtimeConfig, indexer, selectorAdapter, logger)
	connector := blockchain.NewConnector(logger)
	fileRepository := deployments.NewFileRepositoryFromConfig(runtimeConfig)
	deployProxy := usecase.NewDeployProxy(runtimeConfig, resolver, contractResolver, connector, fileRepository, selectorAdapter, sink, logger)
	listNetworks := usecase.NewListNetworks(runtimeConfig, resolver)
	listDeployments := usecase.NewListDeployments(resolver, fileRepository, sink)
	localConfigStoreAdapter := fs.NewLocalConfigStoreAdapter(runtimeConfig)
	showConfig := usecase.NewShowConfig(runtimeConfig, localConfigStoreAdapter)
	setConfig := usecase.NewSetConfig(localConfigStoreAdapter, resolver)
	removeConfig := usecase.NewRemoveConfig(localConfigStoreAdapter)
	secretStoreAdapter := fs.NewSecretStoreAdapter(runtimeConfig)
	migrateSecrets := usecase.NewMigrateSecrets(secretStoreAdapter, sink)
	app, err := NewApp(runtimeConfig, logger, deployProxy, listNetworks, listDeployments, showConfig, setConfig, removeConfig, migrateSecrets)
	if err != nil {
		return nil, err
	}
	return app, nil
}
