package app

import (
	"log/slog"

	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Use cases
	DeployProxy     *usecase.DeployProxy
	ListNetworks    *usecase.ListNetworks
	ListDeployments *usecase.ListDeployments
	ShowConfig      *usecase.ShowConfig
	SetConfig       *usecase.SetConfig
	RemoveConfig    *usecase.RemoveConfig
	MigrateSecrets  *usecase.MigrateSecrets
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	deployProxy *usecase.DeployProxy,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	migrateSecrets *usecase.MigrateSecrets,
) (*App, error) {
	return &App{
		Config:          cfg,
		Logger:          logger,
		DeployProxy:     deployProxy,
		ListNetworks:    listNetworks,
		ListDeployments: listDeployments,
		ShowConfig:      showConfig,
		SetConfig:       setConfig,
		RemoveConfig:    removeConfig,
		MigrateSecrets:  migrateSecrets,
	}, nil
}
