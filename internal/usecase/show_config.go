package usecase

import (
	"context"

	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
)

// ShowConfigResult contains the resolved configuration
type ShowConfigResult struct {
	ProjectRoot string
	ConfigFile  string // empty when running on built-in defaults
	NetworkName string
	Project     *config.ProjectConfig

	Local       *config.LocalConfig
	LocalPath   string
	LocalExists bool
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigStore
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigStore) *ShowConfig {
	return &ShowConfig{
		config: cfg,
		store:  store,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ShowConfigResult{
		ProjectRoot: uc.config.ProjectRoot,
		ConfigFile:  uc.config.ConfigFile,
		NetworkName: uc.config.NetworkName,
		Project:     uc.config.Project,
		Local:       local,
		LocalPath:   uc.store.GetPath(),
		LocalExists: uc.store.Exists(),
	}, nil
}
