package usecase

import (
	"context"
	"fmt"

	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
)

// RemoveConfigParams contains parameters for removing configuration
type RemoveConfigParams struct {
	Key string
}

// RemoveConfigResult contains the result of removing configuration
type RemoveConfigResult struct {
	ConfigPath   string
	Key          config.ConfigKey
	RemovedValue string
}

// RemoveConfig is a use case for removing local configuration values
type RemoveConfig struct {
	store LocalConfigStore
}

// NewRemoveConfig creates a new RemoveConfig use case
func NewRemoveConfig(store LocalConfigStore) *RemoveConfig {
	return &RemoveConfig{
		store: store,
	}
}

// Run executes the remove config use case
func (uc *RemoveConfig) Run(ctx context.Context, params RemoveConfigParams) (*RemoveConfigResult, error) {
	if !uc.store.Exists() {
		return nil, fmt.Errorf("no config file found at %s", uc.store.GetPath())
	}

	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	removed := local.Get(key)
	if err := local.Set(key, ""); err != nil {
		return nil, err
	}

	if err := uc.store.Save(ctx, local); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &RemoveConfigResult{
		ConfigPath:   uc.store.GetPath(),
		Key:          key,
		RemovedValue: removed,
	}, nil
}
