package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/samber/lo"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	ConfigPath string
	Key        config.ConfigKey
	Value      string
}

// SetConfig is a use case for setting local configuration values
type SetConfig struct {
	store    LocalConfigStore
	networks NetworkResolver
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigStore, networks NetworkResolver) *SetConfig {
	return &SetConfig{
		store:    store,
		networks: networks,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	if key == config.ConfigKeyNetwork {
		if _, err := uc.networks.ResolveNetwork(ctx, params.Value); err != nil {
			return nil, err
		}
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := local.Set(key, params.Value); err != nil {
		return nil, err
	}

	if err := uc.store.Save(ctx, local); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		ConfigPath: uc.store.GetPath(),
		Key:        key,
		Value:      params.Value,
	}, nil
}

func parseConfigKey(raw string) (config.ConfigKey, error) {
	key, ok := config.NormalizeConfigKey(strings.ToLower(raw))
	if !ok {
		validKeys := lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string {
			if k == config.ConfigKeyNetwork {
				return string(k) + " (net)"
			}
			return string(k)
		})
		return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", raw, strings.Join(validKeys, ", "))
	}
	return key, nil
}
