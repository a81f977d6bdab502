package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	internalconfig "github.com/greenhaze-labs/hazedeploy/internal/config"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// LocalConfigStoreAdapter reads and writes .hazedeploy/config.local.json
type LocalConfigStoreAdapter struct {
	configPath string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		configPath: filepath.Join(cfg.ProjectRoot, internalconfig.LocalDir, "config.local.json"),
	}
}

// Exists checks if the config file exists
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.configPath)
	return err == nil
}

// Load reads the configuration, returning an empty one when the file is missing
func (s *LocalConfigStoreAdapter) Load(ctx context.Context) (*config.LocalConfig, error) {
	if !s.Exists() {
		return &config.LocalConfig{}, nil
	}

	data, err := os.ReadFile(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var localConfig config.LocalConfig
	if err := json.Unmarshal(data, &localConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &localConfig, nil
}

// Save writes the configuration to the file
func (s *LocalConfigStoreAdapter) Save(ctx context.Context, cfg *config.LocalConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(s.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

var _ usecase.LocalConfigStore = (*LocalConfigStoreAdapter)(nil)
