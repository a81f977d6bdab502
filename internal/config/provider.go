package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = ResolveProjectRoot()
	}

	if err := LoadEnvFiles(projectRoot); err != nil {
		return nil, err
	}

	project, configFile, err := loadProjectConfig(projectRoot, v.GetBool("allow_inline_secrets"))
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		ConfigFile:     configFile,
		NetworkName:    v.GetString("network"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Yes:            v.GetBool("yes"),
		Timeout:        v.GetDuration("timeout"),
		DryRun:         v.GetBool("dry_run"),
		Project:        project,
	}

	if cfg.NetworkName == "" {
		cfg.NetworkName = project.DefaultNetwork
	}

	// JSON output cannot answer prompts
	if cfg.JSON {
		cfg.NonInteractive = true
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	return cfg, nil
}

// ResolveProjectRoot returns the nearest directory holding hazedeploy.toml,
// falling back to the working directory.
func ResolveProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root, err := FindProjectRoot(cwd); err == nil {
		return root
	}
	return cwd
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Machine-local overrides, never committed
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, LocalDir))

	v.SetEnvPrefix("HAZE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}
