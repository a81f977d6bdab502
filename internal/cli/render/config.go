package render

import (
	"fmt"
	"io"

	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out    io.Writer
	format Format
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer, format Format) *ConfigRenderer {
	return &ConfigRenderer{
		out:    out,
		format: format,
	}
}

type configView struct {
	ProjectRoot string                `json:"projectRoot" yaml:"projectRoot"`
	ConfigFile  string                `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	Network     string                `json:"network" yaml:"network"`
	Local       *config.LocalConfig   `json:"local,omitempty" yaml:"local,omitempty"`
	Project     *config.ProjectConfig `json:"project" yaml:"project"`
}

// RenderConfig renders the resolved configuration
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	view := configView{
		ProjectRoot: result.ProjectRoot,
		ConfigFile:  result.ConfigFile,
		Network:     result.NetworkName,
		Project:     result.Project,
	}
	if result.LocalExists {
		view.Local = result.Local
	}

	switch r.format {
	case FormatJSON:
		return writeJSON(r.out, view)
	case FormatYAML:
		return writeYAML(r.out, view)
	}

	fmt.Fprintln(r.out, "📋 Current config:")
	fmt.Fprintf(r.out, "Network:   %s\n", orNotSet(result.NetworkName))

	if result.ConfigFile != "" {
		fmt.Fprintf(r.out, "\n📦 Config source: %s\n", getRelativePath(result.ConfigFile))
	} else {
		fmt.Fprintln(r.out, "\n📦 Config source: built-in defaults (no hazedeploy.toml found)")
	}

	if result.LocalExists {
		fmt.Fprintf(r.out, "📁 local config: %s\n", getRelativePath(result.LocalPath))
		for _, key := range config.ValidConfigKeys() {
			fmt.Fprintf(r.out, "   %-9s %s\n", string(key)+":", orNotSet(result.Local.Get(key)))
		}
	}

	fmt.Fprintln(r.out)
	return writeYAML(r.out, result.Project)
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	switch result.Key {
	case config.ConfigKeyNetwork:
		fmt.Fprintf(r.out, "✅ Removed network from config (falls back to default_network in hazedeploy.toml)\n")
	case config.ConfigKeyTimeout:
		fmt.Fprintf(r.out, "✅ Reset timeout to: default\n")
	}

	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderMigrateSecrets lists the accounts moved out of hazedeploy.toml
func (r *ConfigRenderer) RenderMigrateSecrets(result *usecase.MigrateSecretsResult) error {
	if len(result.Secrets) == 0 {
		fmt.Fprintln(r.out, FormatSuccess("No private keys found in hazedeploy.toml"))
		return nil
	}

	if result.DryRun {
		fmt.Fprintln(r.out, "The following accounts would be moved to .env:")
	} else {
		fmt.Fprintln(r.out, "Moved accounts to .env:")
	}
	for _, secret := range result.Secrets {
		fmt.Fprintf(r.out, "  %-14s %s -> ${%s}\n", secret.Network, secret.Redacted(), secret.EnvVar)
	}

	if !result.DryRun {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning("Keep .env out of version control and rotate any key that was committed"))
	}
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
