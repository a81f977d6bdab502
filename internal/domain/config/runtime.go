package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	ConfigFile  string // empty when running on built-in defaults

	// Context settings
	NetworkName string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Yes            bool // Skip broadcast confirmation
	Timeout        time.Duration

	// Command-specific settings (only populated for relevant commands)
	DryRun bool

	// Resolved configurations
	Project *ProjectConfig
}
