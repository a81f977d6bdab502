package config

import (
	"fmt"
	"time"
)

// LocalConfig is the per-checkout settings file, .hazedeploy/config.local.json.
// It is read back through viper so its keys match the flag names.
type LocalConfig struct {
	Network string `json:"network,omitempty"`
	Timeout string `json:"timeout,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork ConfigKey = "network"
	ConfigKeyTimeout ConfigKey = "timeout"
)

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyTimeout,
	}
}

// NormalizeConfigKey maps short aliases to their key ("net" -> "network")
func NormalizeConfigKey(key string) (ConfigKey, bool) {
	if key == "net" {
		return ConfigKeyNetwork, true
	}
	for _, valid := range ValidConfigKeys() {
		if string(valid) == key {
			return valid, true
		}
	}
	return "", false
}

// Get returns the value stored for key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyNetwork:
		return c.Network
	case ConfigKeyTimeout:
		return c.Timeout
	}
	return ""
}

// Set validates and stores a value; an empty value clears the key
func (c *LocalConfig) Set(key ConfigKey, value string) error {
	switch key {
	case ConfigKeyNetwork:
		c.Network = value
	case ConfigKeyTimeout:
		if value != "" {
			d, err := time.ParseDuration(value)
			if err != nil || d <= 0 {
				return fmt.Errorf("timeout must be a positive duration such as 5m, got %q", value)
			}
		}
		c.Timeout = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
