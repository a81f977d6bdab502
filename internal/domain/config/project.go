package config

import (
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
)

// ProjectConfig represents hazedeploy.toml after defaults are applied
type ProjectConfig struct {
	// Solidity is the compiler version the artifacts are expected to be built with
	Solidity       string                   `toml:"solidity" json:"solidity" yaml:"solidity"`
	DefaultNetwork string                   `toml:"default_network" json:"defaultNetwork" yaml:"defaultNetwork"`
	Paths          PathsConfig              `toml:"paths" json:"paths" yaml:"paths"`
	Networks       map[string]NetworkConfig `toml:"networks" json:"networks" yaml:"networks"`
	Deploy         DeployConfig             `toml:"deploy" json:"deploy" yaml:"deploy"`
}

// PathsConfig lists where compiled artifacts live, relative to the project root
type PathsConfig struct {
	Artifacts []string `toml:"artifacts" json:"artifacts" yaml:"artifacts"`
}

// NetworkConfig is a [networks.<name>] section
type NetworkConfig struct {
	ChainID  uint64 `toml:"chain_id" json:"chainId" yaml:"chainId"`
	URL      string `toml:"url" json:"url" yaml:"url"`
	Explorer string `toml:"explorer,omitempty" json:"explorer,omitempty" yaml:"explorer,omitempty"`

	// Accounts holds ${VAR} references only, never key material.
	Accounts []string `toml:"accounts,omitempty" json:"accounts,omitempty" yaml:"accounts,omitempty"`

	AllowUnlimitedContractSize bool `toml:"allow_unlimited_contract_size" json:"allowUnlimitedContractSize" yaml:"allowUnlimitedContractSize"`
}

// DeployConfig is the [deploy] section
type DeployConfig struct {
	Contract      string `toml:"contract" json:"contract" yaml:"contract"`
	Initializer   string `toml:"initializer" json:"initializer" yaml:"initializer"`
	Kind          string `toml:"kind" json:"kind" yaml:"kind"`
	InitialOwner  string `toml:"initial_owner,omitempty" json:"initialOwner,omitempty" yaml:"initialOwner,omitempty"`
	Confirmations uint64 `toml:"confirmations" json:"confirmations" yaml:"confirmations"`

	Params domain.InitParams `toml:"params" json:"params" yaml:"params"`
}
