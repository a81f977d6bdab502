package config

import (
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
)

const (
	// ProjectFile is the project configuration file name
	ProjectFile = "hazedeploy.toml"

	// LocalDir holds machine-local settings (config.local.json)
	LocalDir = ".hazedeploy"

	DefaultSolidity      = "0.8.20"
	DefaultNetwork       = "hardhat"
	DefaultContract      = "GreenHaze"
	DefaultInitializer   = "initialize"
	DefaultConfirmations = 1
)

// DefaultArtifactPaths are searched when [paths] is not configured.
// artifacts/ is the hardhat layout, out/ the foundry one.
var DefaultArtifactPaths = []string{"artifacts", "out"}

// DefaultInitParams are the BSC testnet addresses GreenHaze is initialized with.
var DefaultInitParams = domain.InitParams{
	Owner:         "0x15C944b482C537181D9947f7D1DDA225178055B5",
	Router:        "0xD99D1c33F9fC3444f8101754aBC46c52416550D1", // PancakeSwap router
	Stablecoin:    "0x78867BbEeF44f2326bF8DDd1941a4439382EF2A7", // BUSD
	WrappedNative: "0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd", // WBNB
}

// DefaultNetworks returns the built-in network table. Entries from the
// project file are overlaid field by field.
func DefaultNetworks() map[string]config.NetworkConfig {
	return map[string]config.NetworkConfig{
		"hardhat": {
			ChainID:  1337,
			URL:      "http://127.0.0.1:8545",
			Accounts: []string{"${DEPLOYER_PRIVATE_KEY}"},
		},
		"bscTestnet": {
			ChainID:                    97,
			URL:                        "https://data-seed-prebsc-1-s1.binance.org:8545",
			Accounts:                   []string{"${DEPLOYER_PRIVATE_KEY}"},
			AllowUnlimitedContractSize: true,
		},
	}
}

// DefaultProjectConfig returns the configuration used when no project file exists.
func DefaultProjectConfig() *config.ProjectConfig {
	return &config.ProjectConfig{
		Solidity:       DefaultSolidity,
		DefaultNetwork: DefaultNetwork,
		Paths:          config.PathsConfig{Artifacts: append([]string(nil), DefaultArtifactPaths...)},
		Networks:       DefaultNetworks(),
		Deploy: config.DeployConfig{
			Contract:      DefaultContract,
			Initializer:   DefaultInitializer,
			Confirmations: DefaultConfirmations,
			Params:        DefaultInitParams,
		},
	}
}
