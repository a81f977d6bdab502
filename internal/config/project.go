package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/joho/godotenv"
)

// privateKeyPattern matches a raw secp256k1 private key with or without 0x
var privateKeyPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)

// FindProjectRoot walks up from dir to find hazedeploy.toml
func FindProjectRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a hazedeploy project (%s not found)", ProjectFile)
		}
		dir = parent
	}
}

// LoadEnvFiles loads .env and .env.local from the project root.
// Variables already present in the environment win.
func LoadEnvFiles(projectRoot string) error {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// LoadProjectConfig reads hazedeploy.toml from projectRoot and overlays it on
// the built-in defaults. A missing file yields the defaults and an empty path.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, string, error) {
	return loadProjectConfig(projectRoot, false)
}

// loadProjectConfig is LoadProjectConfig with the inline key check optionally
// relaxed, for the one command that rewrites such keys.
func loadProjectConfig(projectRoot string, allowInlineSecrets bool) (*config.ProjectConfig, string, error) {
	cfg := DefaultProjectConfig()

	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := finalizeProjectConfig(cfg, allowInlineSecrets); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	var raw config.ProjectConfig
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, "", fmt.Errorf("unknown keys in %s: %v", ProjectFile, undecoded)
	}

	overlayProjectConfig(cfg, &raw, md)

	if err := finalizeProjectConfig(cfg, allowInlineSecrets); err != nil {
		return nil, "", err
	}

	return cfg, path, nil
}

// overlayProjectConfig copies every key defined in the file onto cfg
func overlayProjectConfig(cfg *config.ProjectConfig, raw *config.ProjectConfig, md toml.MetaData) {
	if md.IsDefined("solidity") {
		cfg.Solidity = raw.Solidity
	}
	if md.IsDefined("default_network") {
		cfg.DefaultNetwork = raw.DefaultNetwork
	}
	if md.IsDefined("paths", "artifacts") {
		cfg.Paths.Artifacts = raw.Paths.Artifacts
	}

	for name, n := range raw.Networks {
		base, exists := cfg.Networks[name]
		if !exists {
			cfg.Networks[name] = n
			continue
		}
		defined := func(key string) bool { return md.IsDefined("networks", name, key) }
		if defined("chain_id") {
			base.ChainID = n.ChainID
		}
		if defined("url") {
			base.URL = n.URL
		}
		if defined("explorer") {
			base.Explorer = n.Explorer
		}
		if defined("accounts") {
			base.Accounts = n.Accounts
		}
		if defined("allow_unlimited_contract_size") {
			base.AllowUnlimitedContractSize = n.AllowUnlimitedContractSize
		}
		cfg.Networks[name] = base
	}

	d := &cfg.Deploy
	if md.IsDefined("deploy", "contract") {
		d.Contract = raw.Deploy.Contract
	}
	if md.IsDefined("deploy", "initializer") {
		d.Initializer = raw.Deploy.Initializer
	}
	if md.IsDefined("deploy", "kind") {
		d.Kind = raw.Deploy.Kind
	}
	if md.IsDefined("deploy", "initial_owner") {
		d.InitialOwner = raw.Deploy.InitialOwner
	}
	if md.IsDefined("deploy", "confirmations") {
		d.Confirmations = raw.Deploy.Confirmations
	}
	if md.IsDefined("deploy", "params") {
		d.Params = raw.Deploy.Params.Merge(d.Params)
	}
}

// finalizeProjectConfig expands environment references and rejects inline secrets
func finalizeProjectConfig(cfg *config.ProjectConfig, allowInlineSecrets bool) error {
	for name, n := range cfg.Networks {
		n.URL = os.ExpandEnv(n.URL)
		n.Explorer = os.ExpandEnv(n.Explorer)

		for i, account := range n.Accounts {
			if err := CheckAccountReference(name, account); err != nil {
				if !allowInlineSecrets || !errors.Is(err, domain.ErrInlineSecret) {
					return err
				}
			}
			n.Accounts[i] = strings.TrimSpace(account)
		}

		cfg.Networks[name] = n
	}

	p := &cfg.Deploy.Params
	p.Owner = os.ExpandEnv(p.Owner)
	p.Router = os.ExpandEnv(p.Router)
	p.Stablecoin = os.ExpandEnv(p.Stablecoin)
	p.WrappedNative = os.ExpandEnv(p.WrappedNative)
	cfg.Deploy.InitialOwner = os.ExpandEnv(cfg.Deploy.InitialOwner)

	if _, err := domain.ParseProxyKind(cfg.Deploy.Kind); err != nil {
		return fmt.Errorf("invalid [deploy] kind: %w", err)
	}

	return nil
}

// CheckAccountReference ensures an accounts entry is a pure ${VAR} reference.
func CheckAccountReference(network, value string) error {
	value = strings.TrimSpace(value)
	if _, ok := DetectEnvVar(value); ok {
		return nil
	}
	hint := GenerateEnvVarName(network, "PRIVATE_KEY")
	if privateKeyPattern.MatchString(value) {
		return fmt.Errorf("%w: network %s has a private key written in %s; move it to the environment and use accounts = [\"${%s}\"] (see 'hazedeploy config migrate-secrets')",
			domain.ErrInlineSecret, network, ProjectFile, hint)
	}
	return fmt.Errorf("network %s: account entries must be ${VAR} references, e.g. \"${%s}\"", network, hint)
}
