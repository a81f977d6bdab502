package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network setting.
// Convention: camelCase split into words, uppercase, dashes/dots to underscores.
// Examples: (bscTestnet, PRIVATE_KEY) -> BSC_TESTNET_PRIVATE_KEY, (celo-sepolia, RPC_URL) -> CELO_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName, suffix string) string {
	var b strings.Builder
	for i, r := range networkName {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := networkName[i-1]
			if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	name := strings.ToUpper(b.String())
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_" + suffix
}

// FindInlineSecrets reads hazedeploy.toml without expansion and returns every
// accounts entry holding key material instead of a ${VAR} reference.
func FindInlineSecrets(projectRoot string) ([]config.InlineSecret, error) {
	var raw struct {
		Networks map[string]struct {
			Accounts []string `toml:"accounts"`
		} `toml:"networks"`
	}
	if _, err := toml.DecodeFile(filepath.Join(projectRoot, ProjectFile), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	names := make([]string, 0, len(raw.Networks))
	for name := range raw.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	var secrets []config.InlineSecret
	for _, name := range names {
		for i, account := range raw.Networks[name].Accounts {
			account = strings.TrimSpace(account)
			if !privateKeyPattern.MatchString(account) {
				continue
			}
			envVar := GenerateEnvVarName(name, "PRIVATE_KEY")
			if i > 0 {
				envVar = fmt.Sprintf("%s_%d", envVar, i)
			}
			secrets = append(secrets, config.InlineSecret{Network: name, Value: account, EnvVar: envVar})
		}
	}
	return secrets, nil
}

// MigrateInlineSecret replaces a private key in hazedeploy.toml with an env var
// reference and appends the env var assignment to .env.
func MigrateInlineSecret(projectRoot string, secret config.InlineSecret) error {
	data, err := os.ReadFile(filepath.Join(projectRoot, ProjectFile)) //nolint:gosec // internal path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ProjectFile, err)
	}
	if !strings.Contains(string(data), fmt.Sprintf(`"%s"`, secret.Value)) {
		return fmt.Errorf("could not find account entry for %s in %s", secret.EnvVar, ProjectFile)
	}

	if err := appendToEnvFile(projectRoot, secret.EnvVar, secret.Value); err != nil {
		return fmt.Errorf("failed to update .env: %w", err)
	}

	if err := replaceInProjectFile(projectRoot, secret.Value, secret.EnvVar); err != nil {
		return fmt.Errorf("failed to update %s: %w", ProjectFile, err)
	}

	return nil
}

// replaceInProjectFile swaps a quoted literal for a quoted ${VAR} reference.
func replaceInProjectFile(projectRoot, oldValue, envVarName string) error {
	path := filepath.Join(projectRoot, ProjectFile)

	data, err := os.ReadFile(path) //nolint:gosec // internal path
	if err != nil {
		return err
	}

	content := string(data)
	oldEntry := fmt.Sprintf(`"%s"`, oldValue)
	newEntry := fmt.Sprintf(`"${%s}"`, envVarName)

	if !strings.Contains(content, oldEntry) {
		return fmt.Errorf("could not find account entry for %s", envVarName)
	}

	content = strings.Replace(content, oldEntry, newEntry, 1)

	return os.WriteFile(path, []byte(content), 0644) //nolint:gosec // internal path
}

// appendToEnvFile appends an env var assignment to the .env file.
func appendToEnvFile(projectRoot, envVarName, value string) error {
	envPath := filepath.Join(projectRoot, ".env")

	// Read existing content to check for duplicates and trailing newline
	existing, err := os.ReadFile(envPath) //nolint:gosec // internal path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	if strings.Contains(string(existing), envVarName+"=") {
		return nil // Already present
	}

	f, err := os.OpenFile(envPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) //nolint:gosec // internal path
	if err != nil {
		return fmt.Errorf("failed to open .env: %w", err)
	}
	defer f.Close()

	// Ensure we start on a new line if file has content
	prefix := ""
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		prefix = "\n"
	}

	if _, err := fmt.Fprintf(f, "%s%s=%s\n", prefix, envVarName, value); err != nil {
		return fmt.Errorf("failed to write to .env: %w", err)
	}

	return nil
}
