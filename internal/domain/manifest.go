package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ManifestVersion is written into every manifest file
const ManifestVersion = "3.2"

// Manifest is the per-network deployment record, kept in the same shape as
// the OpenZeppelin upgrades manifest so existing tooling can read it.
type Manifest struct {
	ManifestVersion string `json:"manifestVersion" yaml:"manifestVersion"`
	ChainID         uint64 `json:"chainId" yaml:"chainId"`

	// Implementations are keyed by creation bytecode hash.
	Implementations map[string]*ImplementationRecord `json:"impls" yaml:"impls"`
	Proxies         []*ProxyRecord                   `json:"proxies" yaml:"proxies"`

	// Extra holds fields written by other tools, such as the plugin's admin.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// NewManifest returns an empty manifest for a chain.
func NewManifest(chainID uint64) *Manifest {
	return &Manifest{
		ManifestVersion: ManifestVersion,
		ChainID:         chainID,
		Implementations: make(map[string]*ImplementationRecord),
		Proxies:         []*ProxyRecord{},
	}
}

// knownManifestNames mirrors the file names used by the upgrades plugin
var knownManifestNames = map[uint64]string{
	1:        "mainnet",
	56:       "bsc",
	97:       "bsc-testnet",
	137:      "polygon",
	11155111: "sepolia",
}

// ManifestFileName returns the manifest file name for a chain.
func ManifestFileName(chainID uint64) string {
	if name, ok := knownManifestNames[chainID]; ok {
		return name + ".json"
	}
	return fmt.Sprintf("unknown-%d.json", chainID)
}

// ChainIDFromManifestFileName is the inverse of ManifestFileName, used for
// manifests written without a chainId field.
func ChainIDFromManifestFileName(fileName string) (uint64, bool) {
	name := strings.TrimSuffix(fileName, ".json")
	for chainID, known := range knownManifestNames {
		if known == name {
			return chainID, true
		}
	}
	if id, ok := strings.CutPrefix(name, "unknown-"); ok {
		chainID, err := strconv.ParseUint(id, 10, 64)
		return chainID, err == nil && chainID != 0
	}
	return 0, false
}
