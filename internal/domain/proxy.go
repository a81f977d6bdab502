package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// EIP-1967 storage slots
var (
	ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	AdminSlot          = common.HexToHash("0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103")
)

// ProxyKind selects the proxy contract placed in front of the implementation
type ProxyKind string

const (
	ProxyKindAuto        ProxyKind = ""
	ProxyKindTransparent ProxyKind = "transparent"
	ProxyKindUUPS        ProxyKind = "uups"
)

// ParseProxyKind parses a kind name; "" and "auto" mean detect from the ABI.
func ParseProxyKind(s string) (ProxyKind, error) {
	switch s {
	case "", "auto":
		return ProxyKindAuto, nil
	case string(ProxyKindTransparent):
		return ProxyKindTransparent, nil
	case string(ProxyKindUUPS):
		return ProxyKindUUPS, nil
	default:
		return "", fmt.Errorf("unknown proxy kind %q (expected transparent or uups)", s)
	}
}

// DetectProxyKind picks uups when the implementation carries its own upgrade
// entry point, transparent otherwise.
func DetectProxyKind(impl *Artifact) ProxyKind {
	if impl.HasMethod("upgradeToAndCall") && impl.HasMethod("proxiableUUID") {
		return ProxyKindUUPS
	}
	return ProxyKindTransparent
}

// ProxyContract is the artifact name of the proxy for this kind.
func (k ProxyKind) ProxyContract() string {
	if k == ProxyKindUUPS {
		return "ERC1967Proxy"
	}
	return "TransparentUpgradeableProxy"
}

// SlotAddress extracts the address stored in a 32-byte storage word.
func SlotAddress(word common.Hash) common.Address {
	return common.BytesToAddress(word[12:])
}
