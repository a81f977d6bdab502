package domain

import (
	"net/url"
	"strings"
)

// LocalChainIDs are chain IDs used by local development nodes.
var LocalChainIDs = map[uint64]bool{
	1337:  true,
	31337: true,
}

// Network is a resolved network descriptor
type Network struct {
	Name    string `json:"name" yaml:"name"`
	ChainID uint64 `json:"chainId" yaml:"chainId"`
	RPCURL  string `json:"rpcUrl" yaml:"rpcUrl"`

	// AccountEnv lists the environment variables holding signing keys.
	// Key material itself is read only when a transaction is signed.
	AccountEnv []string `json:"accountEnv,omitempty" yaml:"accountEnv,omitempty"`

	AllowUnlimitedContractSize bool   `json:"allowUnlimitedContractSize" yaml:"allowUnlimitedContractSize"`
	Explorer                   string `json:"explorer,omitempty" yaml:"explorer,omitempty"`
}

// IsLocal reports whether the network is a local development node.
func (n *Network) IsLocal() bool {
	if LocalChainIDs[n.ChainID] {
		return true
	}
	u, err := url.Parse(n.RPCURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "0.0.0.0"
}

// AddressURL returns the explorer link for an address, or "" without an explorer.
func (n *Network) AddressURL(address string) string {
	if n.Explorer == "" {
		return ""
	}
	return strings.TrimSuffix(n.Explorer, "/") + "/address/" + address
}

// TxURL returns the explorer link for a transaction, or "" without an explorer.
func (n *Network) TxURL(hash string) string {
	if n.Explorer == "" {
		return ""
	}
	return strings.TrimSuffix(n.Explorer, "/") + "/tx/" + hash
}
