package usecase

import (
	"context"

	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Currently no parameters, but we keep the struct for future extensibility
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name    string
	ChainID uint64
	RPCURL  string
	Local   bool

	// Accounts are the environment variables the signing key is read from
	Accounts []string

	AllowUnlimitedContractSize bool
	Error                      error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
	current  string
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
		current:  cfg.NetworkName,
	}
}

// Run resolves every configured network. Resolution failures are reported per
// network instead of failing the listing.
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
		} else {
			status.ChainID = info.ChainID
			status.RPCURL = info.RPCURL
			status.Local = info.IsLocal()
			status.Accounts = info.AccountEnv
			status.AllowUnlimitedContractSize = info.AllowUnlimitedContractSize
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
		Current:  uc.current,
	}, nil
}
