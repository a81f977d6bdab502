package network

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/greenhaze-labs/hazedeploy/internal/config"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	domainconfig "github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/sahilm/fuzzy"
)

const chainIDTimeout = 10 * time.Second

// Resolver resolves configured network names to network descriptors.
// Networks without a chain_id get it from the node, once per RPC URL.
type Resolver struct {
	networks map[string]domainconfig.NetworkConfig
	log      *slog.Logger

	mu       sync.Mutex
	chainIDs map[string]uint64 // rpcURL -> chainID
}

// NewResolver creates a new network resolver
func NewResolver(cfg *domainconfig.RuntimeConfig, log *slog.Logger) *Resolver {
	return &Resolver{
		networks: cfg.Project.Networks,
		log:      log.With("component", "network"),
		chainIDs: make(map[string]uint64),
	}
}

// GetNetworks returns the configured network names, sorted
func (r *Resolver) GetNetworks(ctx context.Context) []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveNetwork resolves a network by name
func (r *Resolver) ResolveNetwork(ctx context.Context, name string) (*domain.Network, error) {
	if name == "" {
		return nil, fmt.Errorf("network not specified")
	}

	nc, ok := r.networks[name]
	if !ok {
		return nil, domain.UnknownNetworkErr{Name: name, Suggestions: r.suggest(name)}
	}

	if nc.URL == "" {
		return nil, fmt.Errorf("network %s has no url configured", name)
	}
	u, err := url.Parse(nc.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("network %s: invalid url %q", name, nc.URL)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("network %s: unsupported url scheme %q", name, u.Scheme)
	}

	chainID := nc.ChainID
	if chainID == 0 {
		chainID, err = r.fetchChainID(ctx, nc.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", name, err)
		}
	}

	network := &domain.Network{
		Name:                       name,
		ChainID:                    chainID,
		RPCURL:                     nc.URL,
		AllowUnlimitedContractSize: nc.AllowUnlimitedContractSize,
		Explorer:                   nc.Explorer,
	}
	if network.Explorer == "" {
		network.Explorer = explorerURL(chainID)
	}

	for _, account := range nc.Accounts {
		envVar, ok := config.DetectEnvVar(account)
		if !ok {
			return nil, config.CheckAccountReference(name, account)
		}
		network.AccountEnv = append(network.AccountEnv, envVar)
	}

	return network, nil
}

// fetchChainID asks the node for its chain ID
func (r *Resolver) fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chainID, ok := r.chainIDs[rpcURL]; ok {
		return chainID, nil
	}

	ctx, cancel := context.WithTimeout(ctx, chainIDTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	var result hexutil.Uint64
	if err := client.CallContext(ctx, &result, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("eth_chainId: %w", err)
	}
	if result == 0 {
		return 0, domain.ErrInvalidChainID
	}

	r.log.Debug("fetched chain id", "url", rpcURL, "chain_id", uint64(result))
	r.chainIDs[rpcURL] = uint64(result)
	return uint64(result), nil
}

func (r *Resolver) suggest(name string) []string {
	var out []string
	for _, m := range fuzzy.Find(name, r.GetNetworks(context.Background())) {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// explorerURL returns a block explorer for well-known chains
func explorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 97:
		return "https://testnet.bscscan.com"
	case 250:
		return "https://ftmscan.com"
	case 42220:
		return "https://celoscan.io"
	default:
		return ""
	}
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*Resolver)(nil)
