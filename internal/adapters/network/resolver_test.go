package network

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newChainIDServer serves eth_chainId with the given value
func newChainIDServer(t *testing.T, chainID uint64, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if req.Method != "eth_chainId" {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"method not found"}}`, req.ID)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"0x%x"}`, req.ID, chainID)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestResolver(networks map[string]config.NetworkConfig) *Resolver {
	cfg := &config.RuntimeConfig{Project: &config.ProjectConfig{Networks: networks}}
	return NewResolver(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolver_ResolveNetwork(t *testing.T) {
	ctx := context.Background()

	r := newTestResolver(map[string]config.NetworkConfig{
		"bscTestnet": {
			ChainID:                    97,
			URL:                        "https://data-seed-prebsc-1-s1.binance.org:8545",
			Accounts:                   []string{"${DEPLOYER_PRIVATE_KEY}"},
			AllowUnlimitedContractSize: true,
		},
		"hardhat": {ChainID: 1337, URL: "http://127.0.0.1:8545"},
		"custom":  {ChainID: 5, URL: "https://rpc.example.org", Explorer: "https://scan.example.org"},
		"nourl":   {ChainID: 5},
		"badurl":  {ChainID: 5, URL: "ftp://example.org"},
	})

	t.Run("configured network", func(t *testing.T) {
		n, err := r.ResolveNetwork(ctx, "bscTestnet")
		require.NoError(t, err)

		assert.Equal(t, "bscTestnet", n.Name)
		assert.Equal(t, uint64(97), n.ChainID)
		assert.True(t, n.AllowUnlimitedContractSize)
		assert.Equal(t, []string{"DEPLOYER_PRIVATE_KEY"}, n.AccountEnv)
		assert.Equal(t, "https://testnet.bscscan.com", n.Explorer)
		assert.False(t, n.IsLocal())
	})

	t.Run("local network", func(t *testing.T) {
		n, err := r.ResolveNetwork(ctx, "hardhat")
		require.NoError(t, err)
		assert.True(t, n.IsLocal())
		assert.Empty(t, n.Explorer)
		assert.Empty(t, n.AccountEnv)
	})

	t.Run("configured explorer wins", func(t *testing.T) {
		n, err := r.ResolveNetwork(ctx, "custom")
		require.NoError(t, err)
		assert.Equal(t, "https://scan.example.org", n.Explorer)
	})

	t.Run("unknown network suggests names", func(t *testing.T) {
		_, err := r.ResolveNetwork(ctx, "bscTest")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNetworkNotFound)

		var unknown domain.UnknownNetworkErr
		require.ErrorAs(t, err, &unknown)
		assert.Contains(t, unknown.Suggestions, "bscTestnet")
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := r.ResolveNetwork(ctx, "nourl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no url")
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := r.ResolveNetwork(ctx, "badurl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported url scheme")
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := r.ResolveNetwork(ctx, "")
		assert.Error(t, err)
	})
}

func TestResolver_FetchesMissingChainID(t *testing.T) {
	var calls int32
	srv := newChainIDServer(t, 97, &calls)

	r := newTestResolver(map[string]config.NetworkConfig{
		"bsc-a": {URL: srv.URL},
		"bsc-b": {URL: srv.URL},
	})

	a, err := r.ResolveNetwork(context.Background(), "bsc-a")
	require.NoError(t, err)
	assert.Equal(t, uint64(97), a.ChainID)

	b, err := r.ResolveNetwork(context.Background(), "bsc-b")
	require.NoError(t, err)
	assert.Equal(t, uint64(97), b.ChainID)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "chain id is cached per url")
}

func TestResolver_GetNetworks(t *testing.T) {
	r := newTestResolver(map[string]config.NetworkConfig{
		"hardhat":    {},
		"bscTestnet": {},
	})
	assert.Equal(t, []string{"bscTestnet", "hardhat"}, r.GetNetworks(context.Background()))
}
