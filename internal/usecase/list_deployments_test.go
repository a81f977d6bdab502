package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListDeployments(t *testing.T) {
	ctx := context.Background()
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	testnet := &domain.Manifest{
		ChainID:         97,
		Implementations: map[string]*domain.ImplementationRecord{"0x01": {}, "0x02": {}},
		Proxies: []*domain.ProxyRecord{
			{Address: "0x1111111111111111111111111111111111111111", Contract: "contracts/GreenHaze.sol:GreenHaze", Kind: domain.ProxyKindTransparent, DeployedAt: older},
			{Address: "0x2222222222222222222222222222222222222222", Contract: "contracts/GreenHaze.sol:GreenHaze", Kind: domain.ProxyKindUUPS, DeployedAt: newer},
		},
	}
	local := &domain.Manifest{
		ChainID:         1337,
		Implementations: map[string]*domain.ImplementationRecord{"0x03": {}},
		Proxies: []*domain.ProxyRecord{
			{Address: "0x3333333333333333333333333333333333333333", Contract: "contracts/Vault.sol:Vault", Kind: domain.ProxyKindTransparent, DeployedAt: older},
		},
	}

	t.Run("list all deployments", func(t *testing.T) {
		manifests := new(MockManifests)
		manifests.On("ListManifests", ctx).Return([]*domain.Manifest{testnet, local}, nil)
		sink := &MockProgressSink{}

		uc := usecase.NewListDeployments(new(MockNetworkResolver), manifests, sink)
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{})
		require.NoError(t, err)

		require.Len(t, result.Deployments, 3)
		// chain ascending, newest first within a chain
		assert.Equal(t, "0x2222222222222222222222222222222222222222", result.Deployments[0].Proxy.Address)
		assert.Equal(t, "0x1111111111111111111111111111111111111111", result.Deployments[1].Proxy.Address)
		assert.Equal(t, uint64(1337), result.Deployments[2].ChainID)

		assert.Equal(t, 3, result.Summary.Total)
		assert.Equal(t, 3, result.Summary.Implementations)
		assert.Equal(t, map[uint64]int{97: 2, 1337: 1}, result.Summary.ByChain)
		assert.Equal(t, 2, result.Summary.ByKind[domain.ProxyKindTransparent])
		assert.Len(t, sink.events, 2)
	})

	t.Run("filter by contract name", func(t *testing.T) {
		manifests := new(MockManifests)
		manifests.On("ListManifests", ctx).Return([]*domain.Manifest{testnet, local}, nil)

		uc := usecase.NewListDeployments(new(MockNetworkResolver), manifests, &MockProgressSink{})
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{Contract: "vault"})
		require.NoError(t, err)
		require.Len(t, result.Deployments, 1)
		assert.Equal(t, "contracts/Vault.sol:Vault", result.Deployments[0].Proxy.Contract)
	})

	t.Run("single network", func(t *testing.T) {
		networks := new(MockNetworkResolver)
		networks.On("ResolveNetwork", ctx, "bscTestnet").Return(&domain.Network{Name: "bscTestnet", ChainID: 97}, nil)
		manifests := new(MockManifests)
		manifests.On("Load", ctx, uint64(97)).Return(testnet, nil)

		uc := usecase.NewListDeployments(networks, manifests, &MockProgressSink{})
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{Network: "bscTestnet"})
		require.NoError(t, err)
		assert.Len(t, result.Deployments, 2)
		manifests.AssertNotCalled(t, "ListManifests", mock.Anything)
	})

	t.Run("no manifests", func(t *testing.T) {
		manifests := new(MockManifests)
		manifests.On("ListManifests", ctx).Return(nil, nil)

		uc := usecase.NewListDeployments(new(MockNetworkResolver), manifests, &MockProgressSink{})
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{})
		require.NoError(t, err)
		assert.Empty(t, result.Deployments)
		assert.Equal(t, 0, result.Summary.Total)
	})

	t.Run("store error", func(t *testing.T) {
		manifests := new(MockManifests)
		manifests.On("ListManifests", ctx).Return(nil, errors.New("disk error"))

		uc := usecase.NewListDeployments(new(MockNetworkResolver), manifests, &MockProgressSink{})
		_, err := uc.Run(ctx, usecase.ListDeploymentsParams{})
		assert.EqualError(t, err, "disk error")
	})
}
