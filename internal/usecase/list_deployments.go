package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/samber/lo"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// Network limits the listing to one configured network
	Network string
	// Contract matches the contract name or its "source:Name" form
	Contract string
}

// DeploymentEntry is one proxy recorded in a manifest
type DeploymentEntry struct {
	ChainID uint64
	Proxy   *domain.ProxyRecord
}

// DeploymentSummary counts what a listing covers
type DeploymentSummary struct {
	Total           int
	Implementations int
	ByChain         map[uint64]int
	ByKind          map[domain.ProxyKind]int
}

// DeploymentListResult is the outcome of ListDeployments
type DeploymentListResult struct {
	Deployments []DeploymentEntry
	Summary     DeploymentSummary
}

// ListDeployments is the use case for listing recorded proxies
type ListDeployments struct {
	networks  NetworkResolver
	manifests ManifestRepository
	sink      ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(networks NetworkResolver, manifests ManifestRepository, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		networks:  networks,
		manifests: manifests,
		sink:      sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from manifests",
		Spinner: true,
	})

	var manifests []*domain.Manifest
	if params.Network != "" {
		network, err := uc.networks.ResolveNetwork(ctx, params.Network)
		if err != nil {
			return nil, err
		}
		manifest, err := uc.manifests.Load(ctx, network.ChainID)
		if err != nil {
			return nil, err
		}
		manifests = []*domain.Manifest{manifest}
	} else {
		var err error
		manifests, err = uc.manifests.ListManifests(ctx)
		if err != nil {
			return nil, err
		}
	}

	var entries []DeploymentEntry
	implementations := 0
	for _, manifest := range manifests {
		implementations += len(manifest.Implementations)
		for _, proxy := range manifest.Proxies {
			entries = append(entries, DeploymentEntry{ChainID: manifest.ChainID, Proxy: proxy})
		}
	}

	if params.Contract != "" {
		entries = lo.Filter(entries, func(e DeploymentEntry, _ int) bool {
			return matchesContract(e.Proxy.Contract, params.Contract)
		})
	}

	sortDeployments(entries)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: entries,
		Summary:     calculateSummary(entries, implementations),
	}, nil
}

// matchesContract compares against "source:Name" and the bare name
func matchesContract(qualified, filter string) bool {
	if strings.EqualFold(qualified, filter) {
		return true
	}
	if i := strings.LastIndex(qualified, ":"); i >= 0 {
		return strings.EqualFold(qualified[i+1:], filter)
	}
	return false
}

// sortDeployments orders by chain, then newest first
func sortDeployments(entries []DeploymentEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ChainID != entries[j].ChainID {
			return entries[i].ChainID < entries[j].ChainID
		}
		return entries[i].Proxy.DeployedAt.After(entries[j].Proxy.DeployedAt)
	})
}

func calculateSummary(entries []DeploymentEntry, implementations int) DeploymentSummary {
	return DeploymentSummary{
		Total:           len(entries),
		Implementations: implementations,
		ByChain: lo.CountValuesBy(entries, func(e DeploymentEntry) uint64 {
			return e.ChainID
		}),
		ByKind: lo.CountValuesBy(entries, func(e DeploymentEntry) domain.ProxyKind {
			return e.Proxy.Kind
		}),
	}
}
