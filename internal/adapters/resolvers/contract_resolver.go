package resolvers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// ContractResolver handles contract resolution and selection
type ContractResolver struct {
	config   *config.RuntimeConfig
	repo     usecase.ArtifactRepository
	selector usecase.ContractSelector
	log      *slog.Logger
}

// NewContractResolver creates a new contract resolver
func NewContractResolver(
	cfg *config.RuntimeConfig,
	repo usecase.ArtifactRepository,
	selector usecase.ContractSelector,
	log *slog.Logger,
) *ContractResolver {
	return &ContractResolver{
		config:   cfg,
		repo:     repo,
		selector: selector,
		log:      log.With("component", "resolver"),
	}
}

// ResolveContract resolves "Name" or "source:Name" to a single artifact
func (r *ContractResolver) ResolveContract(ctx context.Context, ref string) (*domain.Artifact, error) {
	artifacts, err := r.repo.FindArtifacts(ctx, ref)
	if err != nil {
		return nil, err
	}

	var artifact *domain.Artifact
	switch {
	case len(artifacts) == 1:
		artifact = artifacts[0]
	case r.selector != nil && !r.config.NonInteractive:
		artifact, err = r.selector.SelectContract(ctx, artifacts, fmt.Sprintf("Multiple contracts found for '%s'. Select one:", ref))
		if err != nil {
			return nil, fmt.Errorf("contract selection failed: %w", err)
		}
	default:
		return nil, domain.AmbiguousContractErr{Ref: ref, Matches: artifacts}
	}

	r.checkCompilerVersion(artifact)
	return artifact, nil
}

// checkCompilerVersion warns when an artifact was built by another solc than configured
func (r *ContractResolver) checkCompilerVersion(artifact *domain.Artifact) {
	want := r.config.Project.Solidity
	if want == "" || artifact.CompilerVersion == "" {
		return
	}
	// solc reports "0.8.20+commit.a1b79de6"
	got, _, _ := strings.Cut(artifact.CompilerVersion, "+")
	if got != want {
		r.log.Warn("artifact compiled with a different solidity version",
			"contract", artifact.QualifiedName(),
			"compiler", got,
			"configured", want,
		)
	}
}

// Ensure the adapter implements the interface
var _ usecase.ContractResolver = (*ContractResolver)(nil)
