package usecase

import (
	"context"
	"fmt"

	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
)

// MigrateSecretsParams contains parameters for migrating secrets
type MigrateSecretsParams struct {
	// DryRun lists what would move without touching any file
	DryRun bool
}

// MigrateSecretsResult lists the keys moved to .env
type MigrateSecretsResult struct {
	Secrets []config.InlineSecret
	DryRun  bool
}

// MigrateSecrets replaces private keys written in hazedeploy.toml with ${VAR}
// references and stores the keys in .env
type MigrateSecrets struct {
	store SecretStore
	sink  ProgressSink
}

// NewMigrateSecrets creates a new MigrateSecrets use case
func NewMigrateSecrets(store SecretStore, sink ProgressSink) *MigrateSecrets {
	return &MigrateSecrets{
		store: store,
		sink:  sink,
	}
}

// Run executes the migrate secrets use case
func (uc *MigrateSecrets) Run(ctx context.Context, params MigrateSecretsParams) (*MigrateSecretsResult, error) {
	secrets, err := uc.store.FindInlineSecrets(ctx)
	if err != nil {
		return nil, err
	}

	result := &MigrateSecretsResult{Secrets: secrets, DryRun: params.DryRun}
	if params.DryRun {
		return result, nil
	}

	for _, secret := range secrets {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "migrating",
			Message: fmt.Sprintf("Moving %s account to %s", secret.Network, secret.EnvVar),
			Spinner: true,
		})
		if err := uc.store.MigrateInlineSecret(ctx, secret); err != nil {
			return nil, fmt.Errorf("network %s: %w", secret.Network, err)
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete"})
	return result, nil
}
