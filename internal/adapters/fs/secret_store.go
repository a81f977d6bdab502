package fs

import (
	"context"

	internalconfig "github.com/greenhaze-labs/hazedeploy/internal/config"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

// SecretStoreAdapter moves key material out of hazedeploy.toml into .env
type SecretStoreAdapter struct {
	projectRoot string
}

// NewSecretStoreAdapter creates a new SecretStoreAdapter
func NewSecretStoreAdapter(cfg *config.RuntimeConfig) *SecretStoreAdapter {
	return &SecretStoreAdapter{projectRoot: cfg.ProjectRoot}
}

func (s *SecretStoreAdapter) FindInlineSecrets(ctx context.Context) ([]config.InlineSecret, error) {
	return internalconfig.FindInlineSecrets(s.projectRoot)
}

func (s *SecretStoreAdapter) MigrateInlineSecret(ctx context.Context, secret config.InlineSecret) error {
	return internalconfig.MigrateInlineSecret(s.projectRoot, secret)
}

var _ usecase.SecretStore = (*SecretStoreAdapter)(nil)
