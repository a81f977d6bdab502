package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
)

// NetworkResolver resolves configured network names
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*domain.Network, error)
}

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	// FindArtifacts returns every artifact matching "Name" or "source:Name"
	FindArtifacts(ctx context.Context, ref string) ([]*domain.Artifact, error)
	ListArtifacts(ctx context.Context) ([]*domain.Artifact, error)
}

// ContractResolver turns a contract reference into exactly one artifact,
// asking the user when the reference is ambiguous
type ContractResolver interface {
	ResolveContract(ctx context.Context, ref string) (*domain.Artifact, error)
}

// ContractSelector handles interactive selection of contracts
type ContractSelector interface {
	SelectContract(ctx context.Context, contracts []*domain.Artifact, prompt string) (*domain.Artifact, error)
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// SessionOptions tune how a chain session waits for transactions
type SessionOptions struct {
	// Confirmations is the number of blocks a deployment must be buried under
	Confirmations uint64
}

// ChainConnector opens signing sessions against a network
type ChainConnector interface {
	Connect(ctx context.Context, network *domain.Network, opts SessionOptions) (ChainSession, error)
}

// ChainSession is a connection to one chain with one deploying account.
type ChainSession interface {
	ChainID() uint64
	Sender() common.Address
	Balance(ctx context.Context) (*big.Int, error)

	// PredictAddresses returns the addresses of the next n contract creations by Sender
	PredictAddresses(ctx context.Context, n int) ([]common.Address, error)

	// Deploy sends a contract creation and waits for it to be confirmed
	Deploy(ctx context.Context, label string, code []byte) (*domain.Receipt, error)

	HasCode(ctx context.Context, address common.Address) (bool, error)
	StorageAt(ctx context.Context, address common.Address, slot common.Hash) (common.Hash, error)

	Close()
}

// ManifestRepository persists deployment records per chain
type ManifestRepository interface {
	Load(ctx context.Context, chainID uint64) (*domain.Manifest, error)
	ListManifests(ctx context.Context) ([]*domain.Manifest, error)

	// FindImplementation returns domain.ErrNotFound when nothing is recorded for the hash
	FindImplementation(ctx context.Context, chainID uint64, bytecodeHash string) (*domain.ImplementationRecord, error)
	SaveImplementation(ctx context.Context, chainID uint64, record *domain.ImplementationRecord) error
	SaveProxy(ctx context.Context, chainID uint64, record *domain.ProxyRecord) error
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// LocalConfigStore persists machine-local settings
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, cfg *config.LocalConfig) error
	GetPath() string
}

// SecretStore finds and relocates key material written in the project file
type SecretStore interface {
	FindInlineSecrets(ctx context.Context) ([]config.InlineSecret, error)
	MigrateInlineSecret(ctx context.Context, secret config.InlineSecret) error
}
