package usecase_test

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/domain/config"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/stretchr/testify/mock"
)

// MockNetworkResolver is a mock implementation of NetworkResolver
type MockNetworkResolver struct {
	mock.Mock
}

func (m *MockNetworkResolver) GetNetworks(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

func (m *MockNetworkResolver) ResolveNetwork(ctx context.Context, name string) (*domain.Network, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Network), args.Error(1)
}

// MockContractResolver is a mock implementation of ContractResolver
type MockContractResolver struct {
	mock.Mock
}

func (m *MockContractResolver) ResolveContract(ctx context.Context, ref string) (*domain.Artifact, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

// MockConnector is a mock implementation of ChainConnector
type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Connect(ctx context.Context, network *domain.Network, opts usecase.SessionOptions) (usecase.ChainSession, error) {
	args := m.Called(ctx, network, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ChainSession), args.Error(1)
}

// MockSession is a mock implementation of ChainSession
type MockSession struct {
	mock.Mock
}

func (m *MockSession) ChainID() uint64 {
	return m.Called().Get(0).(uint64)
}

func (m *MockSession) Sender() common.Address {
	return m.Called().Get(0).(common.Address)
}

func (m *MockSession) Balance(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockSession) PredictAddresses(ctx context.Context, n int) ([]common.Address, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]common.Address), args.Error(1)
}

func (m *MockSession) Deploy(ctx context.Context, label string, code []byte) (*domain.Receipt, error) {
	args := m.Called(ctx, label, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockSession) HasCode(ctx context.Context, address common.Address) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

func (m *MockSession) StorageAt(ctx context.Context, address common.Address, slot common.Hash) (common.Hash, error) {
	args := m.Called(ctx, address, slot)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *MockSession) Close() {
	m.Called()
}

// MockManifests is a mock implementation of ManifestRepository
type MockManifests struct {
	mock.Mock
}

func (m *MockManifests) Load(ctx context.Context, chainID uint64) (*domain.Manifest, error) {
	args := m.Called(ctx, chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Manifest), args.Error(1)
}

func (m *MockManifests) ListManifests(ctx context.Context) ([]*domain.Manifest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Manifest), args.Error(1)
}

func (m *MockManifests) FindImplementation(ctx context.Context, chainID uint64, bytecodeHash string) (*domain.ImplementationRecord, error) {
	args := m.Called(ctx, chainID, bytecodeHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImplementationRecord), args.Error(1)
}

func (m *MockManifests) SaveImplementation(ctx context.Context, chainID uint64, record *domain.ImplementationRecord) error {
	return m.Called(ctx, chainID, record).Error(0)
}

func (m *MockManifests) SaveProxy(ctx context.Context, chainID uint64, record *domain.ProxyRecord) error {
	return m.Called(ctx, chainID, record).Error(0)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockLocalConfigStore is a mock implementation of LocalConfigStore
type MockLocalConfigStore struct {
	mock.Mock
}

func (m *MockLocalConfigStore) Exists() bool {
	return m.Called().Bool(0)
}

func (m *MockLocalConfigStore) Load(ctx context.Context) (*config.LocalConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.LocalConfig), args.Error(1)
}

func (m *MockLocalConfigStore) Save(ctx context.Context, cfg *config.LocalConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockLocalConfigStore) GetPath() string {
	return m.Called().String(0)
}

// MockSecretStore is a mock implementation of SecretStore
type MockSecretStore struct {
	mock.Mock
}

func (m *MockSecretStore) FindInlineSecrets(ctx context.Context) ([]config.InlineSecret, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]config.InlineSecret), args.Error(1)
}

func (m *MockSecretStore) MigrateInlineSecret(ctx context.Context, secret config.InlineSecret) error {
	return m.Called(ctx, secret).Error(0)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {
	m.infos = append(m.infos, message)
}

func (m *MockProgressSink) Error(message string) {}

// stages returns the distinct stage names in order of first appearance
func (m *MockProgressSink) stages() []string {
	var out []string
	for _, e := range m.events {
		if len(out) == 0 || out[len(out)-1] != e.Stage {
			out = append(out, e.Stage)
		}
	}
	return out
}
