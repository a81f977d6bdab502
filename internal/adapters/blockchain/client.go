package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
)

const (
	defaultPollInterval = 2 * time.Second
	localPollInterval   = 200 * time.Millisecond
)

// DialFunc opens a backend for an RPC URL. The returned func releases it.
type DialFunc func(ctx context.Context, rpcURL string) (Backend, func(), error)

// Connector opens deployment sessions with ethclient
type Connector struct {
	dial DialFunc
	log  *slog.Logger
}

// NewConnector creates a connector that dials with ethclient
func NewConnector(log *slog.Logger) *Connector {
	return &Connector{dial: dialEthclient, log: log.With("component", "chain")}
}

// NewConnectorWithDialer creates a connector over a custom backend, e.g. a simulated chain
func NewConnectorWithDialer(dial DialFunc, log *slog.Logger) *Connector {
	return &Connector{dial: dial, log: log.With("component", "chain")}
}

func dialEthclient(ctx context.Context, rpcURL string) (Backend, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// Connect dials the network, verifies its chain ID and loads the deploying account
func (c *Connector) Connect(ctx context.Context, network *domain.Network, opts usecase.SessionOptions) (usecase.ChainSession, error) {
	backend, closeFn, err := c.dial(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	nodeChainID, err := backend.ChainID(ctx)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if nodeChainID.Uint64() != network.ChainID {
		closeFn()
		return nil, fmt.Errorf("%w: network %s is configured with %d but the node reports %d",
			domain.ErrChainIDMismatch, network.Name, network.ChainID, nodeChainID.Uint64())
	}

	signer, err := SignerFromEnv(network)
	if err != nil {
		closeFn()
		return nil, err
	}

	poll := defaultPollInterval
	if network.IsLocal() {
		poll = localPollInterval
	}

	log := c.log.With("network", network.Name, "sender", signer.Address().Hex())
	log.Debug("connected", "chain_id", network.ChainID, "confirmations", opts.Confirmations)

	return &Session{
		chainID:  network.ChainID,
		backend:  backend,
		signer:   signer,
		deployer: NewDeployer(backend, signer, opts.Confirmations, poll, log),
		close:    closeFn,
	}, nil
}

// Session is a connected network plus the deploying account
type Session struct {
	chainID  uint64
	backend  Backend
	signer   *LocalSigner
	deployer *Deployer
	close    func()
}

func (s *Session) ChainID() uint64 { return s.chainID }

func (s *Session) Sender() common.Address { return s.signer.Address() }

// Balance returns the sender's balance at the latest block
func (s *Session) Balance(ctx context.Context) (*big.Int, error) {
	return s.backend.BalanceAt(ctx, s.signer.Address(), nil)
}

// PredictAddresses returns the addresses the next n creations by the sender will get
func (s *Session) PredictAddresses(ctx context.Context, n int) ([]common.Address, error) {
	nonce, err := s.backend.PendingNonceAt(ctx, s.signer.Address())
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}
	addrs := make([]common.Address, n)
	for i := range addrs {
		addrs[i] = crypto.CreateAddress(s.signer.Address(), nonce+uint64(i))
	}
	return addrs, nil
}

// Deploy sends a contract creation and waits for it
func (s *Session) Deploy(ctx context.Context, label string, code []byte) (*domain.Receipt, error) {
	tx, err := s.deployer.Send(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", label, err)
	}
	receipt, err := s.deployer.Wait(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", label, err)
	}
	return receipt, nil
}

// HasCode reports whether address holds contract code
func (s *Session) HasCode(ctx context.Context, address common.Address) (bool, error) {
	code, err := s.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("check code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}

// StorageAt reads a storage slot at the latest block
func (s *Session) StorageAt(ctx context.Context, address common.Address, slot common.Hash) (common.Hash, error) {
	word, err := s.backend.StorageAt(ctx, address, slot, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("read slot %s of %s: %w", slot.Hex(), address.Hex(), err)
	}
	return common.BytesToHash(word), nil
}

func (s *Session) Close() {
	if s.close != nil {
		s.close()
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.ChainConnector = (*Connector)(nil)
	_ usecase.ChainSession   = (*Session)(nil)
)
