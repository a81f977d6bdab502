package blockchain

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
	"github.com/greenhaze-labs/hazedeploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hardhat account #1
const (
	testKey     = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	testAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	testKeyEnv  = "HAZE_TEST_DEPLOYER_KEY"
)

var (
	// returns a one byte runtime (STOP)
	stopInitCode = hexutil.MustDecode("0x6001600c60003960016000f300")

	// stores 0x2a in the EIP-1967 implementation slot, then returns STOP
	slotInitCode = hexutil.MustDecode("0x602a7f" +
		"360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc" +
		"55" + "6001603060003960016000f3" + "00")

	revertInitCode = hexutil.MustDecode("0x60006000fd")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSimulated(t *testing.T) *simulated.Backend {
	t.Helper()
	funds := new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))
	backend := simulated.NewBackend(types.GenesisAlloc{
		common.HexToAddress(testAddress): {Balance: funds},
	})
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func newTestDeployer(t *testing.T, backend *simulated.Backend) *Deployer {
	t.Helper()
	signer, err := NewLocalSigner(testKey, 1337)
	require.NoError(t, err)
	return NewDeployer(backend.Client(), signer, 1, 10*time.Millisecond, discardLogger())
}

func TestNewLocalSigner(t *testing.T) {
	t.Run("with and without prefix", func(t *testing.T) {
		for _, key := range []string{testKey, testKey[2:]} {
			signer, err := NewLocalSigner(key, 97)
			require.NoError(t, err)
			assert.Equal(t, testAddress, signer.Address().Hex())
		}
	})

	t.Run("invalid key does not echo input", func(t *testing.T) {
		_, err := NewLocalSigner("0xnot-a-key", 97)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "not-a-key")
	})
}

func TestSignerFromEnv(t *testing.T) {
	t.Run("reads key from environment", func(t *testing.T) {
		t.Setenv(testKeyEnv, testKey)
		signer, err := SignerFromEnv(&domain.Network{Name: "bscTestnet", ChainID: 97, AccountEnv: []string{testKeyEnv}})
		require.NoError(t, err)
		assert.Equal(t, testAddress, signer.Address().Hex())
	})

	t.Run("no accounts configured", func(t *testing.T) {
		_, err := SignerFromEnv(&domain.Network{Name: "bscTestnet", ChainID: 97})
		assert.ErrorIs(t, err, domain.ErrNoAccounts)
	})

	t.Run("variable not set", func(t *testing.T) {
		t.Setenv(testKeyEnv, "")
		_, err := SignerFromEnv(&domain.Network{Name: "bscTestnet", ChainID: 97, AccountEnv: []string{testKeyEnv}})
		require.ErrorIs(t, err, domain.ErrNoAccounts)
		assert.Contains(t, err.Error(), testKeyEnv)
	})
}

func TestDeployer_SendAndWait(t *testing.T) {
	ctx := context.Background()
	backend := newSimulated(t)
	d := newTestDeployer(t, backend)

	tx, err := d.Send(ctx, stopInitCode)
	require.NoError(t, err)
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	backend.Commit()

	receipt, err := d.Wait(ctx, tx)
	require.NoError(t, err)

	want := crypto.CreateAddress(common.HexToAddress(testAddress), 0)
	assert.Equal(t, want.Hex(), receipt.ContractAddress)
	assert.Equal(t, tx.Hash().Hex(), receipt.TxHash)
	assert.Equal(t, uint64(1), receipt.BlockNumber)
	assert.NotZero(t, receipt.GasUsed)
}

func TestDeployer_WaitsForConfirmations(t *testing.T) {
	ctx := context.Background()
	backend := newSimulated(t)
	d := newTestDeployer(t, backend)
	d.confirmations = 3

	tx, err := d.Send(ctx, stopInitCode)
	require.NoError(t, err)
	backend.Commit()

	done := make(chan error, 1)
	go func() {
		_, err := d.Wait(ctx, tx)
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("returned before confirmations: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	backend.Commit()
	backend.Commit()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for confirmations")
	}
}

func TestDeployer_RevertingConstructor(t *testing.T) {
	backend := newSimulated(t)
	d := newTestDeployer(t, backend)

	_, err := d.Send(context.Background(), revertInitCode)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estimate gas")
}

func TestConnector_Session(t *testing.T) {
	ctx := context.Background()
	backend := newSimulated(t)
	t.Setenv(testKeyEnv, testKey)

	connector := NewConnectorWithDialer(func(ctx context.Context, rpcURL string) (Backend, func(), error) {
		return backend.Client(), func() {}, nil
	}, discardLogger())

	network := &domain.Network{Name: "sim", ChainID: 1337, RPCURL: "http://127.0.0.1:8545", AccountEnv: []string{testKeyEnv}}

	t.Run("chain id mismatch", func(t *testing.T) {
		wrong := *network
		wrong.ChainID = 97
		_, err := connector.Connect(ctx, &wrong, usecase.SessionOptions{})
		assert.ErrorIs(t, err, domain.ErrChainIDMismatch)
	})

	session, err := connector.Connect(ctx, network, usecase.SessionOptions{Confirmations: 1})
	require.NoError(t, err)
	defer session.Close()

	assert.Equal(t, uint64(1337), session.ChainID())
	assert.Equal(t, testAddress, session.Sender().Hex())

	balance, err := session.Balance(ctx)
	require.NoError(t, err)
	assert.Positive(t, balance.Sign())

	predicted, err := session.PredictAddresses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, predicted, 2)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()

	receipt, err := session.Deploy(ctx, "slot writer", slotInitCode)
	require.NoError(t, err)
	assert.Equal(t, predicted[0].Hex(), receipt.ContractAddress)

	addr := common.HexToAddress(receipt.ContractAddress)
	hasCode, err := session.HasCode(ctx, addr)
	require.NoError(t, err)
	assert.True(t, hasCode)

	word, err := session.StorageAt(ctx, addr, domain.ImplementationSlot)
	require.NoError(t, err)
	assert.Equal(t, common.BigToHash(big.NewInt(0x2a)), word)

	empty, err := session.HasCode(ctx, predicted[1])
	require.NoError(t, err)
	assert.False(t, empty)
}
