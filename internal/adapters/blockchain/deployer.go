package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
)

// Backend is the part of an Ethereum client a deployment needs.
// *ethclient.Client and simulated.Client both satisfy it.
type Backend interface {
	ethereum.ChainIDReader
	ethereum.BlockNumberReader
	ethereum.GasEstimator
	ethereum.GasPricer
	ethereum.GasPricer1559
	ethereum.TransactionSender
	ethereum.TransactionReader
	ethereum.ChainStateReader

	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// gasBufferPercent is added on top of the node's gas estimate
const gasBufferPercent = 20

// Deployer sends contract creation transactions and waits for them
type Deployer struct {
	backend       Backend
	signer        *LocalSigner
	confirmations uint64
	pollInterval  time.Duration
	log           *slog.Logger
}

// NewDeployer creates a deployer for one account
func NewDeployer(backend Backend, signer *LocalSigner, confirmations uint64, pollInterval time.Duration, log *slog.Logger) *Deployer {
	if confirmations == 0 {
		confirmations = 1
	}
	return &Deployer{
		backend:       backend,
		signer:        signer,
		confirmations: confirmations,
		pollInterval:  pollInterval,
		log:           log,
	}
}

// Send builds, signs and broadcasts a contract creation
func (d *Deployer) Send(ctx context.Context, code []byte) (*types.Transaction, error) {
	from := d.signer.Address()

	nonce, err := d.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}

	gasLimit, err := d.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		Data: code,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}
	gasLimit = gasLimit * (100 + gasBufferPercent) / 100

	txData, err := d.txData(ctx, nonce, gasLimit, code)
	if err != nil {
		return nil, err
	}

	signedTx, err := d.signer.SignTx(types.NewTx(txData))
	if err != nil {
		return nil, err
	}

	if err := d.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	d.log.Info("transaction submitted",
		slog.String("tx_hash", signedTx.Hash().Hex()),
		slog.Uint64("nonce", nonce),
		slog.Uint64("gas_limit", gasLimit),
	)
	return signedTx, nil
}

// txData picks a dynamic fee transaction when the chain reports a base fee
func (d *Deployer) txData(ctx context.Context, nonce, gasLimit uint64, code []byte) (types.TxData, error) {
	head, err := d.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get latest header: %w", err)
	}

	if head.BaseFee != nil {
		tip, err := d.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("get gas tip cap: %w", err)
		}
		feeCap := new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)
		return &types.DynamicFeeTx{
			ChainID:   d.signer.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gasLimit,
			Data:      code,
		}, nil
	}

	gasPrice, err := d.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("get gas price: %w", err)
	}
	return &types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		Data:     code,
	}, nil
}

// Wait blocks until tx is mined, checks it succeeded, waits for the configured
// confirmations and checks that code exists at the created address.
func (d *Deployer) Wait(ctx context.Context, tx *types.Transaction) (*domain.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, d.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for receipt of %s: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: tx %s in block %d", domain.ErrDeploymentReverted, tx.Hash().Hex(), receipt.BlockNumber.Uint64())
	}

	if err := d.waitConfirmations(ctx, receipt.BlockNumber.Uint64()); err != nil {
		return nil, err
	}

	code, err := d.backend.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("check code at %s: %w", receipt.ContractAddress.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: no code at %s", domain.ErrDeploymentReverted, receipt.ContractAddress.Hex())
	}

	d.log.Info("transaction confirmed",
		slog.String("tx_hash", tx.Hash().Hex()),
		slog.String("contract", receipt.ContractAddress.Hex()),
		slog.Uint64("block_number", receipt.BlockNumber.Uint64()),
		slog.Uint64("gas_used", receipt.GasUsed),
	)

	return &domain.Receipt{
		TxHash:          tx.Hash().Hex(),
		ContractAddress: receipt.ContractAddress.Hex(),
		BlockNumber:     receipt.BlockNumber.Uint64(),
		GasUsed:         receipt.GasUsed,
	}, nil
}

// waitConfirmations polls until minedIn is buried under enough blocks
func (d *Deployer) waitConfirmations(ctx context.Context, minedIn uint64) error {
	target := minedIn + d.confirmations - 1

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		head, err := d.backend.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get block number: %w", err)
		}
		if head >= target {
			return nil
		}

		d.log.Debug("waiting for confirmations", "head", head, "target", target)

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %d confirmations: %w", d.confirmations, ctx.Err())
		case <-ticker.C:
		}
	}
}
