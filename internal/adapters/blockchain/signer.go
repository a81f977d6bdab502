package blockchain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/greenhaze-labs/hazedeploy/internal/domain"
)

// LocalSigner signs transactions with a private key held in memory
type LocalSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
}

// NewLocalSigner creates a signer from a hex-encoded private key, with or without 0x.
func NewLocalSigner(hexKey string, chainID uint64) (*LocalSigner, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		// the parse error may quote key material
		return nil, fmt.Errorf("invalid private key")
	}

	return &LocalSigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:    new(big.Int).SetUint64(chainID),
	}, nil
}

// SignerFromEnv builds a signer from the first account variable of a network.
// The key is read from the environment here and nowhere else.
func SignerFromEnv(network *domain.Network) (*LocalSigner, error) {
	if len(network.AccountEnv) == 0 {
		return nil, fmt.Errorf("%w for network %s: add accounts = [\"${DEPLOYER_PRIVATE_KEY}\"] and export the variable",
			domain.ErrNoAccounts, network.Name)
	}

	envVar := network.AccountEnv[0]
	key := os.Getenv(envVar)
	if key == "" {
		return nil, fmt.Errorf("%w: environment variable %s is not set", domain.ErrNoAccounts, envVar)
	}

	signer, err := NewLocalSigner(key, network.ChainID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envVar, err)
	}
	return signer, nil
}

// Address returns the signer's account address
func (s *LocalSigner) Address() common.Address {
	return s.address
}

// SignTx signs a transaction for the signer's chain
func (s *LocalSigner) SignTx(tx *types.Transaction) (*types.Transaction, error) {
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signedTx, nil
}
