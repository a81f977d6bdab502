package domain

import (
	"encoding/json"
	"time"
)

// ImplementationRecord is a deployed implementation contract
type ImplementationRecord struct {
	Address      string    `json:"address" yaml:"address"`
	TxHash       string    `json:"txHash" yaml:"txHash"`
	Contract     string    `json:"contract,omitempty" yaml:"contract"`
	BytecodeHash string    `json:"bytecodeHash,omitempty" yaml:"bytecodeHash"`
	DeployedAt   time.Time `json:"deployedAt,omitzero" yaml:"deployedAt"`

	// Extra holds fields written by other tools, such as storage layouts.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// ProxyRecord is a deployed proxy contract
type ProxyRecord struct {
	Address        string    `json:"address" yaml:"address"`
	TxHash         string    `json:"txHash" yaml:"txHash"`
	Kind           ProxyKind `json:"kind" yaml:"kind"`
	Contract       string    `json:"contract,omitempty" yaml:"contract"`
	Implementation string    `json:"implementation,omitempty" yaml:"implementation"`
	Admin          string    `json:"admin,omitempty" yaml:"admin,omitempty"`
	RunID          string    `json:"runId,omitempty" yaml:"runId,omitempty"`
	DeployedAt     time.Time `json:"deployedAt,omitzero" yaml:"deployedAt"`

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// Receipt is the confirmed outcome of a deployment transaction
type Receipt struct {
	TxHash          string `json:"txHash"`
	ContractAddress string `json:"contractAddress"`
	BlockNumber     uint64 `json:"blockNumber"`
	GasUsed         uint64 `json:"gasUsed"`
}

// DeployResult is the outcome of a proxy deployment
type DeployResult struct {
	RunID          string    `json:"runId"`
	Contract       string    `json:"contract"`
	Network        *Network  `json:"network"`
	Kind           ProxyKind `json:"kind"`
	Sender         string    `json:"sender"`
	Proxy          string    `json:"proxy"`
	Implementation string    `json:"implementation"`
	Admin          string    `json:"admin,omitempty"`

	// ImplementationReused is set when a matching implementation was already on chain.
	ImplementationReused bool `json:"implementationReused"`

	ProxyReceipt          *Receipt `json:"proxyReceipt,omitempty"`
	ImplementationReceipt *Receipt `json:"implementationReceipt,omitempty"`

	// DryRun results carry predicted addresses and no receipts.
	DryRun bool `json:"dryRun"`
}
