package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an account address is malformed
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrChainIDMismatch is returned when the node reports a different chain than configured
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrNetworkNotFound is returned when a network name is not configured
	ErrNetworkNotFound = errors.New("network not found")

	// ErrContractNotFound is returned when a contract artifact can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrContractTooLarge is returned when runtime code exceeds the EIP-170 limit
	ErrContractTooLarge = errors.New("contract code size exceeds limit")

	// ErrInlineSecret is returned when credential material is written directly in the config file
	ErrInlineSecret = errors.New("inline secret in configuration")

	// ErrNoAccounts is returned when a network has no signing account configured
	ErrNoAccounts = errors.New("no deployment account configured")

	// ErrDeploymentReverted is returned when a deployment transaction fails on chain
	ErrDeploymentReverted = errors.New("deployment transaction reverted")

	// ErrInitializerNotFound is returned when the implementation ABI lacks the initializer
	ErrInitializerNotFound = errors.New("initializer not found")

	// ErrAborted is returned when the user declines a broadcast
	ErrAborted = errors.New("deployment aborted")
)

// NoContractsMatchErr is returned when no artifact matches a contract reference.
type NoContractsMatchErr struct {
	Ref         string
	Suggestions []string
}

func (e NoContractsMatchErr) Error() string {
	msg := fmt.Sprintf("no contracts match %q", e.Ref)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e NoContractsMatchErr) Unwrap() error { return ErrContractNotFound }

// AmbiguousContractErr is returned when more than one artifact matches a bare name.
type AmbiguousContractErr struct {
	Ref     string
	Matches []*Artifact
}

func (e AmbiguousContractErr) Error() string {
	sorted := make([]*Artifact, len(e.Matches))
	copy(sorted, e.Matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].QualifiedName() < sorted[j].QualifiedName()
	})

	var suggestions []string
	for _, a := range sorted {
		suggestions = append(suggestions, fmt.Sprintf("  - %s (%s)", a.Name, a.SourceName))
	}

	return fmt.Sprintf("multiple contracts found matching %q - use source:name format to disambiguate:\n%s",
		e.Ref, strings.Join(suggestions, "\n"))
}

// UnknownNetworkErr is returned when a network name is not configured.
type UnknownNetworkErr struct {
	Name        string
	Suggestions []string
}

func (e UnknownNetworkErr) Error() string {
	msg := fmt.Sprintf("network '%s' is not configured", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e UnknownNetworkErr) Unwrap() error { return ErrNetworkNotFound }

// ContractTooLargeErr carries the offending size for ErrContractTooLarge.
type ContractTooLargeErr struct {
	Contract string
	Size     int
	Limit    int
}

func (e ContractTooLargeErr) Error() string {
	return fmt.Sprintf("%s runtime code is %d bytes, limit is %d (set allow_unlimited_contract_size on the network to override)",
		e.Contract, e.Size, e.Limit)
}

func (e ContractTooLargeErr) Unwrap() error { return ErrContractTooLarge }
