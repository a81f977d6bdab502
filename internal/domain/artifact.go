package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MaxCodeSize is the EIP-170 runtime code size limit.
const MaxCodeSize = 24576

// Artifact is a compiled contract ready to be deployed (a "contract factory").
type Artifact struct {
	Name             string
	SourceName       string
	Path             string
	ABI              abi.ABI
	Bytecode         []byte
	DeployedBytecode []byte
	CompilerVersion  string
}

// QualifiedName returns "source:Name".
func (a *Artifact) QualifiedName() string {
	return a.SourceName + ":" + a.Name
}

// DeployedSize returns the runtime code size in bytes.
func (a *Artifact) DeployedSize() int {
	return len(a.DeployedBytecode)
}

// BytecodeHash is the keccak256 of the creation bytecode.
func (a *Artifact) BytecodeHash() common.Hash {
	return crypto.Keccak256Hash(a.Bytecode)
}

// DeployCode returns creation bytecode followed by ABI-encoded constructor arguments.
func (a *Artifact) DeployCode(args ...any) ([]byte, error) {
	packed, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s constructor arguments: %w", a.Name, err)
	}
	code := make([]byte, 0, len(a.Bytecode)+len(packed))
	code = append(code, a.Bytecode...)
	return append(code, packed...), nil
}

// EncodeCall ABI-encodes a call to method, checking that it exists and its arity matches.
func (a *Artifact) EncodeCall(method string, args ...any) ([]byte, error) {
	m, ok := a.ABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %q", ErrInitializerNotFound, a.Name, method)
	}
	if len(m.Inputs) != len(args) {
		return nil, fmt.Errorf("%s.%s expects %d arguments, got %d", a.Name, method, len(m.Inputs), len(args))
	}
	data, err := a.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s.%s: %w", a.Name, method, err)
	}
	return data, nil
}

// HasMethod reports whether the ABI declares a method with that name.
func (a *Artifact) HasMethod(name string) bool {
	_, ok := a.ABI.Methods[name]
	return ok
}
