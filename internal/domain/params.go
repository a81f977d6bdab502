package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var hexAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// InitParams are the initializer arguments of the GreenHaze contract,
// passed to the initializer in declaration order.
type InitParams struct {
	Owner         string `json:"owner" yaml:"owner" toml:"owner"`
	Router        string `json:"router" yaml:"router" toml:"router"`
	Stablecoin    string `json:"stablecoin" yaml:"stablecoin" toml:"stablecoin"`
	WrappedNative string `json:"wrappedNative" yaml:"wrappedNative" toml:"wrapped_native"`
}

// Fields returns the parameters as ordered name/value pairs.
func (p InitParams) Fields() [][2]string {
	return [][2]string{
		{"owner", p.Owner},
		{"router", p.Router},
		{"stablecoin", p.Stablecoin},
		{"wrapped_native", p.WrappedNative},
	}
}

// Validate checks that every parameter is a well-formed, non-zero account address.
func (p InitParams) Validate() error {
	for _, f := range p.Fields() {
		if err := ValidateAddress(f[1]); err != nil {
			return fmt.Errorf("%s: %w", f[0], err)
		}
	}
	return nil
}

// Args returns the parameters as initializer arguments.
// Callers must Validate first.
func (p InitParams) Args() []any {
	return []any{
		common.HexToAddress(p.Owner),
		common.HexToAddress(p.Router),
		common.HexToAddress(p.Stablecoin),
		common.HexToAddress(p.WrappedNative),
	}
}

// Merge returns p with empty fields filled from other.
func (p InitParams) Merge(other InitParams) InitParams {
	if p.Owner == "" {
		p.Owner = other.Owner
	}
	if p.Router == "" {
		p.Router = other.Router
	}
	if p.Stablecoin == "" {
		p.Stablecoin = other.Stablecoin
	}
	if p.WrappedNative == "" {
		p.WrappedNative = other.WrappedNative
	}
	return p
}

// ValidateAddress checks that s is a 0x-prefixed 20-byte hex address.
// All-lowercase and all-uppercase forms are accepted as is; mixed case must
// carry a valid EIP-55 checksum. The zero address is rejected.
func ValidateAddress(s string) error {
	if !hexAddressPattern.MatchString(s) {
		return fmt.Errorf("%w: %q is not a 0x-prefixed 40 hex digit address", ErrInvalidAddress, s)
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return fmt.Errorf("%w: zero address", ErrInvalidAddress)
	}
	body := s[2:]
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && addr.Hex() != s {
		return fmt.Errorf("%w: %q has an invalid checksum (expected %s)", ErrInvalidAddress, s, addr.Hex())
	}
	return nil
}
