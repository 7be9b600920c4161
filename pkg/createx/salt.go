// Package createx mirrors the internal salt handling and address derivation
// of the CreateX deployment factory. Every function here must produce results
// that are bit-identical to the on-chain contract: a deployer predicts an
// address off-chain with this package and the factory must land the contract
// on exactly that address.
package createx

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// SaltLen is the full salt width. Layout:
	// [0:20)  binding address (or all-zero)
	// [20]    cross-chain flag (0x01 enables cross-chain replay protection)
	// [21:32) caller-chosen entropy
	SaltLen = 32

	// EntropyLen is the number of free entropy bytes in a salt.
	EntropyLen = 11

	flagIndex = 20
)

var (
	ErrInvalidSaltLength    = errors.New("createx: salt must be exactly 32 bytes")
	ErrInvalidEntropyLength = errors.New("createx: entropy must be exactly 11 bytes")
)

// Salt is the 32-byte value handed to the factory. The first 21 bytes carry
// redeploy-protection metadata, the rest is entropy.
type Salt [SaltLen]byte

// GuardedSalt is the value the factory actually feeds into CREATE2/CREATE3
// after applying its guard. It is opaque and never decoded again.
type GuardedSalt [SaltLen]byte

// Protection classifies the redeploy protection encoded in a salt.
type Protection uint8

const (
	ProtectionNone Protection = iota
	ProtectionSender
	ProtectionCrossChain
	ProtectionSenderAndCrossChain
)

// String returns the protection name.
func (p Protection) String() string {
	switch p {
	case ProtectionNone:
		return "none"
	case ProtectionSender:
		return "sender"
	case ProtectionCrossChain:
		return "cross-chain"
	case ProtectionSenderAndCrossChain:
		return "sender+cross-chain"
	default:
		return "unknown"
	}
}

// NewSalt builds a salt from its three components. binding may be the zero
// address to leave the salt unbound.
func NewSalt(binding common.Address, crossChain bool, entropy []byte) (Salt, error) {
	if len(entropy) != EntropyLen {
		return Salt{}, fmt.Errorf("%w: got %d", ErrInvalidEntropyLength, len(entropy))
	}
	var s Salt
	copy(s[:flagIndex], binding[:])
	if crossChain {
		s[flagIndex] = 0x01
	}
	copy(s[flagIndex+1:], entropy)
	return s, nil
}

// SaltFromBytes converts a raw byte slice into a Salt.
func SaltFromBytes(b []byte) (Salt, error) {
	if len(b) != SaltLen {
		return Salt{}, fmt.Errorf("%w: got %d", ErrInvalidSaltLength, len(b))
	}
	var s Salt
	copy(s[:], b)
	return s, nil
}

// SaltFromHex parses a 0x-prefixed 64-character hex string into a Salt.
func SaltFromHex(h string) (Salt, error) {
	b, err := hexutil.Decode(h)
	if err != nil {
		return Salt{}, fmt.Errorf("createx: invalid salt hex: %w", err)
	}
	return SaltFromBytes(b)
}

// Protection classifies the salt by its binding bytes and flag byte.
//
// The factory treats any non-zero binding with a flag other than 0x01 as
// sender protection without validating that the flag is exactly 0x00. That
// permissiveness is reproduced here on purpose; tightening it would diverge
// from the deployed contract.
func (s Salt) Protection() Protection {
	crossChain := s[flagIndex] == 0x01
	bound := s.BindingAddress() != (common.Address{})
	switch {
	case bound && crossChain:
		return ProtectionSenderAndCrossChain
	case bound:
		return ProtectionSender
	case crossChain:
		return ProtectionCrossChain
	default:
		return ProtectionNone
	}
}

// BindingAddress returns the address embedded in the first 20 bytes.
func (s Salt) BindingAddress() common.Address {
	return common.BytesToAddress(s[:flagIndex])
}

// Entropy returns the 11 free entropy bytes.
func (s Salt) Entropy() [EntropyLen]byte {
	var e [EntropyLen]byte
	copy(e[:], s[flagIndex+1:])
	return e
}

// ValidForSigner reports whether signer is allowed to deploy with this salt.
// Sender-protected salts require the binding bytes to equal the signer;
// unprotected and purely cross-chain salts are usable by anyone.
func (s Salt) ValidForSigner(signer common.Address) bool {
	switch s.Protection() {
	case ProtectionSender, ProtectionSenderAndCrossChain:
		return bytes.Equal(s[:flagIndex], signer[:])
	default:
		return true
	}
}

// Hex returns the 0x-prefixed hex form of the salt.
func (s Salt) Hex() string {
	return hexutil.Encode(s[:])
}

// Hex returns the 0x-prefixed hex form of the guarded salt.
func (g GuardedSalt) Hex() string {
	return hexutil.Encode(g[:])
}
