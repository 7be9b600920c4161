package createx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// DefaultChainID is used when no live network context is available. It is the
// chain id of the standard local development networks (anvil, hardhat).
const DefaultChainID = 31337

var (
	bytes32Type = mustABIType("bytes32")
	addressType = mustABIType("address")
	uint256Type = mustABIType("uint256")

	// keccak256(abi.encode(salt)) input for unprotected salts.
	plainSaltArgs = abi.Arguments{{Type: bytes32Type}}
	// keccak256(abi.encode(signer, chainid, salt)) input for fully
	// protected salts.
	fullGuardArgs = abi.Arguments{{Type: addressType}, {Type: uint256Type}, {Type: bytes32Type}}
)

func mustABIType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic("createx: abi type " + t + ": " + err.Error())
	}
	return typ
}

// Guard maps a user salt to the salt the factory actually uses for address
// derivation, branching on the salt's protection class exactly like the
// on-chain guard. A nil chainID falls back to DefaultChainID.
//
// The four branches deliberately mix abi.encode and raw concatenation: that is
// what the contract does, and the two encodings are not interchangeable for
// the sender and cross-chain branches.
func Guard(s Salt, signer common.Address, chainID *big.Int) GuardedSalt {
	if chainID == nil {
		chainID = big.NewInt(DefaultChainID)
	}
	switch s.Protection() {
	case ProtectionSender:
		// keccak256(pad32(signer) || salt), hashed as a raw 64-byte blob.
		var buf [64]byte
		copy(buf[12:32], signer[:])
		copy(buf[32:], s[:])
		return GuardedSalt(crypto.Keccak256Hash(buf[:]))

	case ProtectionCrossChain:
		// keccak256(uint256(chainid) || salt), tightly packed.
		var buf [64]byte
		id := uint256.MustFromBig(chainID).Bytes32()
		copy(buf[:32], id[:])
		copy(buf[32:], s[:])
		return GuardedSalt(crypto.Keccak256Hash(buf[:]))

	case ProtectionSenderAndCrossChain:
		enc, err := fullGuardArgs.Pack(signer, chainID, [32]byte(s))
		if err != nil {
			panic("createx: abi encode guard input: " + err.Error())
		}
		return GuardedSalt(crypto.Keccak256Hash(enc))

	default:
		enc, err := plainSaltArgs.Pack([32]byte(s))
		if err != nil {
			panic("createx: abi encode salt: " + err.Error())
		}
		return GuardedSalt(crypto.Keccak256Hash(enc))
	}
}
