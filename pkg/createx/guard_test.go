package createx

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// Each guard branch is checked against an independently constructed keccak
// input, so a regression in either the branch selection or the encoding shows
// up as a mismatch.

func mustSalt(t *testing.T, binding common.Address, crossChain bool, entropy []byte) Salt {
	t.Helper()
	s, err := NewSalt(binding, crossChain, entropy)
	require.NoError(t, err)
	return s
}

func TestGuardUnprotected(t *testing.T) {
	s := mustSalt(t, common.Address{}, false, []byte("entropy-11b"))

	// abi.encode of a lone bytes32 is the bytes32 itself.
	want := crypto.Keccak256Hash(s[:])
	got := Guard(s, testSigner, big.NewInt(1))
	require.Equal(t, want[:], got[:])

	// Signer and chain id must not influence the unprotected branch.
	other := Guard(s, common.Address{}, big.NewInt(999))
	require.Equal(t, got, other)
}

func TestGuardSenderProtected(t *testing.T) {
	s := mustSalt(t, testSigner, false, []byte("entropy-11b"))

	input := append(common.LeftPadBytes(testSigner.Bytes(), 32), s[:]...)
	want := crypto.Keccak256Hash(input)
	got := Guard(s, testSigner, big.NewInt(1))
	require.Equal(t, want[:], got[:])

	// Chain id is not part of the sender-only guard.
	require.Equal(t, got, Guard(s, testSigner, big.NewInt(10)))

	// A different signer changes the guard.
	other := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	require.NotEqual(t, got, Guard(s, other, big.NewInt(1)))
}

func TestGuardCrossChainProtected(t *testing.T) {
	s := mustSalt(t, common.Address{}, true, []byte("entropy-11b"))
	chainID := big.NewInt(42161)

	input := append(common.LeftPadBytes(chainID.Bytes(), 32), s[:]...)
	want := crypto.Keccak256Hash(input)
	got := Guard(s, testSigner, chainID)
	require.Equal(t, want[:], got[:])

	// Signer is not part of the cross-chain-only guard.
	require.Equal(t, got, Guard(s, common.Address{}, chainID))

	// Chain id is.
	require.NotEqual(t, got, Guard(s, testSigner, big.NewInt(1)))
}

func TestGuardSenderAndCrossChainProtected(t *testing.T) {
	s := mustSalt(t, testSigner, true, []byte("entropy-11b"))
	chainID := big.NewInt(8453)

	// abi.encode(address, uint256, bytes32) is three left-padded words.
	input := make([]byte, 0, 96)
	input = append(input, common.LeftPadBytes(testSigner.Bytes(), 32)...)
	input = append(input, common.LeftPadBytes(chainID.Bytes(), 32)...)
	input = append(input, s[:]...)
	want := crypto.Keccak256Hash(input)

	got := Guard(s, testSigner, chainID)
	require.Equal(t, want[:], got[:])
}

func TestGuardDefaultChainID(t *testing.T) {
	s := mustSalt(t, testSigner, true, []byte("entropy-11b"))

	require.Equal(t,
		Guard(s, testSigner, big.NewInt(DefaultChainID)),
		Guard(s, testSigner, nil))
}

func TestGuardDeterminism(t *testing.T) {
	s := mustSalt(t, testSigner, true, []byte("entropy-11b"))
	chainID := big.NewInt(1)

	require.Equal(t, Guard(s, testSigner, chainID), Guard(s, testSigner, chainID))
}
