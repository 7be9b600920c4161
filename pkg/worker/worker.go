// Package worker implements the per-range salt enumeration hot loop. A worker
// owns one contiguous slice of the global index space and derives one
// candidate address per index with a single reused keccak hasher and fixed
// input buffers, so the loop allocates nothing per candidate.
package worker

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/vaultedge/createx-vanity/pkg/createx"
	"github.com/vaultedge/createx-vanity/pkg/pattern"
	"github.com/vaultedge/createx-vanity/pkg/types"
)

// ProgressInterval is the number of processed indices between progress
// notifications. Cancellation is also only observed on this boundary.
const ProgressInterval = 1_000_000

// Input buffer layouts. All offsets are fixed per search; only the salt's
// entropy bytes change per index.
const (
	// guard input: pad32(signer) || uint256(chainid) || salt.
	// This is abi.encode(signer, chainid, salt), which the factory's guard
	// hashes for sender+cross-chain protected salts.
	guardInputLen = 32 + 32 + 32
	guardSaltOff  = 64

	// CREATE2 input: 0xff || factory || guardedSalt || codeHash.
	create2InputLen = 1 + 20 + 32 + 32
	create2SaltOff  = 21
	create2HashOff  = 53

	// CREATE3 second stage: rlp([proxy, 1]) = 0xd6 || 0x94 || proxy || 0x01.
	nonceInputLen = 23
	nonceAddrOff  = 2
)

// Config holds the read-only inputs every worker of a search shares.
type Config struct {
	Signer  common.Address
	Factory common.Address
	ChainID *big.Int

	// InitCodeHash switches the derivation to CREATE2 against the given
	// init-code hash. When nil the worker derives CREATE3 addresses.
	InitCodeHash *common.Hash

	// Matchers are compiled once by the coordinator and shared read-only.
	Matchers []*pattern.Matcher
}

// Worker enumerates one search range.
type Worker struct {
	cfg *Config
	rng types.SearchRange

	hasher  hash.Hash
	create3 bool

	salt       createx.Salt
	guardBuf   [guardInputLen]byte
	create2Buf [create2InputLen]byte
	nonceBuf   [nonceInputLen]byte
	hashBuf    [32]byte
	addrHexBuf [40]byte
}

// New builds a worker and primes its input buffers. The first 64 guard bytes,
// the CREATE2 prefix, and the code-hash suffix never change during the run.
func New(cfg *Config, rng types.SearchRange) *Worker {
	w := &Worker{
		cfg:     cfg,
		rng:     rng,
		hasher:  sha3.NewLegacyKeccak256(),
		create3: cfg.InitCodeHash == nil,
	}

	// Search salts are always signer-bound with the cross-chain flag set, so
	// the guard branch is fixed for the whole run.
	copy(w.salt[:20], cfg.Signer[:])
	w.salt[20] = 0x01

	chainID := cfg.ChainID
	if chainID == nil {
		chainID = big.NewInt(createx.DefaultChainID)
	}
	id := uint256.MustFromBig(chainID).Bytes32()
	copy(w.guardBuf[12:32], cfg.Signer[:])
	copy(w.guardBuf[32:64], id[:])

	w.create2Buf[0] = 0xff
	copy(w.create2Buf[1:21], cfg.Factory[:])
	if w.create3 {
		copy(w.create2Buf[create2HashOff:], createx.Create3ProxyCodeHash[:])
	} else {
		copy(w.create2Buf[create2HashOff:], cfg.InitCodeHash[:])
	}

	w.nonceBuf[0] = 0xd6
	w.nonceBuf[1] = 0x94
	w.nonceBuf[nonceInputLen-1] = 0x01

	return w
}

// Run enumerates the worker's range and returns every match. Progress counts
// are sent on progress (best effort, never blocking) every ProgressInterval
// indices. A panic inside the loop is returned as an error so the coordinator
// can fail the whole search with the range attached.
func (w *Worker) Run(ctx context.Context, progress chan<- uint64) (matches []types.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var processed uint64
	for i := w.rng.Start; i < w.rng.End; i++ {
		addr := w.derive(i)

		for _, m := range w.cfg.Matchers {
			if m.MatchesHex(w.addrHexBuf[:]) {
				matches = append(matches, types.MatchResult{
					Salt:    w.salt.Hex(),
					Address: addr.Hex(),
					Pattern: m.Pattern(),
					Index:   i,
				})
			}
		}

		processed++
		if processed%ProgressInterval == 0 {
			sendProgress(progress, ProgressInterval)
			select {
			case <-ctx.Done():
				return matches, ctx.Err()
			default:
			}
		}
	}

	if rem := processed % ProgressInterval; rem > 0 {
		sendProgress(progress, rem)
	}
	return matches, nil
}

// derive computes the candidate address for global index i and leaves its
// lowercase hex form in addrHexBuf for the matchers.
func (w *Worker) derive(i uint64) common.Address {
	// Entropy is the 11-byte big-endian encoding of the global index; the
	// top three bytes stay zero for any uint64.
	w.salt[21], w.salt[22], w.salt[23] = 0, 0, 0
	binary.BigEndian.PutUint64(w.salt[24:32], i)

	copy(w.guardBuf[guardSaltOff:], w.salt[:])
	w.hasher.Reset()
	w.hasher.Write(w.guardBuf[:])
	sum := w.hasher.Sum(w.hashBuf[:0])

	copy(w.create2Buf[create2SaltOff:create2HashOff], sum)
	w.hasher.Reset()
	w.hasher.Write(w.create2Buf[:])
	sum = w.hasher.Sum(w.hashBuf[:0])

	if w.create3 {
		copy(w.nonceBuf[nonceAddrOff:nonceAddrOff+20], sum[12:32])
		w.hasher.Reset()
		w.hasher.Write(w.nonceBuf[:])
		sum = w.hasher.Sum(w.hashBuf[:0])
	}

	var addr common.Address
	copy(addr[:], sum[12:32])
	hex.Encode(w.addrHexBuf[:], addr[:])
	return addr
}

// sendProgress delivers a progress count without ever blocking the hot loop.
func sendProgress(progress chan<- uint64, n uint64) {
	if progress == nil {
		return
	}
	select {
	case progress <- n:
	default:
	}
}
