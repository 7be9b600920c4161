// Package search coordinates the parallel vanity salt search: it partitions
// the index space, runs one worker goroutine per range, aggregates their
// matches, and surfaces any worker failure with the range that caused it.
package search

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vaultedge/createx-vanity/internal/logger"
	"github.com/vaultedge/createx-vanity/pkg/createx"
	"github.com/vaultedge/createx-vanity/pkg/pattern"
	"github.com/vaultedge/createx-vanity/pkg/types"
	"github.com/vaultedge/createx-vanity/pkg/worker"
)

// DefaultMaxAttempts bounds the search when the caller gives no explicit
// budget.
const DefaultMaxAttempts = 1_000_000

// Errors
var (
	ErrNoSigner    = errors.New("search: signer address is required")
	ErrNoPatterns  = errors.New("search: at least one pattern is required")
	ErrNoAttempts  = errors.New("search: max attempts must be positive")
	ErrBadInitHash = errors.New("search: create2 mode requires an init code hash")
)

// WorkerFailure reports an unexpected error inside a single worker. The whole
// search aborts; partial results are never returned on failure.
type WorkerFailure struct {
	Range types.SearchRange
	Err   error
}

func (e *WorkerFailure) Error() string {
	return fmt.Sprintf("search: worker for range %s failed: %v", e.Range, e.Err)
}

func (e *WorkerFailure) Unwrap() error {
	return e.Err
}

// Options configure a search. Zero values fall back to documented defaults:
// the canonical CreateX factory, the local-test chain id, one range per CPU
// core, and DefaultMaxAttempts.
type Options struct {
	Signer      common.Address
	Factory     common.Address
	ChainID     *big.Int
	Patterns    []pattern.Pattern
	MaxAttempts uint64
	Workers     int

	// Create2 switches the search to CREATE2 derivation against InitCodeHash.
	// The default is CREATE3, which needs no bytecode at all.
	Create2      bool
	InitCodeHash common.Hash
}

// Validate fails fast on inputs that would otherwise produce a silent empty
// search.
func (o Options) Validate() error {
	if o.Signer == (common.Address{}) {
		return ErrNoSigner
	}
	if len(o.Patterns) == 0 {
		return ErrNoPatterns
	}
	if o.Create2 && o.InitCodeHash == (common.Hash{}) {
		return ErrBadInitHash
	}
	return nil
}

// EffectiveFactory returns the factory the search actually derives against:
// the configured one, or the canonical CreateX factory when unset.
func (o Options) EffectiveFactory() common.Address {
	if o.Factory == (common.Address{}) {
		return createx.FactoryAddress
	}
	return o.Factory
}

// Stats is a point-in-time snapshot of search throughput.
type Stats struct {
	Attempts    uint64
	HashRate    float64
	ElapsedSecs float64
}

// Coordinator runs searches. A Coordinator is reusable but not concurrent:
// run one Search at a time.
type Coordinator struct {
	opts     Options
	logger   *logger.Logger
	interval time.Duration

	// Both fields are accessed atomically so Stats can race Search.
	attempts   uint64
	startNanos int64
}

// New creates a coordinator. log may be nil to disable progress logging.
func New(opts Options, log *logger.Logger) *Coordinator {
	return &Coordinator{
		opts:     opts,
		logger:   log,
		interval: 5 * time.Second,
	}
}

// SetLogInterval overrides the progress logging interval.
func (c *Coordinator) SetLogInterval(d time.Duration) {
	if d > 0 {
		c.interval = d
	}
}

// Stats returns the current attempt counter and rate. Safe to call from any
// goroutine while a search runs.
func (c *Coordinator) Stats() Stats {
	attempts := atomic.LoadUint64(&c.attempts)
	startNanos := atomic.LoadInt64(&c.startNanos)
	if startNanos == 0 {
		return Stats{Attempts: attempts}
	}
	elapsed := time.Duration(time.Now().UnixNano() - startNanos).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(attempts) / elapsed
	}
	return Stats{Attempts: attempts, HashRate: rate, ElapsedSecs: elapsed}
}

// Partition splits [0, maxAttempts) into at most workers contiguous ranges of
// size ceil(maxAttempts/workers), the last one truncated. The ranges cover the
// space exactly once with no overlap.
func Partition(maxAttempts uint64, workers int) []types.SearchRange {
	if maxAttempts == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if uint64(workers) > maxAttempts {
		workers = int(maxAttempts)
	}
	chunk := (maxAttempts + uint64(workers) - 1) / uint64(workers)
	ranges := make([]types.SearchRange, 0, workers)
	for start := uint64(0); start < maxAttempts; start += chunk {
		end := start + chunk
		if end > maxAttempts {
			end = maxAttempts
		}
		ranges = append(ranges, types.SearchRange{Start: start, End: end})
	}
	return ranges
}

// Search runs the full search and returns every match, ordered by global
// index. The match set depends only on (signer, factory, chain id, mode,
// maxAttempts): entropy is a pure function of the global index, so worker
// count never changes the result. Cancelling ctx stops the workers at their
// next progress boundary and returns the matches found so far together with
// the context error.
func (c *Coordinator) Search(ctx context.Context) ([]types.MatchResult, error) {
	if err := c.opts.Validate(); err != nil {
		return nil, err
	}
	matchers, err := pattern.CompileAll(c.opts.Patterns)
	if err != nil {
		return nil, err
	}

	maxAttempts := c.opts.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}
	workers := c.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	factory := c.opts.EffectiveFactory()
	chainID := c.opts.ChainID
	if chainID == nil {
		chainID = big.NewInt(createx.DefaultChainID)
	}

	wcfg := &worker.Config{
		Signer:   c.opts.Signer,
		Factory:  factory,
		ChainID:  chainID,
		Matchers: matchers,
	}
	if c.opts.Create2 {
		initHash := c.opts.InitCodeHash
		wcfg.InitCodeHash = &initHash
	}

	ranges := Partition(maxAttempts, workers)

	type outcome struct {
		matches []types.MatchResult
		err     error
	}
	outcomes := make([]outcome, len(ranges))

	atomic.StoreUint64(&c.attempts, 0)
	atomic.StoreInt64(&c.startNanos, time.Now().UnixNano())

	progress := make(chan uint64, 4*len(ranges))
	collectorDone := make(chan struct{})
	go c.collectProgress(progress, maxAttempts, collectorDone)

	var wg sync.WaitGroup
	for idx, rng := range ranges {
		wg.Add(1)
		go func(idx int, rng types.SearchRange) {
			defer wg.Done()
			w := worker.New(wcfg, rng)
			matches, err := w.Run(ctx, progress)
			outcomes[idx] = outcome{matches: matches, err: err}
		}(idx, rng)
	}
	wg.Wait()
	close(progress)
	<-collectorDone

	var all []types.MatchResult
	for _, o := range outcomes {
		all = append(all, o.matches...)
	}

	var ctxErr error
	for i, o := range outcomes {
		if o.err == nil {
			continue
		}
		if errors.Is(o.err, context.Canceled) || errors.Is(o.err, context.DeadlineExceeded) {
			ctxErr = o.err
			continue
		}
		return nil, &WorkerFailure{Range: ranges[i], Err: o.err}
	}
	if ctxErr != nil {
		return all, ctxErr
	}
	return all, nil
}

// collectProgress drains worker progress messages into the attempt counter
// and periodically logs throughput.
func (c *Coordinator) collectProgress(progress <-chan uint64, maxAttempts uint64, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-progress:
			if !ok {
				return
			}
			atomic.AddUint64(&c.attempts, n)
		case <-ticker.C:
			if c.logger == nil {
				continue
			}
			stats := c.Stats()
			c.logger.Printf("Progress: %d/%d attempts, %.2f hashes/sec",
				stats.Attempts, maxAttempts, stats.HashRate)
		}
	}
}
