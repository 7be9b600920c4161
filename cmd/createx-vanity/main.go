package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultedge/createx-vanity/internal/config"
	logpkg "github.com/vaultedge/createx-vanity/internal/logger"
	"github.com/vaultedge/createx-vanity/internal/results"
	"github.com/vaultedge/createx-vanity/pkg/createx"
	"github.com/vaultedge/createx-vanity/pkg/search"
	"github.com/vaultedge/createx-vanity/pkg/types"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "createx-vanity",
		Short: "Vanity salt search for CreateX deployments",
		Long: `Searches the salt space of the CreateX deployment factory for salts whose
CREATE3 (or CREATE2) address matches the requested vanity patterns. Every
candidate salt is signer-bound and cross-chain protected, and the derivation
mirrors the factory's on-chain guard bit for bit, so a found salt is
guaranteed to deploy on the predicted address.`,
		RunE:          runSearch,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&cfg.Signer, "signer", "s", "", "Deployer address the salts are bound to (required)")
	rootCmd.Flags().StringVarP(&cfg.Factory, "factory", "f", "", "Factory address (default: canonical CreateX "+createx.FactoryAddressHex+")")
	rootCmd.Flags().Uint64Var(&cfg.ChainID, "chain-id", cfg.ChainID, "Chain id baked into the cross-chain guard")
	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Number of parallel workers")
	rootCmd.Flags().Uint64VarP(&cfg.MaxAttempts, "attempts", "a", cfg.MaxAttempts, "Maximum number of salts to try")
	rootCmd.Flags().StringVarP(&cfg.Mode, "mode", "m", cfg.Mode, `Derivation mode: "create3" or "create2"`)
	rootCmd.Flags().StringArrayVarP(&cfg.Prefixes, "prefix", "p", nil, "Address prefix to match (repeatable)")
	rootCmd.Flags().StringArrayVar(&cfg.Suffixes, "suffix", nil, "Address suffix to match (repeatable)")
	rootCmd.Flags().StringArrayVar(&cfg.Boths, "both", nil, "Value that must match prefix and suffix (repeatable)")
	rootCmd.Flags().StringArrayVar(&cfg.RepeatingPrefixes, "repeating-prefix", nil, "Repeated-digit prefix with this suffix (repeatable)")
	rootCmd.Flags().StringArrayVar(&cfg.RepeatingSuffixes, "repeating-suffix", nil, "Repeated-digit suffix with this prefix (repeatable)")
	rootCmd.Flags().StringArrayVar(&cfg.CustomPatterns, "pattern", nil, "Custom case-insensitive regexp over the 0x-prefixed address (repeatable)")
	rootCmd.Flags().StringVarP(&cfg.Bytecode, "bytecode", "B", "", "Contract init code for create2 mode (hex)")
	rootCmd.Flags().StringVarP(&cfg.BytecodeFile, "bytecode-file", "F", "", "File containing contract init code (hex)")
	rootCmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "Save results as JSON to this path (timestamped)")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	rootCmd.Flags().IntVarP(&cfg.LogInterval, "log-interval", "i", cfg.LogInterval, "Progress logging interval in seconds")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogging(); err != nil {
		return err
	}

	opts := search.Options{
		Signer:      cfg.SignerAddress(),
		Factory:     cfg.FactoryAddress(),
		ChainID:     new(big.Int).SetUint64(cfg.ChainID),
		Patterns:    cfg.Patterns(),
		MaxAttempts: cfg.MaxAttempts,
		Workers:     cfg.Workers,
	}
	if cfg.Mode == config.ModeCreate2 {
		bytecode, err := cfg.GetBytecode()
		if err != nil {
			return fmt.Errorf("load bytecode: %w", err)
		}
		opts.Create2 = true
		opts.InitCodeHash = createx.InitCodeHash(bytecode)
		logger.Printf("Init code hash: %s", opts.InitCodeHash.Hex())
	}

	logger.Printf("Starting %s vanity salt search with %d workers...", cfg.Mode, cfg.Workers)
	logger.Printf("Signer: %s", cfg.Signer)
	if cfg.Factory != "" {
		logger.Printf("Factory: %s", cfg.Factory)
	} else {
		logger.Printf("Factory: %s (canonical CreateX)", createx.FactoryAddressHex)
	}
	logger.Printf("Chain id: %d, attempts: %d, patterns: %d",
		cfg.ChainID, cfg.MaxAttempts, len(opts.Patterns))

	// Cancel the search context on Ctrl+C; workers stop at the next block
	// boundary and the matches found so far are still reported.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("Received interrupt signal, stopping search...")
		cancel()
	}()

	var progressLog *logpkg.Logger
	if cfg.Verbose {
		progressLog = logger
	}
	coordinator := search.New(opts, progressLog)
	coordinator.SetLogInterval(time.Duration(cfg.LogInterval) * time.Second)

	start := time.Now()
	matches, err := coordinator.Search(ctx)
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return err
	}

	stats := coordinator.Stats()
	logger.Printf("Search finished in %v after %d attempts (%.2f hashes/sec)",
		time.Since(start).Round(time.Millisecond), stats.Attempts, stats.HashRate)

	report := types.BuildReport(opts.Patterns, matches)
	printReport(report)

	if cfg.Output != "" && len(matches) > 0 {
		path := results.TimestampedPath(cfg.Output)
		file := results.NewFile(cfg.Signer, opts.EffectiveFactory().Hex(), cfg.ChainID, cfg.Mode, matches)
		if err := results.Save(path, file); err != nil {
			return err
		}
		logger.Printf("Results saved to %s", path)
	}

	if interrupted {
		logger.Println("Search interrupted before completing the full range.")
	}
	return nil
}

func printReport(report *types.Report) {
	logger.Printf("Total matches: %d", report.Total)
	for _, pr := range report.Patterns {
		if !pr.Found {
			logger.Printf("Pattern %s: no match", pr.Pattern)
			continue
		}
		logger.Printf("Pattern %s: %d match(es)", pr.Pattern, len(pr.Matches))
		for _, m := range pr.Matches {
			logger.Printf("  Address: %s  Salt: %s", m.Address, m.Salt)
		}
	}
}

func setupLogging() error {
	if cfg.LogFile != "" {
		lg, err := logpkg.NewFile(cfg.LogFile)
		if err != nil {
			return err
		}
		lg.SetFlags(log.LstdFlags | log.Lmicroseconds)
		logger = lg
		return nil
	}
	logger = logpkg.New()
	logger.SetFlags(log.LstdFlags)
	return nil
}
