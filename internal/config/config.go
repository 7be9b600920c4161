package config

import (
	"encoding/hex"
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vaultedge/createx-vanity/pkg/pattern"
)

// Derivation modes.
const (
	ModeCreate3 = "create3"
	ModeCreate2 = "create2"
)

// Errors
var (
	ErrNoSignerSpecified   = errors.New("must specify --signer")
	ErrInvalidSigner       = errors.New("--signer is not a valid 20-byte hex address")
	ErrInvalidFactory      = errors.New("--factory is not a valid 20-byte hex address")
	ErrNoPatternSpecified  = errors.New("must specify at least one of --prefix, --suffix, --both, --repeating-prefix, --repeating-suffix, or --pattern")
	ErrNoBytecodeSpecified = errors.New("create2 mode requires --bytecode or --bytecode-file")
	ErrUnknownMode         = errors.New(`--mode must be "create2" or "create3"`)
)

// Config holds the application configuration
type Config struct {
	Signer      string
	Factory     string
	ChainID     uint64
	Workers     int
	MaxAttempts uint64
	Mode        string

	// Pattern flags; each may repeat.
	Prefixes          []string
	Suffixes          []string
	Boths             []string
	RepeatingPrefixes []string
	RepeatingSuffixes []string
	CustomPatterns    []string

	// CREATE2 mode bytecode input.
	Bytecode     string
	BytecodeFile string

	Output      string // JSON results file; empty disables saving
	Verbose     bool
	LogFile     string
	LogInterval int // Logging interval in seconds
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:     runtime.NumCPU(),
		MaxAttempts: 1_000_000,
		Mode:        ModeCreate3,
		ChainID:     31337,
		LogInterval: 5,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Signer == "" {
		return ErrNoSignerSpecified
	}
	if !common.IsHexAddress(c.Signer) {
		return ErrInvalidSigner
	}
	if c.Factory != "" && !common.IsHexAddress(c.Factory) {
		return ErrInvalidFactory
	}
	if len(c.Patterns()) == 0 {
		return ErrNoPatternSpecified
	}
	switch c.Mode {
	case ModeCreate3:
	case ModeCreate2:
		if c.Bytecode == "" && c.BytecodeFile == "" {
			return ErrNoBytecodeSpecified
		}
	default:
		return ErrUnknownMode
	}
	return nil
}

// Patterns assembles the pattern list from the individual flag groups, in a
// stable order.
func (c *Config) Patterns() []pattern.Pattern {
	var out []pattern.Pattern
	add := func(kind pattern.Kind, values []string) {
		for _, v := range values {
			out = append(out, pattern.Pattern{Kind: kind, Value: v})
		}
	}
	add(pattern.KindPrefix, c.Prefixes)
	add(pattern.KindSuffix, c.Suffixes)
	add(pattern.KindBoth, c.Boths)
	add(pattern.KindRepeatingPrefix, c.RepeatingPrefixes)
	add(pattern.KindRepeatingSuffix, c.RepeatingSuffixes)
	add(pattern.KindCustom, c.CustomPatterns)
	return out
}

// SignerAddress returns the parsed signer address. Call Validate first.
func (c *Config) SignerAddress() common.Address {
	return common.HexToAddress(c.Signer)
}

// FactoryAddress returns the parsed factory override, or the zero address
// when none was given (the search then falls back to the canonical factory).
func (c *Config) FactoryAddress() common.Address {
	if c.Factory == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.Factory)
}

// GetBytecode returns the bytecode to use for CREATE2 address calculation
func (c *Config) GetBytecode() ([]byte, error) {
	// Check if bytecode file is specified
	if c.BytecodeFile != "" {
		return readBytecodeFromFile(c.BytecodeFile)
	}

	// Check if bytecode is provided directly
	if c.Bytecode != "" {
		return decodeBytecodeHex(c.Bytecode)
	}

	// This should not happen if validation passes
	return nil, ErrNoBytecodeSpecified
}

// readBytecodeFromFile reads bytecode from a file
func readBytecodeFromFile(filename string) ([]byte, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return decodeBytecodeHex(string(content))
}

// decodeBytecodeHex decodes a hex bytecode string, tolerating surrounding
// whitespace and an optional 0x prefix.
func decodeBytecodeHex(code string) ([]byte, error) {
	code = strings.TrimSpace(code)
	if len(code) > 2 && (code[:2] == "0x" || code[:2] == "0X") {
		code = code[2:]
	}
	return hex.DecodeString(code)
}
