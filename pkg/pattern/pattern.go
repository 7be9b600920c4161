// Package pattern compiles vanity criteria into address predicates. Matching
// happens on the lowercase hex form of an address so the hot search loop never
// needs checksum casing.
package pattern

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// addressHexLen is the number of hex characters in an address without the 0x
// prefix.
const addressHexLen = 2 * common.AddressLength

// Kind selects how a pattern value is interpreted.
type Kind string

const (
	KindPrefix          Kind = "prefix"
	KindSuffix          Kind = "suffix"
	KindBoth            Kind = "both"
	KindRepeatingPrefix Kind = "repeating-prefix"
	KindRepeatingSuffix Kind = "repeating-suffix"
	KindCustom          Kind = "custom"
)

// ErrUnsupportedKind is returned when a pattern names a kind outside the
// recognized set.
var ErrUnsupportedKind = errors.New("pattern: unsupported kind")

// Pattern is an uncompiled vanity criterion.
type Pattern struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// String renders the pattern as kind:value for logs and reports.
func (p Pattern) String() string {
	return string(p.Kind) + ":" + p.Value
}

// Matcher is a compiled, immutable predicate over candidate addresses. A
// single Matcher may be shared read-only across any number of goroutines.
type Matcher struct {
	pattern Pattern

	prefix []byte // required lowercase hex prefix
	suffix []byte // required lowercase hex suffix
	// repeatPrefix/repeatSuffix, when >0, require that many leading/trailing
	// characters to all be one repeated hex digit (any digit).
	repeatPrefix int
	repeatSuffix int
	re           *regexp.Regexp
}

// Pattern returns the pattern this matcher was compiled from.
func (m *Matcher) Pattern() Pattern {
	return m.pattern
}

// Compile turns a pattern into a matcher. Hex-valued kinds are validated and
// lowercased once; custom values are compiled as case-insensitive regular
// expressions searched against the full 0x-prefixed address string.
func Compile(p Pattern) (*Matcher, error) {
	m := &Matcher{pattern: p}

	if p.Kind == KindCustom {
		re, err := regexp.Compile("(?i)" + p.Value)
		if err != nil {
			return nil, fmt.Errorf("pattern: invalid custom regexp %q: %w", p.Value, err)
		}
		m.re = re
		return m, nil
	}

	v, err := normalizeHexValue(p)
	if err != nil {
		return nil, err
	}
	switch p.Kind {
	case KindPrefix:
		m.prefix = v
	case KindSuffix:
		m.suffix = v
	case KindBoth:
		m.prefix = v
		m.suffix = v
	case KindRepeatingPrefix:
		m.repeatPrefix = len(v)
		m.suffix = v
	case KindRepeatingSuffix:
		m.prefix = v
		m.repeatSuffix = len(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, p.Kind)
	}
	return m, nil
}

// CompileAll compiles every pattern, failing on the first invalid one.
func CompileAll(patterns []Pattern) ([]*Matcher, error) {
	matchers := make([]*Matcher, 0, len(patterns))
	for _, p := range patterns {
		m, err := Compile(p)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// MatchesHex tests the predicate against a 40-byte lowercase hex address
// (no 0x prefix). It performs no allocations except for custom patterns and is
// the entry point for the search hot loop.
func (m *Matcher) MatchesHex(addrHex []byte) bool {
	if m.re != nil {
		var full [addressHexLen + 2]byte
		full[0], full[1] = '0', 'x'
		copy(full[2:], addrHex)
		return m.re.Match(full[:])
	}
	if len(m.prefix) > 0 && !bytes.HasPrefix(addrHex, m.prefix) {
		return false
	}
	if len(m.suffix) > 0 && !bytes.HasSuffix(addrHex, m.suffix) {
		return false
	}
	if m.repeatPrefix > 0 && !isRepeated(addrHex[:m.repeatPrefix]) {
		return false
	}
	if m.repeatSuffix > 0 && !isRepeated(addrHex[len(addrHex)-m.repeatSuffix:]) {
		return false
	}
	return true
}

// Matches tests the predicate against an address value. Convenience wrapper
// around MatchesHex for callers outside the hot loop.
func (m *Matcher) Matches(addr common.Address) bool {
	var buf [addressHexLen]byte
	hex.Encode(buf[:], addr[:])
	return m.MatchesHex(buf[:])
}

// isRepeated reports whether every byte in s equals the first one.
func isRepeated(s []byte) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// normalizeHexValue lowercases and validates a hex-valued pattern.
func normalizeHexValue(p Pattern) ([]byte, error) {
	v := strings.ToLower(strings.TrimPrefix(p.Value, "0x"))
	if v == "" {
		return nil, fmt.Errorf("pattern: %s value must not be empty", p.Kind)
	}
	if len(v) > addressHexLen {
		return nil, fmt.Errorf("pattern: %s value %q longer than an address", p.Kind, p.Value)
	}
	for _, c := range v {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return nil, fmt.Errorf("pattern: %s value %q is not hex", p.Kind, p.Value)
		}
	}
	return []byte(v), nil
}
