// Package types holds the value types shared between the search coordinator,
// its workers, and result reporting.
package types

import (
	"fmt"

	"github.com/vaultedge/createx-vanity/pkg/pattern"
)

// MatchResult is one discovered (salt, address) pair together with the
// pattern that accepted it.
type MatchResult struct {
	Salt    string          `json:"salt"`    // 0x-prefixed 64 hex chars
	Address string          `json:"address"` // EIP-55 checksummed
	Pattern pattern.Pattern `json:"pattern"`
	Index   uint64          `json:"index"` // global search index the salt was derived from
}

// SearchRange is a half-open [Start, End) slice of the global index space
// owned by exactly one worker.
type SearchRange struct {
	Start uint64
	End   uint64
}

// Size returns the number of indices in the range.
func (r SearchRange) Size() uint64 {
	return r.End - r.Start
}

// String renders the range in interval notation.
func (r SearchRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// PatternReport collects the matches for a single pattern.
type PatternReport struct {
	Pattern pattern.Pattern `json:"pattern"`
	Found   bool            `json:"found"`
	Matches []MatchResult   `json:"matches"`
}

// Report groups search results per pattern, in the order the patterns were
// requested. Patterns with no matches still appear, with Found unset.
type Report struct {
	Patterns []PatternReport `json:"patterns"`
	Total    int             `json:"total"`
}

// BuildReport groups results by their originating pattern.
func BuildReport(patterns []pattern.Pattern, results []MatchResult) *Report {
	rep := &Report{
		Patterns: make([]PatternReport, len(patterns)),
		Total:    len(results),
	}
	index := make(map[pattern.Pattern]int, len(patterns))
	for i, p := range patterns {
		rep.Patterns[i] = PatternReport{Pattern: p}
		index[p] = i
	}
	for _, res := range results {
		i, ok := index[res.Pattern]
		if !ok {
			continue
		}
		rep.Patterns[i].Matches = append(rep.Patterns[i].Matches, res)
		rep.Patterns[i].Found = true
	}
	return rep
}
