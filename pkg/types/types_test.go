package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultedge/createx-vanity/pkg/pattern"
)

func TestSearchRange(t *testing.T) {
	r := SearchRange{Start: 10, End: 25}
	require.Equal(t, uint64(15), r.Size())
	require.Equal(t, "[10, 25)", r.String())
}

func TestBuildReport(t *testing.T) {
	prefix := pattern.Pattern{Kind: pattern.KindPrefix, Value: "dead"}
	suffix := pattern.Pattern{Kind: pattern.KindSuffix, Value: "beef"}
	custom := pattern.Pattern{Kind: pattern.KindCustom, Value: "c0ffee"}
	patterns := []pattern.Pattern{prefix, suffix, custom}

	results := []MatchResult{
		{Salt: "0x01", Address: "0xdead...", Pattern: prefix, Index: 4},
		{Salt: "0x02", Address: "0x...beef", Pattern: suffix, Index: 9},
		{Salt: "0x03", Address: "0xdead...", Pattern: prefix, Index: 17},
	}

	rep := BuildReport(patterns, results)
	require.Equal(t, 3, rep.Total)
	require.Len(t, rep.Patterns, 3)

	require.Equal(t, prefix, rep.Patterns[0].Pattern)
	require.True(t, rep.Patterns[0].Found)
	require.Len(t, rep.Patterns[0].Matches, 2)

	require.True(t, rep.Patterns[1].Found)
	require.Len(t, rep.Patterns[1].Matches, 1)

	// Patterns without matches still appear in the report.
	require.Equal(t, custom, rep.Patterns[2].Pattern)
	require.False(t, rep.Patterns[2].Found)
	require.Empty(t, rep.Patterns[2].Matches)
}

func TestBuildReportEmpty(t *testing.T) {
	rep := BuildReport(nil, nil)
	require.Equal(t, 0, rep.Total)
	require.Empty(t, rep.Patterns)
}
