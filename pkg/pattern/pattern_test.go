package pattern

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestMatcherSemantics(t *testing.T) {
	prefixAddr := common.HexToAddress("0xed6e0000000000000000000000000000000000aa")
	suffixAddr := common.HexToAddress("0x123400000000000000000000000000000000Ed6E")
	bothAddr := common.HexToAddress("0xed6e00000000000000000000000000000000ed6e")
	repeatPrefixAddr := common.HexToAddress("0xaaaa00000000000000000000000000000000dead")
	repeatSuffixAddr := common.HexToAddress("0xdead000000000000000000000000000000007777")

	tests := []struct {
		name    string
		pattern Pattern
		addr    common.Address
		want    bool
	}{
		{"prefix match", Pattern{KindPrefix, "ed6e"}, prefixAddr, true},
		{"prefix uppercase value", Pattern{KindPrefix, "ED6E"}, prefixAddr, true},
		{"prefix with 0x", Pattern{KindPrefix, "0xed6e"}, prefixAddr, true},
		{"prefix rejects suffix-only", Pattern{KindPrefix, "ed6e"}, suffixAddr, false},

		{"suffix match", Pattern{KindSuffix, "ed6e"}, suffixAddr, true},
		{"suffix rejects prefix-only", Pattern{KindSuffix, "ed6e"}, prefixAddr, false},

		{"both match", Pattern{KindBoth, "ed6e"}, bothAddr, true},
		{"both rejects prefix-only", Pattern{KindBoth, "ed6e"}, prefixAddr, false},
		{"both rejects suffix-only", Pattern{KindBoth, "ed6e"}, suffixAddr, false},

		{"repeating-prefix match", Pattern{KindRepeatingPrefix, "dead"}, repeatPrefixAddr, true},
		{"repeating-prefix wrong suffix", Pattern{KindRepeatingPrefix, "beef"}, repeatPrefixAddr, false},
		{"repeating-prefix broken run", Pattern{KindRepeatingPrefix, "dead"}, common.HexToAddress("0xabaa00000000000000000000000000000000dead"), false},

		{"repeating-suffix match", Pattern{KindRepeatingSuffix, "dead"}, repeatSuffixAddr, true},
		{"repeating-suffix broken run", Pattern{KindRepeatingSuffix, "dead"}, common.HexToAddress("0xdead000000000000000000000000000000007677"), false},
		{"repeating-suffix wrong prefix", Pattern{KindRepeatingSuffix, "beef"}, repeatSuffixAddr, false},

		{"custom search match", Pattern{KindCustom, "badc0de"}, common.HexToAddress("0x00000badc0de0000000000000000000000000000"), true},
		{"custom anchored prefix", Pattern{KindCustom, "^0xdead"}, repeatSuffixAddr, true},
		{"custom anchored miss", Pattern{KindCustom, "^0xbeef"}, repeatSuffixAddr, false},
		{"custom case-insensitive", Pattern{KindCustom, "DEAD"}, repeatSuffixAddr, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.pattern)
			require.NoError(t, err)
			require.Equal(t, tt.want, m.Matches(tt.addr))
		})
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(Pattern{Kind: "contains", Value: "abc"})
	require.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = Compile(Pattern{Kind: KindPrefix, Value: ""})
	require.Error(t, err)

	_, err = Compile(Pattern{Kind: KindPrefix, Value: "xyz"})
	require.Error(t, err)

	_, err = Compile(Pattern{Kind: KindSuffix, Value: "0123456789012345678901234567890123456789ab"})
	require.Error(t, err)

	_, err = Compile(Pattern{Kind: KindCustom, Value: "("})
	require.Error(t, err)
}

func TestCompileAll(t *testing.T) {
	patterns := []Pattern{
		{KindPrefix, "dead"},
		{KindSuffix, "beef"},
		{KindCustom, "c0ffee"},
	}
	matchers, err := CompileAll(patterns)
	require.NoError(t, err)
	require.Len(t, matchers, len(patterns))
	for i, m := range matchers {
		require.Equal(t, patterns[i], m.Pattern())
	}

	_, err = CompileAll([]Pattern{{KindPrefix, "dead"}, {Kind: "bogus"}})
	require.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestMatcherIsReusable(t *testing.T) {
	m, err := Compile(Pattern{KindPrefix, "ab"})
	require.NoError(t, err)

	hit := common.HexToAddress("0xab00000000000000000000000000000000000000")
	miss := common.HexToAddress("0xba00000000000000000000000000000000000000")
	for i := 0; i < 3; i++ {
		require.True(t, m.Matches(hit))
		require.False(t, m.Matches(miss))
	}
}

func TestPatternString(t *testing.T) {
	require.Equal(t, "prefix:dead", Pattern{KindPrefix, "dead"}.String())
}
