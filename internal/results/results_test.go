package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultedge/createx-vanity/pkg/pattern"
	"github.com/vaultedge/createx-vanity/pkg/types"
)

func TestSaveRoundTrip(t *testing.T) {
	matches := []types.MatchResult{
		{
			Salt:    "0xab00",
			Address: "0xed6E000000000000000000000000000000000000",
			Pattern: pattern.Pattern{Kind: pattern.KindPrefix, Value: "ed6e"},
			Index:   42,
		},
	}
	file := NewFile("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "", 31337, "create3", matches)

	path := filepath.Join(t.TempDir(), "out", "salts.json")
	require.NoError(t, Save(path, file))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back File
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, file.Signer, back.Signer)
	require.Equal(t, file.ChainID, back.ChainID)
	require.Equal(t, file.Mode, back.Mode)
	require.Equal(t, matches, back.Results)
	require.NotEmpty(t, back.Timestamp)
}

func TestTimestampedPath(t *testing.T) {
	got := TimestampedPath("out/salts.json")
	require.Regexp(t, regexp.MustCompile(`^out/salts_\d{4}-\d{2}-\d{2}_\d{6}\.json$`), got)

	// Extension-less paths get .json appended.
	got = TimestampedPath("salts")
	require.Regexp(t, regexp.MustCompile(`^salts_\d{4}-\d{2}-\d{2}_\d{6}\.json$`), got)
}
