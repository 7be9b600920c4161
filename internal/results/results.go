// Package results writes search results to a JSON file so discovered salts
// can be fed into deployment tooling later.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vaultedge/createx-vanity/pkg/types"
)

// File is the on-disk result document.
type File struct {
	Timestamp string              `json:"timestamp"`
	Signer    string              `json:"signer"`
	Factory   string              `json:"factory"`
	ChainID   uint64              `json:"chainId"`
	Mode      string              `json:"mode"`
	Results   []types.MatchResult `json:"results"`
}

// NewFile builds a result document stamped with the current time.
func NewFile(signer, factory string, chainID uint64, mode string, results []types.MatchResult) *File {
	return &File{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Signer:    signer,
		Factory:   factory,
		ChainID:   chainID,
		Mode:      mode,
		Results:   results,
	}
}

// Save writes the document to path as indented JSON, creating parent
// directories as needed.
func Save(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// TimestampedPath inserts a UTC timestamp before the extension so repeated
// runs never overwrite each other, e.g. out/salts.json ->
// out/salts_2006-01-02_150405.json.
func TimestampedPath(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".json"
	}
	return fmt.Sprintf("%s_%s%s", stem, time.Now().UTC().Format("2006-01-02_150405"), ext)
}
