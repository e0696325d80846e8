package source

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/cxdash/internal/model"
)

//go:embed seed.json
var seedJSON []byte

// Seed returns the bundled starter records.
func Seed() []model.Project {
	b, err := JSON{}.Parse(seedJSON)
	if err != nil {
		panic("source: bundled seed is invalid: " + err.Error())
	}
	return b.Records
}

// DetectFormat picks an adapter format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("source: cannot infer import format from %q", path)
	}
}

// ReadFile reads path and returns its bytes with the adapter for its extension.
func ReadFile(path string) (Adapter, []byte, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	a, err := ForFormat(f)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return a, data, nil
}
