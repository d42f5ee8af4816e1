package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// LocalCatalog reads the static same-origin catalog JSON from disk. The same
// file is served verbatim at /data/games.json.
type LocalCatalog struct {
	path string
}

// NewLocalCatalog constructs a loader for the given JSON file path.
func NewLocalCatalog(path string) *LocalCatalog {
	return &LocalCatalog{path: path}
}

// Path returns the configured file path, for the static file handler.
func (l *LocalCatalog) Path() string { return l.path }

// Load decodes the catalog file. A missing or malformed file is an error for
// the caller to absorb; it is never fatal to the pipeline.
func (l *LocalCatalog) Load(ctx context.Context) ([]CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading local catalog %s: %w", l.path, err)
	}

	var records []CatalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return records, nil
}
