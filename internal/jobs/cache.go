package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const cacheFilePrefix = "job_"

// Cache resolves job identifiers through a flat, write-once directory of JSON
// files and falls back to the remote lookup on a miss. Entries never expire.
type Cache struct {
	dir    string
	remote Lookup
	logger *zap.Logger
}

// NewCache creates a cache rooted at dir. The directory is created on the first miss.
func NewCache(dir string, remote Lookup, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cache{
		dir:    dir,
		remote: remote,
		logger: logger,
	}
}

// Path returns the cache file used for the identifier.
func (c *Cache) Path(id string) string {
	return filepath.Join(c.dir, cacheFilePrefix+url.PathEscape(id)+".json")
}

// Resolve returns the record for id. found is false when the remote source does
// not know the identifier; this is not an error. Remote failures are returned
// wrapped in ErrLookupFailed and are never cached.
func (c *Cache) Resolve(ctx context.Context, id string) (Record, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, false, errors.New("job id is required")
	}

	path := c.Path(id)

	record, ok, err := readEntry(path)
	if err != nil {
		return Record{}, false, err
	}
	if ok {
		c.logger.Debug("job cache hit", zap.String("job_id", id), zap.String("path", path))
		return record, true, nil
	}

	if c.remote == nil {
		return Record{}, false, fmt.Errorf("%w: remote lookup is not configured", ErrLookupFailed)
	}

	c.logger.Debug("job cache miss", zap.String("job_id", id))

	records, err := c.remote.Lookup(ctx, []string{id})
	if err != nil {
		if !errors.Is(err, ErrLookupFailed) {
			err = fmt.Errorf("%w: %w", ErrLookupFailed, err)
		}
		return Record{}, false, err
	}

	if len(records) == 0 {
		c.logger.Info("job not found by remote lookup", zap.String("job_id", id))
		return Record{}, false, nil
	}

	if err := c.writeEntry(path, records[0]); err != nil {
		return Record{}, false, err
	}

	// Return what a later hit will read: the stored entry, which may be one
	// written concurrently and is JSON-normalized.
	record, ok, err = readEntry(path)
	if err != nil {
		return Record{}, false, err
	}
	if !ok {
		return Record{}, false, fmt.Errorf("job cache entry %q disappeared after write", path)
	}

	c.logger.Info("job cached", zap.String("job_id", id), zap.String("path", path))

	return record, true, nil
}

func readEntry(path string) (Record, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read job cache entry: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, false, fmt.Errorf("decode job cache entry %q: %w", path, err)
	}

	return record, true, nil
}

// writeEntry stores the record under path unless an entry already exists.
// The content is written to a temporary file first and then hard-linked into
// place, so readers never observe a partial entry and an existing one is kept.
func (c *Cache) writeEntry(path string, record Record) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create job cache dir: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode job cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".job-*.tmp")
	if err != nil {
		return fmt.Errorf("create job cache entry: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write job cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write job cache entry: %w", err)
	}

	if err := os.Link(tmp.Name(), path); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("store job cache entry: %w", err)
	}

	return nil
}
