// Package store persists the flat JSON collections backing the
// application. Each store owns one file and offers load-all / save-all
// semantics only: every mutation rewrites the whole collection.
// File: store/store.go
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorruptStore marks a persisted file that exists but cannot be
// parsed. Callers must treat it as fatal for the affected store; falling
// back to an empty collection would be data loss masquerading as a
// fresh install.
var ErrCorruptStore = errors.New("corrupt store file")

// writeAtomic marshals v and replaces path via a temp file in the same
// directory plus a rename, so a concurrent reader never observes a
// partially written file.
func writeAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// readFile returns the raw bytes of path, or ok=false when the file
// does not exist yet.
func readFile(path string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(path) // #nosec G304 -- path comes from our own config
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return data, true, nil
}
