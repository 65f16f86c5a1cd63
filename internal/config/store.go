// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/passkeep/internal/util"
)

// =============================================================================
// PER-KEY STRING STORE
// =============================================================================

// Store persists individual string values, one file per key, under the
// passkeep configuration directory. Values such as the device trust
// identifier survive process restarts through it.
type Store struct {
	// BaseDir is the directory holding the value files.
	BaseDir string
}

// NewStore returns a Store rooted at the passkeep configuration directory.
func NewStore() (*Store, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Store{BaseDir: dir}, nil
}

// ReadString returns the stored value for key, or ok=false when the key
// has never been written.
func (s *Store) ReadString(key string) (value string, ok bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return strings.TrimRight(string(data), "\n"), true
}

// WriteString persists value under key with owner-only permissions.
func (s *Store) WriteString(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path(key), []byte(value), 0600)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.BaseDir, key)
}

// validKey rejects keys that would escape the store directory.
func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, "/\\") || key != filepath.Base(key) {
		return fmt.Errorf("invalid store key %q", key)
	}
	return nil
}
