/*
 * Copyright 2025 Big Yellow Jacket Security.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists each key as one file under a root directory. Writes go
// through a temp file and rename so readers never observe a partial value.
type FileStore struct {
	dir string
}

// NewFileStore creates the root directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errDirRequired
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

// sanitizeKey maps a slot key to a safe filename. Anything outside
// [A-Za-z0-9._-] becomes '_' so keys cannot escape the root directory.
func sanitizeKey(key string) string {
	var b strings.Builder

	b.Grow(len(key))

	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	if b.Len() == 0 {
		return "_"
	}

	return b.String()
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, sanitizeKey(key))
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}

	return data, true, nil
}

func (f *FileStore) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("failed to stage key %s: %w", key, err)
	}

	tmpName := tmp.Name()

	_, werr := tmp.Write(value)

	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)

		if werr != nil {
			return fmt.Errorf("failed to write key %s: %w", key, werr)
		}

		return fmt.Errorf("failed to write key %s: %w", key, cerr)
	}

	if err := os.Rename(tmpName, f.path(key)); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("failed to store key %s: %w", key, err)
	}

	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

func (f *FileStore) Close() error {
	return nil
}

var _ Store = (*FileStore)(nil)
