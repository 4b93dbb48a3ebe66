// Package file stores each key as a JSON document in a directory.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/utafrali/storefront/internal/storage"
)

const ext = ".json"

// maxNameLen keeps file names well under the common 255 byte limit.
const maxNameLen = 200

type document struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store writes one file per key under dir. Writes go to a temp file that is
// renamed over the target, so readers never see a partial document.
type Store struct {
	dir string
}

// New creates dir if needed and returns a store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" {
		return "", storage.ErrInvalidKey
	}
	name := base64.RawURLEncoding.EncodeToString([]byte(key))
	if len(name) > maxNameLen {
		// Encoded names never contain a dot, so hashed names cannot collide.
		sum := sha256.Sum256([]byte(key))
		name = hex.EncodeToString(sum[:]) + ".h"
	}
	return filepath.Join(s.dir, name+ext), nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil || doc.Key != key {
		if err == nil {
			err = fmt.Errorf("document holds key %q", doc.Key)
		}
		return "", false, fmt.Errorf("decode %s: %w", key, errors.Join(storage.ErrCorrupt, err))
	}
	return doc.Value, true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(document{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Ping checks that the directory is still there.
func (s *Store) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat storage dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", s.dir)
	}
	return nil
}
