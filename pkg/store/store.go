// Package store implements the content-addressed file store backing published
// library versions. Objects are named by their SHA-256 hash and sharded by the
// first two hex characters so no single directory accumulates millions of
// entries.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/neverliie/nlpm/pkg/config"
)

// Store is rooted at a directory, normally config.StoreDir().
type Store struct {
	root string
}

// New returns a store rooted at dir; an empty dir selects the default store
// under the nlpm home.
func New(dir string) *Store {
	if dir == "" {
		dir = config.StoreDir()
	}
	return &Store{root: dir}
}

// ObjectPath returns where the object with the given hash lives.
func (s *Store) ObjectPath(hash string) string {
	if len(hash) < 3 {
		return filepath.Join(s.root, hash)
	}
	return filepath.Join(s.root, hash[:2], hash[2:])
}

// Add hashes the file at path and copies it into the store if it is not
// already present. It returns the hex hash.
func (s *Store) Add(path string) (string, error) {
	hash, err := HashFile(path)
	if err != nil {
		return "", fmt.Errorf("store: hash %s: %w", path, err)
	}

	dest := s.ObjectPath(hash)
	if _, err := os.Stat(dest); err == nil {
		// Already stored; content-addressing dedupes for free.
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("store: shard dir for %s: %w", hash, err)
	}
	if err := copyFile(path, dest); err != nil {
		return "", fmt.Errorf("store: add %s: %w", path, err)
	}
	return hash, nil
}

// Checkout copies the object with the given hash to dest, creating parent
// directories as needed. A missing object is an error: the registry refers to
// content the store no longer holds.
func (s *Store) Checkout(hash, dest string) error {
	obj := s.ObjectPath(hash)
	if _, err := os.Stat(obj); err != nil {
		return fmt.Errorf("store: object %s missing: %w", hash, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("store: dest dir for %s: %w", dest, err)
	}
	if err := copyFile(obj, dest); err != nil {
		return fmt.Errorf("store: checkout %s: %w", hash, err)
	}
	return nil
}

// HashFile streams the file through SHA-256 and returns the hex digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
