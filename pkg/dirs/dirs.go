// Package dirs implements the directory-alias registry behind the cdr
// command. Aliases map to absolute paths in a JSON file under the nlpm home;
// the actual cd is performed by a shell function wrapping the CLI's output.
package dirs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/neverliie/nlpm/pkg/config"
)

// ErrAliasNotFound is returned when resolving or removing an unknown alias.
var ErrAliasNotFound = errors.New("alias not found")

// ErrAliasExists is returned when registering over an existing alias without
// force.
var ErrAliasExists = errors.New("alias already registered")

// Alias is one listing entry. Exists reports whether the target directory is
// still present on disk.
type Alias struct {
	Name   string
	Path   string
	Exists bool
}

// Registry is a JSON-file-backed alias store.
type Registry struct {
	path string
}

// New returns a registry stored at path; an empty path selects the default
// file under the nlpm home.
func New(path string) *Registry {
	if path == "" {
		path = config.DirRegistryFile()
	}
	return &Registry{path: path}
}

// Load reads the alias map. A missing file is an empty registry.
func (r *Registry) Load() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dirs: load registry: %w", err)
	}
	aliases := map[string]string{}
	if err := json.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("dirs: parse registry: %w", err)
	}
	return aliases, nil
}

func (r *Registry) save(aliases map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("dirs: registry dir: %w", err)
	}
	data, err := json.MarshalIndent(aliases, "", "  ")
	if err != nil {
		return fmt.Errorf("dirs: encode registry: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("dirs: write registry: %w", err)
	}
	return nil
}

// Resolve returns the directory for an alias. The target must still exist and
// be a directory.
func (r *Registry) Resolve(alias string) (string, error) {
	aliases, err := r.Load()
	if err != nil {
		return "", err
	}
	path, ok := aliases[alias]
	if !ok {
		return "", fmt.Errorf("dirs: %q: %w", alias, ErrAliasNotFound)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("dirs: %q points to missing directory %s", alias, path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("dirs: %q points to non-directory %s", alias, path)
	}
	return path, nil
}

// Register binds alias to path, which must be an existing directory. An
// existing alias is only overwritten when force is set.
func (r *Registry) Register(alias, path string, force bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("dirs: resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("dirs: directory does not exist: %s", abs)
	}
	if !info.IsDir() {
		return fmt.Errorf("dirs: not a directory: %s", abs)
	}

	aliases, err := r.Load()
	if err != nil {
		return err
	}
	if _, exists := aliases[alias]; exists && !force {
		return fmt.Errorf("dirs: %q: %w", alias, ErrAliasExists)
	}
	aliases[alias] = abs
	return r.save(aliases)
}

// Remove deletes an alias and returns the path it pointed to.
func (r *Registry) Remove(alias string) (string, error) {
	aliases, err := r.Load()
	if err != nil {
		return "", err
	}
	path, ok := aliases[alias]
	if !ok {
		return "", fmt.Errorf("dirs: %q: %w", alias, ErrAliasNotFound)
	}
	delete(aliases, alias)
	if err := r.save(aliases); err != nil {
		return "", err
	}
	return path, nil
}

// List returns all aliases sorted by name.
func (r *Registry) List() ([]Alias, error) {
	aliases, err := r.Load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Alias, 0, len(names))
	for _, name := range names {
		path := aliases[name]
		info, err := os.Stat(path)
		out = append(out, Alias{
			Name:   name,
			Path:   path,
			Exists: err == nil && info.IsDir(),
		})
	}
	return out, nil
}
