// Package config defines the on-disk layout of the nlpm home directory and the
// well-known manifest filenames shared by the CLI and the script engine.
package config

import (
	"os"
	"path/filepath"
)

// Well-known filenames looked up relative to the current project directory.
const (
	ProjectConfigFile = "nlpm.yaml"
	LockFile          = "nlpm.lock"
	LibConfigFile     = "nlpm.lib.yaml"
	ScriptConfigFile  = "nlpm-script.yaml"
)

// ScriptExt is the extension of registered script files.
const ScriptExt = ".nlps"

// Home returns the nlpm home directory. The NLPM_HOME environment variable
// overrides the default of ~/.nlpm.
func Home() string {
	if override := os.Getenv("NLPM_HOME"); override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nlpm"
	}
	return filepath.Join(home, ".nlpm")
}

// RegistryDB returns the path of the SQLite registry database.
func RegistryDB() string {
	return filepath.Join(Home(), "registry.db")
}

// StoreDir returns the root of the content-addressed file store.
func StoreDir() string {
	return filepath.Join(Home(), "store")
}

// ScriptsDir returns the directory holding registered global scripts.
func ScriptsDir() string {
	return filepath.Join(Home(), "scripts")
}

// DirRegistryFile returns the path of the directory-alias registry.
func DirRegistryFile() string {
	return filepath.Join(Home(), "cdr_registry.json")
}

// EnsureHome creates the nlpm home directory if it does not exist yet.
func EnsureHome() error {
	return os.MkdirAll(Home(), 0o755)
}
