// Package driver loads and saves the yaml manifests nlpm works with:
// nlpm.lib.yaml for library authors, nlpm.yaml for consumers, and
// nlpm-script.yaml for script registration.
package driver

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LibConfig models nlpm.lib.yaml.
type LibConfig struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Language    string   `yaml:"language"`
	Framework   string   `yaml:"framework"`
	Author      string   `yaml:"author"`
	License     string   `yaml:"license"`
	Keywords    []string `yaml:"keywords"`
	SourceDir   string   `yaml:"source_dir"`
	ImportName  string   `yaml:"import_name"`
}

// DefaultLibConfig is the template written by init-lib.
func DefaultLibConfig() *LibConfig {
	return &LibConfig{
		Name:        "my-library",
		Version:     "0.1.0",
		Description: "A short description",
		Language:    "python",
		Framework:   "none",
		Author:      "Your Name",
		License:     "MIT",
		Keywords:    []string{"tag1"},
		SourceDir:   "./src",
		ImportName:  "my_library",
	}
}

// EffectiveImportName is the directory name installs hydrate into: the
// declared import name, or the library name with hyphens replaced.
func (c *LibConfig) EffectiveImportName() string {
	if c.ImportName != "" {
		return c.ImportName
	}
	return strings.ReplaceAll(c.Name, "-", "_")
}

// Dependency is one entry of a project's dependency list. Git and Rev select
// an optional git source used when the library is not in the local registry.
type Dependency struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Path    string `yaml:"path"`
	Git     string `yaml:"git,omitempty"`
	Rev     string `yaml:"rev,omitempty"`
}

// Project models nlpm.yaml.
type Project struct {
	Dependencies []*Dependency `yaml:"dependencies"`
}

// Upsert records an installed dependency, replacing any entry with the same
// name.
func (p *Project) Upsert(name, version, path string) {
	for _, dep := range p.Dependencies {
		if dep.Name == name {
			dep.Version = version
			dep.Path = path
			return
		}
	}
	p.Dependencies = append(p.Dependencies, &Dependency{Name: name, Version: version, Path: path})
}

// LoadLibConfig reads nlpm.lib.yaml from path. A missing file returns nil
// without error, matching the optional-manifest convention.
func LoadLibConfig(path string) (*LibConfig, error) {
	var conf LibConfig
	ok, err := loadYAML(path, &conf)
	if err != nil || !ok {
		return nil, err
	}
	return &conf, nil
}

// Save writes the config back to path.
func (c *LibConfig) Save(path string) error {
	return saveYAML(path, c)
}

// LoadProject reads nlpm.yaml from path. A missing file returns nil without
// error.
func LoadProject(path string) (*Project, error) {
	var proj Project
	ok, err := loadYAML(path, &proj)
	if err != nil || !ok {
		return nil, err
	}
	return &proj, nil
}

// Save writes the project back to path.
func (p *Project) Save(path string) error {
	return saveYAML(path, p)
}

func loadYAML(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("driver: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("driver: parse %s: %w", path, err)
	}
	return true, nil
}

func saveYAML(path string, in any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("driver: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("driver: write %s: %w", path, err)
	}
	return nil
}
