package driver

import (
	"fmt"
	"sort"
	"strings"
)

// ScriptConfig models nlpm-script.yaml. Either Script points at an existing
// .nlps file, or Command (plus Cwd and Env) describes a simple one-command
// script that is transpiled during registration.
type ScriptConfig struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Command     string            `yaml:"command"`
	Script      string            `yaml:"script,omitempty"`
	Cwd         string            `yaml:"cwd"`
	Env         map[string]string `yaml:"env"`
}

// DefaultScriptConfig is the template written by init-script.
func DefaultScriptConfig(cwd string) *ScriptConfig {
	return &ScriptConfig{
		Name:        "my-script",
		Description: "A short description of what this script does",
		Command:     "echo 'Hello from NLPM script!'",
		Cwd:         cwd,
		Env:         map[string]string{},
	}
}

// LoadScriptConfig reads nlpm-script.yaml from path. A missing file returns
// nil without error.
func LoadScriptConfig(path string) (*ScriptConfig, error) {
	var conf ScriptConfig
	ok, err := loadYAML(path, &conf)
	if err != nil || !ok {
		return nil, err
	}
	return &conf, nil
}

// Save writes the config back to path.
func (c *ScriptConfig) Save(path string) error {
	return saveYAML(path, c)
}

// Transpile renders the simple-command form as nlps source: a description
// comment, one assignment per environment variable, a cd to the working
// directory, and the run line. Backslashes become forward slashes so Windows
// paths survive inside string literals.
func (c *ScriptConfig) Transpile() string {
	description := c.Description
	if description == "" {
		description = fmt.Sprintf("Script: %s", c.Name)
	}

	lines := []string{"# " + description}

	keys := make([]string, 0, len(c.Env))
	for key := range c.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := strings.ReplaceAll(c.Env[key], `\`, "/")
		lines = append(lines, fmt.Sprintf("$%s = \"%s\"", key, value))
	}

	lines = append(lines, fmt.Sprintf("cd \"%s\"", strings.ReplaceAll(c.Cwd, `\`, "/")))
	lines = append(lines, "run "+c.Command)

	return strings.Join(lines, "\n")
}
