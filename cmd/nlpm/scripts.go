package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/neverliie/nlpm/pkg/config"
	"github.com/neverliie/nlpm/pkg/driver"
	"github.com/neverliie/nlpm/pkg/interpreter"
)

var scriptNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// initScript writes a template nlpm-script.yaml into the current directory.
func initScript() int {
	if _, err := os.Stat(config.ScriptConfigFile); err == nil {
		errorf("%s already exists", config.ScriptConfigFile)
		return 1
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	if err := driver.DefaultScriptConfig(cwd).Save(config.ScriptConfigFile); err != nil {
		errorf("%v", err)
		return 1
	}
	infof("Created %s. Edit it, then run 'nlpm register-script'.", config.ScriptConfigFile)
	return 0
}

// registerScript installs a script globally under the nlpm home. A config with
// a script path copies the .nlps file as-is; a config with a command is
// transpiled to nlps source first.
func registerScript() int {
	conf, err := driver.LoadScriptConfig(config.ScriptConfigFile)
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if conf == nil {
		errorf("%s not found. Run 'nlpm init-script' first.", config.ScriptConfigFile)
		return 1
	}

	if !scriptNamePattern.MatchString(conf.Name) {
		errorf("invalid script name %q: use letters, digits, '-' and '_'", conf.Name)
		return 1
	}
	if builtinCommands[conf.Name] {
		errorf("%q is a built-in command and cannot be used as a script name", conf.Name)
		return 1
	}

	var source string
	switch {
	case conf.Script != "":
		data, err := os.ReadFile(conf.Script)
		if err != nil {
			errorf("read script %s: %v", conf.Script, err)
			return 1
		}
		source = string(data)
	case conf.Command != "":
		if conf.Cwd == "" {
			if cwd, err := os.Getwd(); err == nil {
				conf.Cwd = cwd
			} else {
				conf.Cwd = "."
			}
		}
		source = conf.Transpile()
	default:
		errorf("%s needs either 'script' or 'command'", config.ScriptConfigFile)
		return 1
	}

	dir := config.ScriptsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		errorf("scripts dir: %v", err)
		return 1
	}
	dest := filepath.Join(dir, conf.Name+config.ScriptExt)
	if err := os.WriteFile(dest, []byte(source), 0o644); err != nil {
		errorf("write %s: %v", dest, err)
		return 1
	}
	infof("Registered script '%s'. Run it with 'nlpm %s'.", conf.Name, conf.Name)
	return 0
}

// listScripts prints every registered script with its description comment and
// the first command it runs.
func listScripts() int {
	entries, err := filepath.Glob(filepath.Join(config.ScriptsDir(), "*"+config.ScriptExt))
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Println("No scripts registered yet.")
		return 0
	}
	sort.Strings(entries)

	for _, path := range entries {
		name := strings.TrimSuffix(filepath.Base(path), config.ScriptExt)
		description, preview := scriptSummary(path)
		fmt.Println(name)
		if description != "" {
			fmt.Println("  " + description)
		}
		if preview != "" {
			fmt.Println("  > " + preview)
		}
	}
	return 0
}

// scriptSummary extracts the leading description comment and the first run
// line of a script file.
func scriptSummary(path string) (description, preview string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if description == "" && strings.HasPrefix(line, "#") {
			description = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			continue
		}
		if strings.HasPrefix(line, "run ") {
			preview = line
			break
		}
	}
	return description, preview
}

// runScriptFile executes a .nlps file directly. A bare registered script name
// is accepted too.
func runScriptFile(script string, args []string) int {
	path := script
	if _, err := os.Stat(path); err != nil && !strings.ContainsAny(script, `/\`) {
		registered := filepath.Join(config.ScriptsDir(), script+config.ScriptExt)
		if _, err := os.Stat(registered); err == nil {
			path = registered
		}
	}
	return interpreter.ExecuteScript(path, args)
}

// launchRegisteredScript runs the registered script with the given name, if
// one exists. On unix the process replaces itself; otherwise the script runs
// in-process.
func launchRegisteredScript(name string, args []string) (int, bool) {
	if !scriptNamePattern.MatchString(name) {
		return 0, false
	}
	path := filepath.Join(config.ScriptsDir(), name+config.ScriptExt)
	if _, err := os.Stat(path); err != nil {
		return 0, false
	}
	execScript(path, args)
	return interpreter.ExecuteScript(path, args), true
}
