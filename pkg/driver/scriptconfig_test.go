package driver

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTranspileSimpleCommand(t *testing.T) {
	conf := &ScriptConfig{
		Name:        "serve",
		Description: "Start the dev server",
		Command:     "python -m http.server 8000",
		Cwd:         "/srv/app",
		Env: map[string]string{
			"PORT": "8000",
			"MODE": "dev",
		},
	}

	source := conf.Transpile()
	lines := strings.Split(source, "\n")
	if lines[0] != "# Start the dev server" {
		t.Fatalf("line 0 = %q", lines[0])
	}
	// Env assignments come sorted by key.
	if lines[1] != `$MODE = "dev"` || lines[2] != `$PORT = "8000"` {
		t.Fatalf("env lines = %q, %q", lines[1], lines[2])
	}
	if lines[3] != `cd "/srv/app"` {
		t.Fatalf("cd line = %q", lines[3])
	}
	if lines[4] != "run python -m http.server 8000" {
		t.Fatalf("run line = %q", lines[4])
	}
}

func TestTranspileConvertsBackslashes(t *testing.T) {
	conf := &ScriptConfig{
		Name:    "win",
		Command: "dir",
		Cwd:     `C:\Users\dev\project`,
		Env:     map[string]string{"ROOT": `C:\tools`},
	}
	source := conf.Transpile()
	if strings.Contains(source, `\`) {
		t.Fatalf("backslashes survived transpile:\n%s", source)
	}
	if !strings.Contains(source, `cd "C:/Users/dev/project"`) {
		t.Fatalf("cwd not converted:\n%s", source)
	}
}

func TestTranspileDefaultDescription(t *testing.T) {
	conf := &ScriptConfig{Name: "mystery", Command: "true", Cwd: "/"}
	source := conf.Transpile()
	if !strings.HasPrefix(source, "# Script: mystery") {
		t.Fatalf("missing fallback description:\n%s", source)
	}
}

func TestScriptConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nlpm-script.yaml")
	original := DefaultScriptConfig("/work")
	original.Name = "build"
	if err := original.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadScriptConfig(path)
	if err != nil {
		t.Fatalf("LoadScriptConfig: %v", err)
	}
	if loaded == nil || loaded.Name != "build" || loaded.Cwd != "/work" {
		t.Fatalf("loaded = %#v", loaded)
	}
}

func TestLoadScriptConfigMissingFileIsNil(t *testing.T) {
	conf, err := LoadScriptConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadScriptConfig: %v", err)
	}
	if conf != nil {
		t.Fatalf("conf = %#v, want nil", conf)
	}
}
