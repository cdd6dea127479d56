package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/neverliie/nlpm/pkg/store"
)

func TestSplitTarget(t *testing.T) {
	cases := []struct {
		target, name, version string
	}{
		{"http-utils", "http-utils", ""},
		{"http-utils:1.2.0", "http-utils", "1.2.0"},
		{"lib:1:extra", "lib", "1:extra"},
	}
	for _, c := range cases {
		name, version := splitTarget(c.target)
		if name != c.name || version != c.version {
			t.Fatalf("splitTarget(%q) = %q, %q; want %q, %q",
				c.target, name, version, c.name, c.version)
		}
	}
}

func TestCollectFilesSkipsIgnoredEntries(t *testing.T) {
	t.Setenv("NLPM_HOME", t.TempDir())
	root := t.TempDir()

	mustWrite := func(rel, content string) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	mustWrite("src/main.py", "print()")
	mustWrite(".git/config", "noise")
	mustWrite("__pycache__/main.pyc", "noise")
	mustWrite(".DS_Store", "noise")
	mustWrite("nlpm.lib.yaml", "name: x")

	files, err := collectFiles(store.New(""), root)
	if err != nil {
		t.Fatalf("collectFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %#v, want only src/main.py", files)
	}
	if _, ok := files["src/main.py"]; !ok {
		t.Fatalf("files = %#v, missing src/main.py", files)
	}
}

func TestScriptSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.nlps")
	source := "# Ship the app\n$ENV = \"prod\"\nrun make deploy\n"
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	description, preview := scriptSummary(path)
	if description != "Ship the app" {
		t.Fatalf("description = %q", description)
	}
	if preview != "run make deploy" {
		t.Fatalf("preview = %q", preview)
	}
}

func TestLaunchRegisteredScriptUnknownName(t *testing.T) {
	t.Setenv("NLPM_HOME", t.TempDir())
	if _, ok := launchRegisteredScript("no-such-script", nil); ok {
		t.Fatal("unknown script should not launch")
	}
	if _, ok := launchRegisteredScript("bad/name", nil); ok {
		t.Fatal("invalid script name should not launch")
	}
}

func TestBuiltinCommandsCoverUsage(t *testing.T) {
	for _, command := range []string{
		"init-lib", "register", "publish", "install", "update", "list",
		"init-script", "register-script", "list-scripts", "run",
		"cdr", "register-dir", "remove-dir", "list-dirs", "cdr-init",
	} {
		if !builtinCommands[command] {
			t.Fatalf("%q missing from builtinCommands", command)
		}
	}
}
