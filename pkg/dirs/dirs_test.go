package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "cdr_registry.json"))
}

func TestRegisterAndResolve(t *testing.T) {
	reg := newTestRegistry(t)
	target := t.TempDir()

	if err := reg.Register("work", target, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	path, err := reg.Resolve("work")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	abs, _ := filepath.Abs(target)
	if path != abs {
		t.Fatalf("Resolve = %q, want %q", path, abs)
	}
}

func TestResolveUnknownAlias(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.Resolve("ghost")
	if !errors.Is(err, ErrAliasNotFound) {
		t.Fatalf("error = %v, want ErrAliasNotFound", err)
	}
}

func TestRegisterExistingAliasNeedsForce(t *testing.T) {
	reg := newTestRegistry(t)
	first := t.TempDir()
	second := t.TempDir()

	if err := reg.Register("work", first, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := reg.Register("work", second, false)
	if !errors.Is(err, ErrAliasExists) {
		t.Fatalf("error = %v, want ErrAliasExists", err)
	}
	if err := reg.Register("work", second, true); err != nil {
		t.Fatalf("forced Register: %v", err)
	}
	path, err := reg.Resolve("work")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	abs, _ := filepath.Abs(second)
	if path != abs {
		t.Fatalf("Resolve = %q, want %q after force", path, abs)
	}
}

func TestRegisterMissingDirectoryFails(t *testing.T) {
	reg := newTestRegistry(t)
	err := reg.Register("bad", filepath.Join(t.TempDir(), "missing"), false)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestResolveVanishedDirectoryFails(t *testing.T) {
	reg := newTestRegistry(t)
	target := filepath.Join(t.TempDir(), "gone")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := reg.Register("gone", target, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := os.Remove(target); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := reg.Resolve("gone"); err == nil {
		t.Fatal("expected error for vanished directory")
	}
}

func TestRemove(t *testing.T) {
	reg := newTestRegistry(t)
	target := t.TempDir()
	if err := reg.Register("work", target, false); err != nil {
		t.Fatalf("Register: %v", err)
	}

	path, err := reg.Remove("work")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	abs, _ := filepath.Abs(target)
	if path != abs {
		t.Fatalf("Remove returned %q, want %q", path, abs)
	}
	if _, err := reg.Remove("work"); !errors.Is(err, ErrAliasNotFound) {
		t.Fatalf("second Remove error = %v, want ErrAliasNotFound", err)
	}
}

func TestListSortedWithExistsFlag(t *testing.T) {
	reg := newTestRegistry(t)
	live := t.TempDir()
	dead := filepath.Join(t.TempDir(), "dead")
	if err := os.Mkdir(dead, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := reg.Register("zeta", live, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register("alpha", dead, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := os.Remove(dead); err != nil {
		t.Fatalf("remove: %v", err)
	}

	aliases, err := reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(aliases) != 2 || aliases[0].Name != "alpha" || aliases[1].Name != "zeta" {
		t.Fatalf("List = %#v", aliases)
	}
	if aliases[0].Exists {
		t.Fatal("alpha target was removed; Exists should be false")
	}
	if !aliases[1].Exists {
		t.Fatal("zeta target exists; Exists should be true")
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	reg := newTestRegistry(t)
	aliases, err := reg.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(aliases) != 0 {
		t.Fatalf("Load = %#v, want empty", aliases)
	}
}
