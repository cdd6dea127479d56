package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/neverliie/nlpm/pkg/config"
	"github.com/neverliie/nlpm/pkg/driver"
	"github.com/neverliie/nlpm/pkg/store"
)

// installFromGit is the fallback for dependencies that carry a git source and
// are not in the local registry. The repository is cloned into the nlpm cache,
// pinned to dep.Rev when set, and the tree is copied into destRoot.
func installFromGit(dep *driver.Dependency, destRoot string) (string, error) {
	checkout, err := ensureGitCheckout(dep)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(destRoot, strings.ReplaceAll(dep.Name, "-", "_"))
	if err := copyTree(checkout, dest); err != nil {
		return "", fmt.Errorf("copy %s checkout: %w", dep.Name, err)
	}
	return dest, nil
}

// ensureGitCheckout clones (or reuses) the cached checkout for a git
// dependency and returns its directory.
func ensureGitCheckout(dep *driver.Dependency) (string, error) {
	rev := strings.TrimSpace(dep.Rev)
	segment := rev
	if segment == "" {
		segment = "head"
	}
	cacheDir := filepath.Join(config.Home(), "cache", "git", dep.Name, segment)
	if _, err := os.Stat(cacheDir); err == nil {
		return cacheDir, nil
	}

	tmpDir, err := os.MkdirTemp(filepath.Dir(cacheDir), "git-fetch-*")
	if err != nil {
		if mkErr := os.MkdirAll(filepath.Dir(cacheDir), 0o755); mkErr != nil {
			return "", mkErr
		}
		tmpDir, err = os.MkdirTemp(filepath.Dir(cacheDir), "git-fetch-*")
		if err != nil {
			return "", err
		}
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: dep.Git})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", dep.Git, err)
	}

	if rev != "" {
		hash, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", fmt.Errorf("resolve revision %s: %w", rev, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", err
		}
		if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", fmt.Errorf("git checkout %s: %w", rev, err)
		}
	}

	if err := os.Rename(tmpDir, cacheDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return cacheDir, nil
}

// copyTree copies a checkout into dest, skipping the .git directory. Files go
// through the content store so repeated installs dedupe.
func copyTree(src, dest string) error {
	st := store.New("")
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		hash, err := st.Add(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		return st.Checkout(hash, filepath.Join(dest, rel))
	})
}
