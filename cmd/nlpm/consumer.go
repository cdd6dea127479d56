package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/neverliie/nlpm/pkg/config"
	"github.com/neverliie/nlpm/pkg/driver"
	"github.com/neverliie/nlpm/pkg/registry"
	"github.com/neverliie/nlpm/pkg/store"
)

// install hydrates libraries from the store. With a target ("name" or
// "name:version") it installs that one library; without, it installs every
// dependency listed in nlpm.yaml.
func install(target, destRoot string) int {
	reg, err := registry.Open("")
	if err != nil {
		errorf("%v", err)
		return 1
	}
	defer reg.Close()
	st := store.New("")

	if target != "" {
		name, version := splitTarget(target)
		if destRoot == "" {
			destRoot = "."
		}
		path, resolved, err := installSingle(reg, st, name, version, destRoot)
		if err != nil {
			errorf("%v", err)
			return 1
		}
		if err := recordDependency(name, resolved, path); err != nil {
			errorf("%v", err)
			return 1
		}
		infof("Installed %s@%s into %s.", name, resolved, path)
		return 0
	}

	proj, err := driver.LoadProject(config.ProjectConfigFile)
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if proj == nil || len(proj.Dependencies) == 0 {
		infof("Nothing to install: %s has no dependencies.", config.ProjectConfigFile)
		return 0
	}

	failed := 0
	for _, dep := range proj.Dependencies {
		root := dep.Path
		if root == "" {
			root = "."
		}
		path, resolved, err := installSingle(reg, st, dep.Name, dep.Version, root)
		if err != nil && dep.Git != "" {
			path, err = installFromGit(dep, root)
			resolved = dep.Version
		}
		if err != nil {
			errorf("%s: %v", dep.Name, err)
			failed++
			continue
		}
		infof("Installed %s@%s into %s.", dep.Name, resolved, path)
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// installSingle checks a version's files out of the store into
// destRoot/<import name>. An empty version selects the latest published one.
// It returns the hydrated directory and the resolved version.
func installSingle(reg *registry.Registry, st *store.Store, name, version, destRoot string) (string, string, error) {
	if version == "" {
		latest, err := reg.LatestVersion(name)
		if err != nil {
			return "", "", err
		}
		if latest == "" {
			return "", "", fmt.Errorf("library '%s' has no published versions", name)
		}
		version = latest
	}

	files, err := reg.PackageFiles(name, version)
	if err != nil {
		return "", "", err
	}
	if files == nil {
		return "", "", fmt.Errorf("%s@%s not found in the registry", name, version)
	}

	importName, err := reg.ImportName(name)
	if err != nil {
		return "", "", err
	}
	if importName == "" {
		importName = strings.ReplaceAll(name, "-", "_")
	}

	dest := filepath.Join(destRoot, importName)
	for rel, hash := range files {
		if err := st.Checkout(hash, filepath.Join(dest, filepath.FromSlash(rel))); err != nil {
			return "", "", err
		}
	}
	return dest, version, nil
}

// splitTarget splits "name:version"; a bare name selects the latest version.
func splitTarget(target string) (string, string) {
	name, version, _ := strings.Cut(target, ":")
	return name, version
}

// recordDependency upserts an installed library into nlpm.yaml, creating the
// manifest if needed.
func recordDependency(name, version, path string) error {
	proj, err := driver.LoadProject(config.ProjectConfigFile)
	if err != nil {
		return err
	}
	if proj == nil {
		proj = &driver.Project{}
	}
	proj.Upsert(name, version, path)
	return proj.Save(config.ProjectConfigFile)
}

// update reinstalls every dependency at its latest published version.
func update() int {
	proj, err := driver.LoadProject(config.ProjectConfigFile)
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if proj == nil || len(proj.Dependencies) == 0 {
		infof("Nothing to update: %s has no dependencies.", config.ProjectConfigFile)
		return 0
	}

	reg, err := registry.Open("")
	if err != nil {
		errorf("%v", err)
		return 1
	}
	defer reg.Close()
	st := store.New("")

	failed := 0
	for _, dep := range proj.Dependencies {
		if dep.Git != "" {
			// Git dependencies track the pinned rev; nothing to bump.
			continue
		}
		root := dep.Path
		if root == "" {
			root = "."
		}
		path, resolved, err := installSingle(reg, st, dep.Name, "", root)
		if err != nil {
			errorf("%s: %v", dep.Name, err)
			failed++
			continue
		}
		dep.Version = resolved
		infof("Updated %s to %s in %s.", dep.Name, resolved, path)
	}
	if err := proj.Save(config.ProjectConfigFile); err != nil {
		errorf("%v", err)
		return 1
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// listRegistry prints every registered library with its latest version.
func listRegistry() int {
	reg, err := registry.Open("")
	if err != nil {
		errorf("%v", err)
		return 1
	}
	defer reg.Close()

	infos, err := reg.ListLibraries()
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if len(infos) == 0 {
		fmt.Println("No libraries registered yet.")
		return 0
	}

	glyph := ""
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		glyph = "\U0001F4E6 "
	}
	for _, info := range infos {
		version := info.LatestVersion
		if version == "" {
			version = "(no versions)"
		}
		line := fmt.Sprintf("%s%s %s", glyph, info.Name, version)
		if info.Language != "" {
			line += " [" + info.Language
			if info.Framework != "" && info.Framework != "none" {
				line += "/" + info.Framework
			}
			line += "]"
		}
		fmt.Println(line)
	}
	return 0
}
