package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/neverliie/nlpm/pkg/config"
	"github.com/neverliie/nlpm/pkg/driver"
	"github.com/neverliie/nlpm/pkg/registry"
	"github.com/neverliie/nlpm/pkg/store"
)

// publishIgnore are entries skipped when walking a library's source tree.
var publishIgnore = map[string]bool{
	".git":               true,
	"__pycache__":        true,
	"node_modules":       true,
	".DS_Store":          true,
	config.LibConfigFile: true,
}

// initLib writes a template nlpm.lib.yaml into the current directory.
func initLib() int {
	if _, err := os.Stat(config.LibConfigFile); err == nil {
		errorf("%s already exists", config.LibConfigFile)
		return 1
	}
	if err := driver.DefaultLibConfig().Save(config.LibConfigFile); err != nil {
		errorf("%v", err)
		return 1
	}
	infof("Created %s. Edit it, then run 'nlpm register'.", config.LibConfigFile)
	return 0
}

// registerLib records the library metadata from nlpm.lib.yaml in the registry.
func registerLib() int {
	conf, err := driver.LoadLibConfig(config.LibConfigFile)
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if conf == nil {
		errorf("%s not found. Run 'nlpm init-lib' first.", config.LibConfigFile)
		return 1
	}
	if conf.Name == "" {
		errorf("library name must not be empty")
		return 1
	}

	reg, err := registry.Open("")
	if err != nil {
		errorf("%v", err)
		return 1
	}
	defer reg.Close()

	err = reg.RegisterLibrary(registry.LibraryMeta{
		Name:        conf.Name,
		ImportName:  conf.EffectiveImportName(),
		Description: conf.Description,
		Language:    conf.Language,
		Framework:   conf.Framework,
		Author:      conf.Author,
		License:     conf.License,
		Keywords:    strings.Join(conf.Keywords, ","),
	})
	if err != nil {
		errorf("%v", err)
		return 1
	}
	infof("Registered library '%s'.", conf.Name)
	return 0
}

// publish walks the library's source directory, stores every file by content
// hash and records the version's file map in the registry.
func publish(force bool) int {
	conf, err := driver.LoadLibConfig(config.LibConfigFile)
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if conf == nil {
		errorf("%s not found. Run 'nlpm init-lib' first.", config.LibConfigFile)
		return 1
	}

	sourceDir := conf.SourceDir
	if sourceDir == "" {
		sourceDir = "."
	}
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		errorf("source_dir %s is not a directory", sourceDir)
		return 1
	}

	reg, err := registry.Open("")
	if err != nil {
		errorf("%v", err)
		return 1
	}
	defer reg.Close()

	exists, err := reg.LibraryExists(conf.Name)
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if !exists {
		errorf("library '%s' is not registered. Run 'nlpm register' first.", conf.Name)
		return 1
	}

	files, err := collectFiles(store.New(""), sourceDir)
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if len(files) == 0 {
		errorf("no files to publish under %s", sourceDir)
		return 1
	}

	err = reg.PublishVersion(conf.Name, conf.Version, files)
	if force && errors.Is(err, registry.ErrVersionExists) {
		if err = reg.DeleteVersion(conf.Name, conf.Version); err == nil {
			err = reg.PublishVersion(conf.Name, conf.Version, files)
		}
	}
	if err != nil {
		errorf("%v", err)
		return 1
	}
	infof("Published %s@%s (%d files).", conf.Name, conf.Version, len(files))
	return 0
}

// collectFiles stores every file under root and returns relative slash paths
// mapped to content hashes.
func collectFiles(st *store.Store, root string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if publishIgnore[entry.Name()] {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		hash, err := st.Add(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = hash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
