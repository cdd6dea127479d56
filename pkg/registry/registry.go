// Package registry stores library metadata, published versions and their file
// maps in a SQLite database under the nlpm home.
package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/neverliie/nlpm/pkg/config"
)

// ErrVersionExists is returned when publishing a version that is already
// registered for the library.
var ErrVersionExists = errors.New("version already exists")

// ErrNotRegistered is returned when publishing against an unregistered
// library name.
var ErrNotRegistered = errors.New("library not registered")

// LibraryMeta is the registered metadata for one library name.
type LibraryMeta struct {
	Name        string
	ImportName  string
	Description string
	Language    string
	Framework   string
	Author      string
	License     string
	Keywords    string
}

// LibraryInfo is one row of a registry listing.
type LibraryInfo struct {
	Name          string
	LatestVersion string
	Language      string
	Framework     string
}

// Registry wraps the registry database.
type Registry struct {
	db *sql.DB
}

// Open opens (and if necessary creates and migrates) the registry database at
// path; an empty path selects the default under the nlpm home.
func Open(path string) (*Registry, error) {
	if path == "" {
		path = config.RegistryDB()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("registry: home dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", path, err)
	}
	r := &Registry{db: db}
	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the database handle.
func (r *Registry) Close() error {
	return r.db.Close()
}

func (r *Registry) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS libraries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			import_name TEXT,
			description TEXT,
			language TEXT,
			framework TEXT,
			author TEXT,
			license TEXT,
			keywords TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS versions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			library_id INTEGER NOT NULL,
			version TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(library_id) REFERENCES libraries(id),
			UNIQUE(library_id, version)
		)`,
		`CREATE TABLE IF NOT EXISTS package_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version_id INTEGER NOT NULL,
			file_path TEXT NOT NULL,
			file_hash TEXT NOT NULL,
			FOREIGN KEY(version_id) REFERENCES versions(id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("registry: schema: %w", err)
		}
	}

	// Databases created before the metadata columns existed migrate in place.
	for _, col := range []string{"language", "framework", "author", "license", "keywords"} {
		_, _ = r.db.Exec(fmt.Sprintf("ALTER TABLE libraries ADD COLUMN %s TEXT", col))
	}
	return nil
}

// LibraryExists reports whether the name is registered.
func (r *Registry) LibraryExists(name string) (bool, error) {
	var id int64
	err := r.db.QueryRow("SELECT id FROM libraries WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("registry: lookup %s: %w", name, err)
	}
	return true, nil
}

// RegisterLibrary reserves the library name, or updates its metadata if it is
// already registered.
func (r *Registry) RegisterLibrary(meta LibraryMeta) error {
	exists, err := r.LibraryExists(meta.Name)
	if err != nil {
		return err
	}

	now := time.Now()
	if exists {
		_, err = r.db.Exec(`UPDATE libraries
			SET import_name=?, description=?, language=?, framework=?, author=?, license=?, keywords=?, updated_at=?
			WHERE name=?`,
			meta.ImportName, meta.Description, meta.Language, meta.Framework,
			meta.Author, meta.License, meta.Keywords, now, meta.Name)
	} else {
		_, err = r.db.Exec(`INSERT INTO libraries
			(name, import_name, description, language, framework, author, license, keywords, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			meta.Name, meta.ImportName, meta.Description, meta.Language,
			meta.Framework, meta.Author, meta.License, meta.Keywords, now)
	}
	if err != nil {
		return fmt.Errorf("registry: register %s: %w", meta.Name, err)
	}
	return nil
}

// ImportName returns the registered import name for a library, or "" when the
// library is unknown or has none recorded.
func (r *Registry) ImportName(name string) (string, error) {
	var importName sql.NullString
	err := r.db.QueryRow("SELECT import_name FROM libraries WHERE name = ?", name).Scan(&importName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("registry: import name %s: %w", name, err)
	}
	return importName.String, nil
}

// PublishVersion records a new version with its file map (relative path →
// content hash). Publishing an existing version fails with ErrVersionExists.
func (r *Registry) PublishVersion(name, version string, files map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("registry: publish %s@%s: %w", name, version, err)
	}
	defer tx.Rollback()

	var libID int64
	err = tx.QueryRow("SELECT id FROM libraries WHERE name = ?", name).Scan(&libID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("registry: %s: %w", name, ErrNotRegistered)
	}
	if err != nil {
		return fmt.Errorf("registry: publish %s@%s: %w", name, version, err)
	}

	var existing int64
	err = tx.QueryRow("SELECT id FROM versions WHERE library_id = ? AND version = ?", libID, version).Scan(&existing)
	if err == nil {
		return fmt.Errorf("registry: %s@%s: %w", name, version, ErrVersionExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("registry: publish %s@%s: %w", name, version, err)
	}

	res, err := tx.Exec("INSERT INTO versions (library_id, version) VALUES (?, ?)", libID, version)
	if err != nil {
		return fmt.Errorf("registry: publish %s@%s: %w", name, version, err)
	}
	versionID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("registry: publish %s@%s: %w", name, version, err)
	}

	for path, hash := range files {
		if _, err := tx.Exec(
			"INSERT INTO package_files (version_id, file_path, file_hash) VALUES (?, ?, ?)",
			versionID, path, hash); err != nil {
			return fmt.Errorf("registry: publish %s@%s: %w", name, version, err)
		}
	}

	if _, err := tx.Exec("UPDATE libraries SET updated_at = ? WHERE id = ?", time.Now(), libID); err != nil {
		return fmt.Errorf("registry: publish %s@%s: %w", name, version, err)
	}
	return tx.Commit()
}

// DeleteVersion removes one published version together with its file map. It
// is a no-op when the version does not exist.
func (r *Registry) DeleteVersion(name, version string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("registry: delete %s@%s: %w", name, version, err)
	}
	defer tx.Rollback()

	var versionID int64
	err = tx.QueryRow(`SELECT v.id FROM versions v
		JOIN libraries l ON v.library_id = l.id
		WHERE l.name = ? AND v.version = ?`, name, version).Scan(&versionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("registry: delete %s@%s: %w", name, version, err)
	}

	if _, err := tx.Exec("DELETE FROM package_files WHERE version_id = ?", versionID); err != nil {
		return fmt.Errorf("registry: delete %s@%s: %w", name, version, err)
	}
	if _, err := tx.Exec("DELETE FROM versions WHERE id = ?", versionID); err != nil {
		return fmt.Errorf("registry: delete %s@%s: %w", name, version, err)
	}
	return tx.Commit()
}

// LatestVersion returns the most recently published version of a library, or
// "" when none exists.
func (r *Registry) LatestVersion(name string) (string, error) {
	var version string
	err := r.db.QueryRow(`SELECT v.version
		FROM versions v
		JOIN libraries l ON v.library_id = l.id
		WHERE l.name = ?
		ORDER BY v.created_at DESC, v.id DESC
		LIMIT 1`, name).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("registry: latest %s: %w", name, err)
	}
	return version, nil
}

// PackageFiles returns the file map of one published version, or nil when the
// version is unknown.
func (r *Registry) PackageFiles(name, version string) (map[string]string, error) {
	rows, err := r.db.Query(`SELECT pf.file_path, pf.file_hash
		FROM package_files pf
		JOIN versions v ON pf.version_id = v.id
		JOIN libraries l ON v.library_id = l.id
		WHERE l.name = ? AND v.version = ?`, name, version)
	if err != nil {
		return nil, fmt.Errorf("registry: files %s@%s: %w", name, version, err)
	}
	defer rows.Close()

	var files map[string]string
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, fmt.Errorf("registry: files %s@%s: %w", name, version, err)
		}
		if files == nil {
			files = make(map[string]string)
		}
		files[path] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry: files %s@%s: %w", name, version, err)
	}
	return files, nil
}

// ListLibraries returns every registered library with its latest version,
// ordered by name.
func (r *Registry) ListLibraries() ([]LibraryInfo, error) {
	rows, err := r.db.Query("SELECT name, language, framework FROM libraries ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("registry: list: %w", err)
	}
	defer rows.Close()

	var infos []LibraryInfo
	for rows.Next() {
		var info LibraryInfo
		var language, framework sql.NullString
		if err := rows.Scan(&info.Name, &language, &framework); err != nil {
			return nil, fmt.Errorf("registry: list: %w", err)
		}
		info.Language = language.String
		info.Framework = framework.String
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry: list: %w", err)
	}

	for idx := range infos {
		latest, err := r.LatestVersion(infos[idx].Name)
		if err != nil {
			return nil, err
		}
		infos[idx].LatestVersion = latest
	}
	return infos, nil
}
