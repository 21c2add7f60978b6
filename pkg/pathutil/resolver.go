// Package pathutil provides centralized path management for statement
// output and the run-history database.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathResolver manages paths under the output root.
type PathResolver struct {
	outputRoot   string
	databasePath string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// OutputRoot is the directory OFX statements are written into.
	OutputRoot string
	// DatabasePath is the path to the SQLite run-history database.
	DatabasePath string
}

// New creates a new PathResolver. If DatabasePath is empty it defaults to
// {OutputRoot}/.history/runs.db. A leading ~ in either path is expanded to
// the user's home directory.
func New(config Config) *PathResolver {
	root := ExpandHome(config.OutputRoot)

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(root, ".history", "runs.db")
	} else {
		dbPath = ExpandHome(dbPath)
	}

	return &PathResolver{
		outputRoot:   root,
		databasePath: dbPath,
	}
}

// GetOutputRoot returns the output root directory.
func (p *PathResolver) GetOutputRoot() string {
	return p.outputRoot
}

// GetDatabasePath returns the run-history database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetStatementPath resolves a statement file path. A relative path is
// placed under the output root; an absolute path is kept as given.
func (p *PathResolver) GetStatementPath(name string) string {
	name = ExpandHome(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.outputRoot, name)
}

// EnsureDir creates a directory if it doesn't exist, with parents.
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	return p.EnsureDir(filepath.Dir(filePath))
}

// ExpandHome expands a leading ~ to the user's home directory. Paths that
// cannot be expanded are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
