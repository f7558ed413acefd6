// Package testutil provides filesystem fixtures for tests: icon
// libraries, search-root trees, and tagged folders.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateFile writes a file under dir, creating parent directories as
// needed, and returns its path.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// CreateDir creates a directory under parent and returns its path.
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// CreateLibraryIcon writes an icon file and, when config is non-empty,
// its sibling rule config. Returns the icon path.
func CreateLibraryIcon(t *testing.T, libDir, name, config string) string {
	t.Helper()

	iconPath := CreateFile(t, libDir, name+".ico", "ICO:"+name)
	if config != "" {
		CreateFile(t, libDir, name+".json", config)
	}
	return iconPath
}

// CreateUserConfig writes a user config file into dir and returns its
// path.
func CreateUserConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	return CreateFile(t, dir, name+".config", content)
}

// ReadFile returns the file's content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}
