package icons

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/icon-manager/iconman/pkg/errors"
)

const (
	// MarkerName is the marker file written into tagged folders.
	MarkerName = "desktop.ini"
	// AppEntry is the ownership sentinel. Marker files lacking this
	// line belong to someone else and are never modified or deleted.
	AppEntry = "IconManager=1"
	// IconFolderName holds the copied icon inside a tagged folder.
	IconFolderName = "__icon__"
	// ArchiveFolderName receives retired library icons.
	ArchiveFolderName = "__archive__"
)

// MarkerContent renders the exact marker file body for an icon path.
func MarkerContent(iconPath string) string {
	lines := []string{
		"[.ShellClassInfo]",
		"IconResource=" + iconPath + ",0",
		AppEntry,
		"[ViewState]",
		"Mode=",
		"Vid=",
		"FolderType=Generic",
	}
	return strings.Join(lines, "\n")
}

// IsAppFile reports whether the file at path is a marker this app
// wrote, by presence of the ownership sentinel.
func IsAppFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, AppEntry) {
			return true
		}
	}
	return false
}

// CanWrite reports whether a marker may be written at path: either no
// file exists yet, or the existing one is app-owned.
func CanWrite(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return true
	}
	return IsAppFile(path)
}

// MatchedFolder is a folder a setting matched, with the derived marker
// and icon locations.
type MatchedFolder struct {
	Path    string
	Name    string
	Setting *Setting
}

// NewMatchedFolder binds a matched folder path to its setting.
func NewMatchedFolder(path string, setting *Setting) *MatchedFolder {
	return &MatchedFolder{Path: path, Name: filepath.Base(path), Setting: setting}
}

// MarkerPath is where this folder's marker file lives.
func (m *MatchedFolder) MarkerPath() string {
	return filepath.Join(m.Path, MarkerName)
}

// IconFolderPath is the hidden subfolder holding a copied icon.
func (m *MatchedFolder) IconFolderPath() string {
	return filepath.Join(m.Path, IconFolderName)
}

// LocalIconPath is where the copied library icon lives.
func (m *MatchedFolder) LocalIconPath() string {
	return filepath.Join(m.IconFolderPath(), m.Setting.Icon.FileName())
}

// IconPathForMarker resolves the icon reference the marker carries: the
// relative path of the local copy when one exists, else the library
// absolute path.
func (m *MatchedFolder) IconPathForMarker() string {
	local := m.LocalIconPath()
	if _, err := os.Stat(local); err == nil {
		if rel, relErr := filepath.Rel(m.Path, local); relErr == nil {
			return rel
		}
	}
	return m.Setting.Icon.Path
}

func (m *MatchedFolder) String() string {
	return m.Name + " [" + m.Setting.String() + "]"
}

// copyFile copies src to dst, creating dst's directory if needed.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "reading %q", src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "creating %q", filepath.Dir(dst))
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "writing %q", dst)
	}
	return nil
}
