package icons_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icon-manager/iconman/pkg/icons"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func libraryIcon(t *testing.T, dir, name string) *icons.LibraryIcon {
	t.Helper()
	path := filepath.Join(dir, name+".ico")
	writeFile(t, path, "ICO")
	return icons.NewLibraryIcon(path)
}

func TestMarkerContentLayout(t *testing.T) {
	content := icons.MarkerContent(`C:\icons\py.ico`)
	lines := strings.Split(content, "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "[.ShellClassInfo]", lines[0])
	assert.Equal(t, `IconResource=C:\icons\py.ico,0`, lines[1])
	assert.Equal(t, "IconManager=1", lines[2])
	assert.Equal(t, "[ViewState]", lines[3])
	assert.Equal(t, "FolderType=Generic", lines[6])
}

func TestMarkerRoundTripRecognition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "desktop.ini")
	writeFile(t, path, icons.MarkerContent("/lib/py.ico"))
	assert.True(t, icons.IsAppFile(path))
}

func TestForeignMarkerNotRecognized(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "desktop.ini")
	writeFile(t, path, "[.ShellClassInfo]\nIconResource=other.ico,0\n")
	assert.False(t, icons.IsAppFile(path))
	assert.False(t, icons.CanWrite(path))
}

func TestCanWriteMissingFile(t *testing.T) {
	assert.True(t, icons.CanWrite(filepath.Join(t.TempDir(), "desktop.ini")))
}

func TestMatchedFolderPaths(t *testing.T) {
	libDir := t.TempDir()
	icon := libraryIcon(t, libDir, "py")
	setting := &icons.Setting{Icon: icon}

	folder := t.TempDir()
	matched := icons.NewMatchedFolder(folder, setting)

	assert.Equal(t, filepath.Join(folder, "desktop.ini"), matched.MarkerPath())
	assert.Equal(t, filepath.Join(folder, "__icon__"), matched.IconFolderPath())
	assert.Equal(t, filepath.Join(folder, "__icon__", "py.ico"), matched.LocalIconPath())

	// No local copy: the marker points at the library icon.
	assert.Equal(t, icon.Path, matched.IconPathForMarker())

	writeFile(t, matched.LocalIconPath(), "ICO")
	assert.Equal(t, filepath.Join("__icon__", "py.ico"), matched.IconPathForMarker())
}
