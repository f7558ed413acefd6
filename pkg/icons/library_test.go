package icons_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icon-manager/iconman/pkg/icons"
	"github.com/icon-manager/iconman/pkg/paths"
)

const pyConfig = `{
	"order": 3,
	"copy_icon": true,
	"config": {
		"name": {
			"rules": [{"equals": ["projectx"]}]
		}
	}
}`

const emptyConfig = `{"order": 5, "config": {}}`

func TestScanLibraryPairsIconsWithConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "py.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "py.json"), pyConfig)
	writeFile(t, filepath.Join(dir, "lonely.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not an icon")
	writeFile(t, filepath.Join(dir, "__archive__", "old.ico"), "ICO")

	library, err := icons.ScanLibrary(dir)
	require.NoError(t, err)

	require.Len(t, library.Icons, 2)
	require.Len(t, library.Settings, 1)

	setting := library.Settings[0]
	assert.Equal(t, "py", setting.Name())
	assert.Equal(t, 3, setting.Manager.Weight)
	require.NotNil(t, setting.CopyIcon())
	assert.True(t, *setting.CopyIcon())
}

func TestScanLibraryMissingPath(t *testing.T) {
	_, err := icons.ScanLibrary(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScanLibraryBadConfigFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "py.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "py.json"), `{"config": {"name": {"rules": [{}]}}}`)

	_, err := icons.ScanLibrary(dir)
	assert.Error(t, err)
}

func TestBuildSettingsDropsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "py.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "py.json"), pyConfig)
	writeFile(t, filepath.Join(dir, "empty.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "empty.json"), emptyConfig)

	library, err := icons.ScanLibrary(dir)
	require.NoError(t, err)
	require.Len(t, library.Settings, 2)

	ready := icons.BuildSettings(library.Settings, nil)
	require.Len(t, ready, 1)
	assert.Equal(t, "py", ready[0].Name())
}

func TestFirstMatchHonorsPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "heavy.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "heavy.json"),
		`{"order": 7, "config": {"name": {"rules": [{"contains": ["project"]}]}}}`)
	writeFile(t, filepath.Join(dir, "light.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "light.json"),
		`{"order": 3, "config": {"name": {"rules": [{"contains": ["project"]}]}}}`)

	library, err := icons.ScanLibrary(dir)
	require.NoError(t, err)
	ready := icons.BuildSettings(library.Settings, nil)

	entry := paths.NewFolder("/work/projectx", nil)
	match := icons.FirstMatch(ready, entry)
	require.NotNil(t, match)
	assert.Equal(t, "light", match.Name())
}

func TestWriterCopyIconWritesRelativeMarker(t *testing.T) {
	libDir := t.TempDir()
	writeFile(t, filepath.Join(libDir, "py.ico"), "ICODATA")
	writeFile(t, filepath.Join(libDir, "py.json"), pyConfig)

	library, err := icons.ScanLibrary(libDir)
	require.NoError(t, err)
	setting := library.Settings[0]

	folder := t.TempDir()
	matched := icons.NewMatchedFolder(folder, setting)

	writer := icons.NewWriter(icons.NewLogAttrib(), false)
	require.NoError(t, writer.Write(matched, true))

	copied, err := os.ReadFile(matched.LocalIconPath())
	require.NoError(t, err)
	assert.Equal(t, "ICODATA", string(copied))

	marker, err := os.ReadFile(matched.MarkerPath())
	require.NoError(t, err)
	assert.Contains(t, string(marker),
		"IconResource="+filepath.Join("__icon__", "py.ico")+",0")
	assert.True(t, icons.IsAppFile(matched.MarkerPath()))
}

func TestWriterWithoutCopyReferencesLibrary(t *testing.T) {
	libDir := t.TempDir()
	writeFile(t, filepath.Join(libDir, "py.ico"), "ICO")
	writeFile(t, filepath.Join(libDir, "py.json"), pyConfig)

	library, err := icons.ScanLibrary(libDir)
	require.NoError(t, err)
	setting := library.Settings[0]

	folder := t.TempDir()
	matched := icons.NewMatchedFolder(folder, setting)

	writer := icons.NewWriter(icons.NewLogAttrib(), false)
	require.NoError(t, writer.Write(matched, false))

	_, err = os.Stat(matched.IconFolderPath())
	assert.True(t, os.IsNotExist(err))

	marker, err := os.ReadFile(matched.MarkerPath())
	require.NoError(t, err)
	assert.Contains(t, string(marker), "IconResource="+setting.Icon.Path+",0")
}

func TestWriterRefusesForeignMarker(t *testing.T) {
	libDir := t.TempDir()
	icon := libraryIcon(t, libDir, "py")
	setting := &icons.Setting{Icon: icon}

	folder := t.TempDir()
	matched := icons.NewMatchedFolder(folder, setting)
	writeFile(t, matched.MarkerPath(), "[.ShellClassInfo]\nIconResource=theirs.ico,0\n")

	writer := icons.NewWriter(icons.NewLogAttrib(), false)
	err := writer.Write(matched, false)
	require.Error(t, err)

	// The foreign file is untouched.
	content, readErr := os.ReadFile(matched.MarkerPath())
	require.NoError(t, readErr)
	assert.NotContains(t, string(content), "IconManager=1")
}

func TestWriterDryRunTouchesNothing(t *testing.T) {
	libDir := t.TempDir()
	icon := libraryIcon(t, libDir, "py")
	setting := &icons.Setting{Icon: icon}

	folder := t.TempDir()
	matched := icons.NewMatchedFolder(folder, setting)

	writer := icons.NewWriter(icons.NewLogAttrib(), true)
	require.NoError(t, writer.Write(matched, true))

	_, err := os.Stat(matched.MarkerPath())
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(matched.IconFolderPath())
	assert.True(t, os.IsNotExist(err))
}

func TestCreateTemplates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "py.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "py.json"), pyConfig)
	writeFile(t, filepath.Join(dir, "lonely.ico"), "ICO")

	library, err := icons.ScanLibrary(dir)
	require.NoError(t, err)

	created, err := icons.CreateTemplates(library, false)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.FileExists(t, filepath.Join(dir, "lonely.json"))

	// Existing configs survive without overwrite.
	content, err := os.ReadFile(filepath.Join(dir, "py.json"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "projectx")

	created, err = icons.CreateTemplates(library, true)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
}

func TestUpdateConfigsKeepsRules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "py.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "py.json"), pyConfig)

	library, err := icons.ScanLibrary(dir)
	require.NoError(t, err)

	updated, err := icons.UpdateConfigs(library)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	content, err := os.ReadFile(filepath.Join(dir, "py.json"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "projectx")
	assert.Contains(t, string(content), `"order": 3`)
}

func TestArchiveEmptyMovesArtwork(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "empty.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "empty.json"), emptyConfig)
	writeFile(t, filepath.Join(dir, "empty.png"), "PNG")
	writeFile(t, filepath.Join(dir, "py.ico"), "ICO")
	writeFile(t, filepath.Join(dir, "py.json"), pyConfig)

	library, err := icons.ScanLibrary(dir)
	require.NoError(t, err)

	archived, err := icons.ArchiveEmpty(library)
	require.NoError(t, err)
	assert.Equal(t, 1, archived)

	assert.NoFileExists(t, filepath.Join(dir, "empty.ico"))
	assert.NoFileExists(t, filepath.Join(dir, "empty.png"))
	assert.FileExists(t, filepath.Join(dir, "__archive__", "empty.ico"))
	assert.FileExists(t, filepath.Join(dir, "__archive__", "empty.json"))
	assert.FileExists(t, filepath.Join(dir, "__archive__", "empty.png"))

	// Non-empty settings stay in place.
	assert.FileExists(t, filepath.Join(dir, "py.ico"))
}
