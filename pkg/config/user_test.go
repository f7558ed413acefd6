package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icon-manager/iconman/pkg/config"
	"github.com/icon-manager/iconman/pkg/errors"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validUserConfig = `{
	"config": {
		"icons_path": "/library/icons",
		"search_folders": [
			{"path": "/work"},
			{"path": "/media", "copy_icon": true}
		],
		"copy_icon": false,
		"before_or_after": ["test_"],
		"code_folders": [".git"],
		"exclude_folders": ["node_modules"]
	}
}`

func TestLoadUserConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "home.config", validUserConfig)

	cfg, err := config.LoadUserConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "home", cfg.Name)
	assert.Equal(t, filepath.Clean("/library/icons"), cfg.IconsPath)
	require.Len(t, cfg.SearchFolders, 2)
	assert.Nil(t, cfg.SearchFolders[0].CopyIcon)
	require.NotNil(t, cfg.SearchFolders[1].CopyIcon)
	assert.True(t, *cfg.SearchFolders[1].CopyIcon)
	assert.Equal(t, []string{"test_"}, cfg.BeforeOrAfter)
	assert.Equal(t, []string{".git"}, cfg.CodeFolders)
}

func TestLoadUserConfigMissingIconsPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "broken.config",
		`{"config": {"search_folders": [{"path": "/work"}]}}`)

	_, err := config.LoadUserConfig(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadUserConfigNoSearchFolders(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "broken.config",
		`{"config": {"icons_path": "/icons", "search_folders": []}}`)

	_, err := config.LoadUserConfig(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadUserConfigExpandsEnv(t *testing.T) {
	t.Setenv("ICON_BASE", "/srv/icons")
	path := writeConfig(t, t.TempDir(), "env.config",
		`{"config": {"icons_path": "%ICON_BASE%/library", "search_folders": [{"path": "$ICON_BASE/roots"}]}}`)

	cfg, err := config.LoadUserConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/srv/icons/library"), cfg.IconsPath)
	assert.Equal(t, filepath.Clean("/srv/icons/roots"), cfg.SearchFolders[0].Path)
}

func TestResolveCopyIconPrecedence(t *testing.T) {
	yes, no := true, false
	cfg := &config.UserConfig{
		CopyIcon: false,
		SearchFolders: []config.SearchFolderConfig{
			{Path: "/media", CopyIcon: &yes},
			{Path: "/work"},
		},
	}

	// Manager override wins over everything.
	assert.False(t, cfg.ResolveCopyIcon("/media/movies", &no))
	// Search folder override beats the config default.
	assert.True(t, cfg.ResolveCopyIcon("/media/movies", nil))
	// Config default applies when nothing overrides.
	assert.False(t, cfg.ResolveCopyIcon("/work/projectx", nil))
	// Unknown roots fall back to the config default too.
	assert.False(t, cfg.ResolveCopyIcon("/elsewhere", nil))
}

func TestRoots(t *testing.T) {
	yes := true
	cfg := &config.UserConfig{
		SearchFolders: []config.SearchFolderConfig{
			{Path: "/work"},
			{Path: "/media", CopyIcon: &yes},
		},
	}

	roots := cfg.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "/work", roots[0].Path)
	require.NotNil(t, roots[1].CopyIcon)
	assert.True(t, *roots[1].CopyIcon)
}
