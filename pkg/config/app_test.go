package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icon-manager/iconman/pkg/config"
	"github.com/icon-manager/iconman/pkg/paths"
)

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := config.LoadSettings(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, settings.Workers)
	assert.Equal(t, 0, settings.Verbosity)
	assert.Empty(t, settings.BeforeOrAfter)
}

func TestLoadSettingsFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.SettingsFileName, `
[app]
workers = 4
before_or_after = ["test_", "dev_"]
`)

	settings, err := config.LoadSettings(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, settings.Workers)
	assert.Equal(t, []string{"test_", "dev_"}, settings.BeforeOrAfter)
}

func TestLoadSettingsFlagOverridesWin(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.SettingsFileName, "[app]\nworkers = 4\n")

	settings, err := config.LoadSettings(dir, map[string]interface{}{
		"app.workers": 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, settings.Workers)
}

func TestDiscoverUserConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "beta.config", validUserConfig)
	writeConfig(t, dir, "alpha.config", validUserConfig)
	writeConfig(t, dir, config.ExcludeRulesFileName, `{"config": []}`)
	writeConfig(t, dir, config.SettingsFileName, "[app]\n")
	writeConfig(t, dir, "readme.txt", "not a config")

	configs, err := config.DiscoverUserConfigs(dir)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "alpha", configs[0].Name)
	assert.Equal(t, "beta", configs[1].Name)
}

func TestDiscoverUserConfigsBadConfigFails(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "broken.config", `{"config": {}}`)

	_, err := config.DiscoverUserConfigs(dir)
	assert.Error(t, err)
}

func TestLoadExcludeManagerMissingFile(t *testing.T) {
	manager, err := config.LoadExcludeManager(t.TempDir())
	require.NoError(t, err)
	assert.False(t, manager.IsExcluded(paths.NewFolder("/anything", nil)))
}

func TestLoadExcludeManager(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.ExcludeRulesFileName, `{
		"config": [
			{"name": {"rules": [{"equals": ["node_modules"]}]}}
		]
	}`)

	manager, err := config.LoadExcludeManager(dir)
	require.NoError(t, err)
	manager.Build(nil)

	assert.True(t, manager.IsExcluded(paths.NewFolder("/work/node_modules", nil)))
	assert.False(t, manager.IsExcluded(paths.NewFolder("/work/src", nil)))
}
