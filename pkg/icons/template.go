package icons

import (
	_ "embed"
	"encoding/json"
	"os"

	koanfjson "github.com/knadh/koanf/parsers/json"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/logging"
)

//go:embed template.json
var configTemplate []byte

// CreateTemplates writes the starter rule config next to every library
// icon that lacks one. With overwrite set, existing configs are
// replaced too. Returns the number of configs written.
func CreateTemplates(library *Library, overwrite bool) (int, error) {
	logger := logging.GetLogger("icons.template")
	created := 0
	for _, icon := range library.Icons {
		if icon.HasConfig() && !overwrite {
			continue
		}
		if err := os.WriteFile(icon.ConfigPath(), configTemplate, 0o644); err != nil {
			return created, errors.Wrapf(err, errors.ErrMarkerWrite, "template for %q", icon.Name)
		}
		logger.Info().Str("icon", icon.Name).Msg("template config created")
		created++
	}
	return created, nil
}

// UpdateConfigs rewrites every existing rule config into the current
// template layout, keeping the config's own rule section.
func UpdateConfigs(library *Library) (int, error) {
	logger := logging.GetLogger("icons.template")

	template, err := koanfjson.Parser().Unmarshal(configTemplate)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrConfigParse, "config template")
	}

	updated := 0
	for _, setting := range library.Settings {
		configPath := setting.Icon.ConfigPath()
		data, err := os.ReadFile(configPath)
		if err != nil {
			return updated, errors.Wrapf(err, errors.ErrConfigLoad, "icon config %q", configPath)
		}
		current, err := koanfjson.Parser().Unmarshal(data)
		if err != nil {
			return updated, errors.Wrapf(err, errors.ErrConfigParse, "icon config %q", configPath)
		}

		// Template supplies the layout; the user keeps their rules and
		// the knobs they tuned.
		merged := make(map[string]interface{}, len(template))
		for key, value := range template {
			merged[key] = value
		}
		for _, key := range []string{"config", "order", "copy_icon", "operator"} {
			if existing, ok := current[key]; ok {
				merged[key] = existing
			}
		}

		rendered, err := json.MarshalIndent(merged, "", "    ")
		if err != nil {
			return updated, errors.Wrapf(err, errors.ErrConfigParse, "icon config %q", configPath)
		}
		if err := os.WriteFile(configPath, rendered, 0o644); err != nil {
			return updated, errors.Wrapf(err, errors.ErrMarkerWrite, "icon config %q", configPath)
		}
		logger.Info().Str("icon", setting.Name()).Msg("config updated")
		updated++
	}
	return updated, nil
}
