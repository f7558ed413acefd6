package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/logging"
	"github.com/icon-manager/iconman/pkg/rules"
)

const (
	// AppName is the directory name under the XDG config home.
	AppName = "iconman"
	// SettingsFileName is the optional app settings file.
	SettingsFileName = "iconman.toml"
	// ExcludeRulesFileName holds the shared exclude rule checkers.
	ExcludeRulesFileName = "excluded_rules" + UserConfigExt
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// rawBytesProvider adapts embedded bytes to a koanf provider.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Settings are the app-level knobs, distinct from per-user configs.
type Settings struct {
	// Workers bounds the parallel pipelines and crawl fan-out.
	// Zero means one per CPU.
	Workers   int `koanf:"workers"`
	Verbosity int `koanf:"verbosity"`
	// BeforeOrAfter is merged into every user config's decoration set.
	BeforeOrAfter []string `koanf:"before_or_after"`
}

// DefaultConfigDir is where configs live unless overridden.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// LoadSettings layers the app settings: embedded defaults, then the
// settings file when present, then explicit overrides (flags).
func LoadSettings(configDir string, overrides map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "default settings")
	}

	settingsPath := filepath.Join(configDir, SettingsFileName)
	if _, err := os.Stat(settingsPath); err == nil {
		if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "settings file %q", settingsPath)
		}
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "settings overrides")
		}
	}

	var settings Settings
	if err := k.Unmarshal("app", &settings); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "app settings")
	}
	return &settings, nil
}

// DiscoverUserConfigs loads every user config in the config directory,
// sorted by file name. The exclude rules file is not a user config.
func DiscoverUserConfigs(configDir string) ([]*UserConfig, error) {
	entries, err := os.ReadDir(configDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config directory %q", configDir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, UserConfigExt) || name == ExcludeRulesFileName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	configs := make([]*UserConfig, 0, len(names))
	for _, name := range names {
		cfg, err := LoadUserConfig(filepath.Join(configDir, name))
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	logger := logging.GetLogger("config")
	logger.Info().
		Int("configs", len(configs)).
		Str("dir", configDir).
		Msg("user configs loaded")
	return configs, nil
}

// LoadExcludeManager reads the shared exclude rules. A missing file
// yields an empty manager, which excludes nothing.
func LoadExcludeManager(configDir string) (*rules.ExcludeManager, error) {
	path := filepath.Join(configDir, ExcludeRulesFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules.NewExcludeManager(nil), nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "exclude rules %q", path)
	}

	document, err := koanfjson.Parser().Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "exclude rules %q", path)
	}
	return rules.DecodeExcludeManager(document)
}
