// Package icons manages the icon library and the marker files tagging
// matched folders. A library is a directory of .ico files, each paired
// with a sibling <name>.json rule config; the pair forms a Setting the
// matcher evaluates against crawled folders.
package icons

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	koanfjson "github.com/knadh/koanf/parsers/json"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/logging"
	"github.com/icon-manager/iconman/pkg/paths"
	"github.com/icon-manager/iconman/pkg/rules"
)

const (
	// IconExt is the library icon file extension.
	IconExt = "ico"
	// ConfigExt is the sibling rule config extension.
	ConfigExt = "json"
)

// LibraryIcon is one .ico file in the library together with the path
// its rule config lives at, whether or not that config exists yet.
type LibraryIcon struct {
	Path string
	Name string
}

// NewLibraryIcon builds a LibraryIcon from the icon file path.
func NewLibraryIcon(path string) *LibraryIcon {
	name, _ := paths.NameAndExt(filepath.Base(path))
	return &LibraryIcon{Path: path, Name: name}
}

// FileName is the icon's base file name, extension included.
func (i *LibraryIcon) FileName() string {
	return filepath.Base(i.Path)
}

// ConfigPath is the sibling rule config path for this icon.
func (i *LibraryIcon) ConfigPath() string {
	return filepath.Join(filepath.Dir(i.Path), i.Name+"."+ConfigExt)
}

// HasConfig reports whether the sibling rule config exists.
func (i *LibraryIcon) HasConfig() bool {
	_, err := os.Stat(i.ConfigPath())
	return err == nil
}

// Setting pairs a library icon with its decoded rule manager. It is
// the unit the matcher works with: "folders allowed by this manager
// get this icon".
type Setting struct {
	Icon    *LibraryIcon
	Manager *rules.Manager
}

// Name is the setting identity, the icon file name without extension.
func (s *Setting) Name() string {
	return s.Icon.Name
}

// OrderKey delegates to the manager's deterministic precedence key.
func (s *Setting) OrderKey() string {
	return s.Manager.OrderKey()
}

// CopyIcon is the manager-level copy override, nil when unset.
func (s *Setting) CopyIcon() *bool {
	return s.Manager.CopyIcon
}

// IsEmpty reports whether the setting has no usable rules.
func (s *Setting) IsEmpty() bool {
	return s.Manager.IsEmpty()
}

// IsConfigFor reports whether this setting's rules allow the entry.
func (s *Setting) IsConfigFor(entry *paths.Folder) bool {
	return s.Manager.IsAllowed(entry)
}

// Build resolves the manager's value sets with the shared decorations.
// Must run before matching, never concurrently with it.
func (s *Setting) Build(decorations []string) {
	s.Manager.CleanEmpty()
	s.Manager.Build(decorations)
}

// ArchiveFiles lists the files that move together when this setting is
// archived: the icon, its config, and any sibling artwork.
func (s *Setting) ArchiveFiles() []string {
	dir := filepath.Dir(s.Icon.Path)
	candidates := []string{
		s.Icon.Path,
		s.Icon.ConfigPath(),
		filepath.Join(dir, s.Icon.Name+".png"),
		filepath.Join(dir, s.Icon.Name+".jpg"),
		filepath.Join(dir, s.Icon.Name+".jpeg"),
	}
	existing := make([]string, 0, len(candidates))
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	return existing
}

func (s *Setting) String() string {
	return "Icon Setting: " + s.Name()
}

// Library is the scanned icon library: every icon found under the
// icons path, and the settings for those with a decodable config.
type Library struct {
	Path     string
	Icons    []*LibraryIcon
	Settings []*Setting
}

// ScanLibrary walks the icons path and pairs every .ico file with its
// sibling rule config. Icons without a config are kept on the library
// for templating; configs that fail to decode are errors.
func ScanLibrary(iconsPath string) (*Library, error) {
	logger := logging.GetLogger("icons.library")

	info, err := os.Stat(iconsPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryScan, "icons path %q", iconsPath)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrLibraryScan, "icons path %q is not a directory", iconsPath)
	}

	library := &Library{Path: iconsPath}
	walkErr := filepath.WalkDir(iconsPath, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrLibraryScan, "scanning %q", path)
		}
		if entry.IsDir() {
			// Archived icons are out of the library.
			if entry.Name() == ArchiveFolderName && path != iconsPath {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(entry.Name(), "."+IconExt) {
			return nil
		}
		library.Icons = append(library.Icons, NewLibraryIcon(path))
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	for _, icon := range library.Icons {
		if !icon.HasConfig() {
			logger.Debug().Str("icon", icon.Name).Msg("icon has no rule config")
			continue
		}
		setting, err := LoadSetting(icon)
		if err != nil {
			return nil, err
		}
		library.Settings = append(library.Settings, setting)
	}

	SortSettings(library.Settings)
	logger.Info().
		Int("icons", len(library.Icons)).
		Int("settings", len(library.Settings)).
		Str("path", iconsPath).
		Msg("icon library scanned")
	return library, nil
}

// LoadSetting decodes one icon's rule config into a setting.
func LoadSetting(icon *LibraryIcon) (*Setting, error) {
	data, err := os.ReadFile(icon.ConfigPath())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLibraryScan, "icon config %q", icon.ConfigPath())
	}
	document, err := koanfjson.Parser().Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "icon config %q", icon.ConfigPath())
	}
	manager, err := rules.DecodeManager(icon.Name, document)
	if err != nil {
		return nil, err
	}
	return &Setting{Icon: icon, Manager: manager}, nil
}

// SortSettings orders settings by their manager precedence.
func SortSettings(settings []*Setting) {
	sort.SliceStable(settings, func(i, j int) bool {
		return settings[i].OrderKey() < settings[j].OrderKey()
	})
}

// BuildSettings prepares all non-empty settings for matching and drops
// the empty ones. Returns the match-ready settings in precedence order.
func BuildSettings(settings []*Setting, decorations []string) []*Setting {
	ready := make([]*Setting, 0, len(settings))
	for _, setting := range settings {
		setting.Build(decorations)
		if setting.IsEmpty() {
			continue
		}
		ready = append(ready, setting)
	}
	SortSettings(ready)
	return ready
}

// FirstMatch returns the first setting, in precedence order, whose
// rules allow the entry.
func FirstMatch(settings []*Setting, entry *paths.Folder) *Setting {
	for _, setting := range settings {
		if setting.IsConfigFor(entry) {
			return setting
		}
	}
	return nil
}
