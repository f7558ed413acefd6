// Package config loads the app's configuration surfaces: per-user
// tagging configs, the shared exclude rules, and the app settings file,
// all merged koanf-style over embedded defaults.
package config

import (
	"path/filepath"
	"strings"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/paths"
)

// UserConfigExt is the user config file extension, dot included.
const UserConfigExt = ".config"

// SearchFolderConfig is one crawl root as configured, with its
// optional copy_icon override.
type SearchFolderConfig struct {
	Path     string `koanf:"path"`
	CopyIcon *bool  `koanf:"copy_icon"`
}

// UserConfig is one user's tagging setup: where the icon library
// lives, which roots to crawl, and how matching is tuned.
type UserConfig struct {
	// Name is the config file base name, used in logs and summaries.
	Name string

	IconsPath     string               `koanf:"icons_path"`
	SearchFolders []SearchFolderConfig `koanf:"search_folders"`
	CopyIcon      bool                 `koanf:"copy_icon"`
	// BeforeOrAfter are the shared decoration values merged into every
	// decorating rule of this config's icon settings.
	BeforeOrAfter []string `koanf:"before_or_after"`
	// CodeFolders name project-boundary children (".git").
	CodeFolders []string `koanf:"code_folders"`
	// ExcludeFolders are folder-name patterns dropped during filtering.
	ExcludeFolders []string `koanf:"exclude_folders"`
}

// LoadUserConfig reads and validates one user config file.
func LoadUserConfig(path string) (*UserConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "user config %q", path)
	}

	var cfg UserConfig
	if err := k.Unmarshal("config", &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "user config %q", path)
	}
	cfg.Name = strings.TrimSuffix(filepath.Base(path), UserConfigExt)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "user config %q", path)
	}

	cfg.expandPaths()
	return &cfg, nil
}

// Validate checks the config invariants before any path expansion.
func (c *UserConfig) Validate() error {
	if c.IconsPath == "" {
		return errors.New(errors.ErrConfigValid, "icons_path is required")
	}
	if len(c.SearchFolders) == 0 {
		return errors.New(errors.ErrConfigValid, "at least one search folder is required")
	}
	for _, folder := range c.SearchFolders {
		if folder.Path == "" {
			return errors.New(errors.ErrConfigValid, "search folder with empty path")
		}
	}
	return nil
}

func (c *UserConfig) expandPaths() {
	c.IconsPath = paths.ExpandEnv(c.IconsPath)
	for i := range c.SearchFolders {
		c.SearchFolders[i].Path = paths.ExpandEnv(c.SearchFolders[i].Path)
	}
}

// Roots converts the configured search folders into crawl roots.
func (c *UserConfig) Roots() []paths.SearchFolder {
	roots := make([]paths.SearchFolder, 0, len(c.SearchFolders))
	for _, folder := range c.SearchFolders {
		roots = append(roots, paths.SearchFolder{Path: folder.Path, CopyIcon: folder.CopyIcon})
	}
	return roots
}

// SearchFolderFor returns the configured root containing the path.
func (c *UserConfig) SearchFolderFor(path string) *SearchFolderConfig {
	for i := range c.SearchFolders {
		root := paths.SearchFolder{Path: c.SearchFolders[i].Path}
		if root.Contains(path) {
			return &c.SearchFolders[i]
		}
	}
	return nil
}

// ResolveCopyIcon resolves the copy mode for a matched folder:
// manager override first, then the folder's search root, then the
// config default.
func (c *UserConfig) ResolveCopyIcon(path string, manager *bool) bool {
	if manager != nil {
		return *manager
	}
	if root := c.SearchFolderFor(path); root != nil && root.CopyIcon != nil {
		return *root.CopyIcon
	}
	return c.CopyIcon
}
