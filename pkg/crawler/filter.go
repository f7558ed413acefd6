package crawler

import (
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/logging"
	"github.com/icon-manager/iconman/pkg/paths"
	"github.com/icon-manager/iconman/pkg/rules"
)

// Options configures tree filtering. The name lists accept glob
// patterns; Exclude carries the app-wide rule-based exclusions. All
// values are threaded in explicitly so filters never depend on shared
// mutable state.
type Options struct {
	// Exclude prunes whole subtrees by rule verdict.
	Exclude *rules.ExcludeManager
	// ProjectFolders are boundary marker names (".git"): a folder
	// containing such a child keeps itself but loses its substructure.
	ProjectFolders []string
	// ExcludeFolders are legacy plain-name exclusions.
	ExcludeFolders []string
}

// Filter applies exclusion and project-boundary pruning to crawled
// trees. Build it once per pipeline; it is read-only afterwards.
type Filter struct {
	exclude  *rules.ExcludeManager
	project  []glob.Glob
	excluded []glob.Glob
	logger   zerolog.Logger
}

// NewFilter compiles the configured name patterns. A malformed pattern
// is a configuration error.
func NewFilter(opts Options) (*Filter, error) {
	project, err := compilePatterns(opts.ProjectFolders)
	if err != nil {
		return nil, err
	}
	excluded, err := compilePatterns(opts.ExcludeFolders)
	if err != nil {
		return nil, err
	}
	exclude := opts.Exclude
	if exclude == nil {
		exclude = rules.NewExcludeManager(nil)
	}
	return &Filter{
		exclude:  exclude,
		project:  project,
		excluded: excluded,
		logger:   logging.GetLogger("crawler.filter"),
	}, nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "folder pattern %q", pattern)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// Apply prunes the given trees in place and returns the surviving
// roots. Pruning only affects this run's working copy, never the disk.
func (f *Filter) Apply(folders []*paths.Folder) []*paths.Folder {
	kept := make([]*paths.Folder, 0, len(folders))
	for _, folder := range folders {
		if filtered := f.filterFolder(folder); filtered != nil {
			kept = append(kept, filtered)
		}
	}
	return kept
}

// filterFolder decides one folder's fate: dropped with its subtree,
// kept as a boundary with children cleared, or recursed into.
func (f *Filter) filterFolder(entry *paths.Folder) *paths.Folder {
	if f.isExcluded(entry) {
		f.logger.Debug().Str("path", entry.Path).Msg("folder excluded")
		entry.MarkAndClean()
		return nil
	}
	if f.hasProjectChild(entry) {
		// Project boundary: the folder itself can still receive an
		// icon, its internals are never scanned.
		f.logger.Debug().Str("path", entry.Path).Msg("project boundary, descent stopped")
		entry.ClearChildren()
		return entry
	}

	kept := entry.Folders[:0]
	for _, child := range entry.Folders {
		if filtered := f.filterFolder(child); filtered != nil {
			kept = append(kept, filtered)
		}
	}
	entry.Folders = kept
	return entry
}

func (f *Filter) isExcluded(entry *paths.Folder) bool {
	if matchesAny(f.excluded, entry.Name) || matchesAny(f.project, entry.Name) {
		return true
	}
	return f.exclude.IsExcluded(entry)
}

func (f *Filter) hasProjectChild(entry *paths.Folder) bool {
	for _, child := range entry.Folders {
		if matchesAny(f.project, child.Name) {
			return true
		}
	}
	return false
}

func matchesAny(patterns []glob.Glob, name string) bool {
	for _, pattern := range patterns {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}

// CollectFolders flattens the filtered trees in stable pre-order,
// roots included. This is the folder sequence the matcher consumes.
func CollectFolders(folders []*paths.Folder) []*paths.Folder {
	var flattened []*paths.Folder
	for _, folder := range folders {
		folder.Walk(func(entry *paths.Folder) {
			flattened = append(flattened, entry)
		})
	}
	return flattened
}

// FilesByExt collects every file with one of the given extensions from
// the trees, recursively.
func FilesByExt(folders []*paths.Folder, extensions ...string) []*paths.File {
	extSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		extSet[ext] = struct{}{}
	}

	var files []*paths.File
	var walk func(folder *paths.Folder)
	walk = func(folder *paths.Folder) {
		for _, file := range folder.Files {
			if _, ok := extSet[file.Ext]; ok {
				files = append(files, file)
			}
		}
		for _, child := range folder.Folders {
			walk(child)
		}
	}
	for _, folder := range folders {
		walk(folder)
	}
	return files
}
