// Package pipeline runs one user config end to end: scan the icon
// library, crawl the search roots, filter the trees, match folders to
// settings, and apply the markers. Config errors abort the pipeline;
// per-folder errors are recorded and the batch continues.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/icon-manager/iconman/pkg/config"
	"github.com/icon-manager/iconman/pkg/crawler"
	"github.com/icon-manager/iconman/pkg/icons"
	"github.com/icon-manager/iconman/pkg/logging"
	"github.com/icon-manager/iconman/pkg/paths"
	"github.com/icon-manager/iconman/pkg/rules"
)

// State is how far a pipeline run progressed.
type State int

const (
	StateNone State = iota
	StateCrawled
	StateFiltered
	StateMatched
	StateApplied
)

func (s State) String() string {
	switch s {
	case StateCrawled:
		return "crawled"
	case StateFiltered:
		return "filtered"
	case StateMatched:
		return "matched"
	case StateApplied:
		return "applied"
	}
	return "none"
}

// Result is the outcome of one user config's run.
type Result struct {
	Config  string
	State   State
	Folders int
	Matched int
	Applied int
	// Err is the fatal error that stopped the pipeline, if any.
	Err error
	// FolderErrors are per-folder apply failures; the run continues
	// past them.
	FolderErrors []error
}

// Options tunes a pipeline run.
type Options struct {
	// Exclude is the shared app-wide exclude manager.
	Exclude *rules.ExcludeManager
	// Decorations are app-level before_or_after values merged with the
	// user config's own.
	Decorations []string
	// Workers bounds the crawl fan-out and the parallel pipelines.
	// Zero means one per CPU.
	Workers int
	Attrib  icons.Attrib
	DryRun  bool
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options) attrib() icons.Attrib {
	if o.Attrib != nil {
		return o.Attrib
	}
	return icons.NewLogAttrib()
}

// Pipeline applies one user config.
type Pipeline struct {
	cfg    *config.UserConfig
	opts   Options
	logger zerolog.Logger
}

// New builds a pipeline for one user config.
func New(cfg *config.UserConfig, opts Options) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		opts:   opts,
		logger: logging.GetLogger("pipeline").With().Str("config", cfg.Name).Logger(),
	}
}

// Run executes the full apply flow for this pipeline's config.
func (p *Pipeline) Run() Result {
	result := Result{Config: p.cfg.Name}
	done := logging.LogOperationStart(p.logger, "apply")
	defer done()

	settings, err := p.loadSettings()
	if err != nil {
		result.Err = err
		return result
	}

	folders := p.crawlAndFilter(&result)
	if result.Err != nil {
		return result
	}

	matched := p.match(folders, settings, &result)
	p.apply(matched, &result)
	return result
}

// loadSettings scans the library and prepares its settings for
// matching with the merged decoration set.
func (p *Pipeline) loadSettings() ([]*icons.Setting, error) {
	library, err := icons.ScanLibrary(p.cfg.IconsPath)
	if err != nil {
		return nil, err
	}
	decorations := append(append([]string{}, p.cfg.BeforeOrAfter...), p.opts.Decorations...)
	return icons.BuildSettings(library.Settings, decorations), nil
}

func (p *Pipeline) crawlAndFilter(result *Result) []*paths.Folder {
	trees, crawlErrs := crawler.CrawlRoots(p.cfg.Roots(), p.opts.workers())
	result.FolderErrors = append(result.FolderErrors, crawlErrs...)
	result.State = StateCrawled

	filter, err := crawler.NewFilter(crawler.Options{
		Exclude:        p.opts.Exclude,
		ProjectFolders: p.cfg.CodeFolders,
		ExcludeFolders: p.cfg.ExcludeFolders,
	})
	if err != nil {
		result.Err = err
		return nil
	}
	trees = filter.Apply(trees)
	result.State = StateFiltered
	return trees
}

// match pairs every surviving folder with the first setting that
// allows it, in precedence order.
func (p *Pipeline) match(trees []*paths.Folder, settings []*icons.Setting, result *Result) []*icons.MatchedFolder {
	var matched []*icons.MatchedFolder
	folders := crawler.CollectFolders(trees)
	result.Folders = len(folders)

	for _, folder := range folders {
		setting := icons.FirstMatch(settings, folder)
		if setting == nil {
			continue
		}
		matched = append(matched, icons.NewMatchedFolder(folder.Path, setting))
	}

	result.Matched = len(matched)
	result.State = StateMatched
	p.logger.Info().
		Int("folders", result.Folders).
		Int("matched", result.Matched).
		Msg("matching finished")
	return matched
}

func (p *Pipeline) apply(matched []*icons.MatchedFolder, result *Result) {
	writer := icons.NewWriter(p.opts.attrib(), p.opts.DryRun)
	for _, folder := range matched {
		copyIcon := p.cfg.ResolveCopyIcon(folder.Path, folder.Setting.CopyIcon())
		if err := writer.Write(folder, copyIcon); err != nil {
			result.FolderErrors = append(result.FolderErrors, err)
			continue
		}
		result.Applied++
	}
	result.State = StateApplied
}

// Reapply rewrites markers for folders that already carry a copied
// icon, without re-running the rule match.
func (p *Pipeline) Reapply() Result {
	result := Result{Config: p.cfg.Name}
	done := logging.LogOperationStart(p.logger, "reapply")
	defer done()

	library, err := icons.ScanLibrary(p.cfg.IconsPath)
	if err != nil {
		result.Err = err
		return result
	}

	trees, crawlErrs := crawler.CrawlRoots(p.cfg.Roots(), p.opts.workers())
	result.FolderErrors = append(result.FolderErrors, crawlErrs...)
	result.State = StateCrawled

	matched := icons.FoldersToReapply(trees, library.Settings)
	result.Matched = len(matched)
	result.State = StateMatched

	p.apply(matched, &result)
	return result
}

// Delete removes every app-owned marker and icon folder under the
// config's search roots.
func (p *Pipeline) Delete() Result {
	result := Result{Config: p.cfg.Name}
	done := logging.LogOperationStart(p.logger, "delete")
	defer done()

	trees, crawlErrs := crawler.CrawlRoots(p.cfg.Roots(), p.opts.workers())
	result.FolderErrors = append(result.FolderErrors, crawlErrs...)
	result.State = StateCrawled

	cleanup := icons.DeleteTagged(trees)
	result.Applied = cleanup.Markers + cleanup.IconFolders
	result.FolderErrors = append(result.FolderErrors, cleanup.Errors...)
	result.State = StateApplied
	return result
}

// RunAll runs one pipeline per user config in parallel, bounded by the
// worker count. A failing or panicking pipeline never takes its
// siblings down; results come back in input order.
func RunAll(configs []*config.UserConfig, opts Options, run func(*Pipeline) Result) []Result {
	workers := opts.workers()
	if workers > len(configs) {
		workers = len(configs)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(configs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, cfg := range configs {
		wg.Add(1)
		go func(i int, cfg *config.UserConfig) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					results[i] = Result{
						Config: cfg.Name,
						Err:    fmt.Errorf("pipeline panic: %v", r),
					}
				}
			}()
			results[i] = run(New(cfg, opts))
		}(i, cfg)
	}
	wg.Wait()
	return results
}
