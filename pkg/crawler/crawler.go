// Package crawler builds the folder entry trees the rule engine works
// on and prunes them before matching. Crawling fans out one worker per
// search root with a bounded pool; everything downstream of the crawl
// operates on the in-memory tree only.
package crawler

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/logging"
	"github.com/icon-manager/iconman/pkg/paths"
)

// CrawlRoots crawls every search root and returns one folder tree per
// readable root, in the input order. A failing root is recorded and
// skipped; it never aborts its siblings.
func CrawlRoots(roots []paths.SearchFolder, workers int) ([]*paths.Folder, []error) {
	logger := logging.GetLogger("crawler")
	done := logging.LogOperationStart(logger, "crawl")
	defer done()

	if workers < 1 {
		workers = 1
	}
	if workers > len(roots) {
		workers = len(roots)
	}

	results := make([]*paths.Folder, len(roots))
	crawlErrs := make([]error, len(roots))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, root := range roots {
		wg.Add(1)
		go func(i int, root paths.SearchFolder) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], crawlErrs[i] = crawlRoot(root)
		}(i, root)
	}
	wg.Wait()

	folders := make([]*paths.Folder, 0, len(roots))
	var errs []error
	for i := range roots {
		if crawlErrs[i] != nil {
			logger.Warn().Err(crawlErrs[i]).Str("root", roots[i].Path).Msg("search root skipped")
			errs = append(errs, crawlErrs[i])
			continue
		}
		folders = append(folders, results[i])
	}

	logger.Debug().Int("roots", len(roots)).Int("crawled", len(folders)).Msg("crawl finished")
	return folders, errs
}

// crawlRoot builds one root's tree. Directory entries come back sorted
// from the OS listing, so the tree shape is deterministic.
func crawlRoot(root paths.SearchFolder) (*paths.Folder, error) {
	info, err := os.Stat(root.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCrawl, "search root %q", root.Path)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrCrawl, "search root %q is not a directory", root.Path)
	}

	folder := paths.NewFolder(root.Path, nil)
	crawlInto(folder)
	return folder, nil
}

// crawlInto fills a folder with its substructure. Unreadable
// directories are logged and skipped so one bad permission does not
// lose the rest of the tree.
func crawlInto(folder *paths.Folder) {
	entries, err := os.ReadDir(folder.Path)
	if err != nil {
		logger := logging.GetLogger("crawler")
		logger.Warn().
			Err(err).
			Str("path", folder.Path).
			Msg("directory not readable, skipping")
		return
	}

	for _, entry := range entries {
		childPath := filepath.Join(folder.Path, entry.Name())
		if entry.IsDir() {
			child := paths.NewFolder(childPath, folder)
			folder.Folders = append(folder.Folders, child)
			crawlInto(child)
			continue
		}
		folder.Files = append(folder.Files, paths.NewFile(childPath, folder))
	}
}
