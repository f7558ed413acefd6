package icons

import (
	"os"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/logging"
	"github.com/icon-manager/iconman/pkg/paths"
)

// FindMarkers collects every app-owned marker file in the trees.
// Foreign desktop.ini files are left alone.
func FindMarkers(folders []*paths.Folder) []*paths.File {
	var markers []*paths.File
	for _, folder := range folders {
		folder.Walk(func(entry *paths.Folder) {
			for _, file := range entry.Files {
				if file.Name != MarkerName {
					continue
				}
				if !IsAppFile(file.Path) {
					continue
				}
				markers = append(markers, file)
			}
		})
	}
	return markers
}

// FindIconFolders collects every icon subfolder in the trees.
func FindIconFolders(folders []*paths.Folder) []*paths.Folder {
	var found []*paths.Folder
	for _, folder := range folders {
		folder.Walk(func(entry *paths.Folder) {
			if entry.Name == IconFolderName {
				found = append(found, entry)
			}
		})
	}
	return found
}

// CleanupResult reports what a delete pass removed.
type CleanupResult struct {
	Markers     int
	IconFolders int
	Errors      []error
}

// DeleteTagged removes every app-owned marker and icon subfolder in the
// trees. Per-entry failures are collected; the pass continues.
func DeleteTagged(folders []*paths.Folder) CleanupResult {
	logger := logging.GetLogger("icons.cleanup")
	var result CleanupResult

	for _, marker := range FindMarkers(folders) {
		if err := os.Remove(marker.Path); err != nil {
			result.Errors = append(result.Errors,
				errors.Wrapf(err, errors.ErrFileDelete, "marker %q", marker.Path))
			continue
		}
		result.Markers++
	}

	for _, iconFolder := range FindIconFolders(folders) {
		if err := os.RemoveAll(iconFolder.Path); err != nil {
			result.Errors = append(result.Errors,
				errors.Wrapf(err, errors.ErrFileDelete, "icon folder %q", iconFolder.Path))
			continue
		}
		result.IconFolders++
	}

	logger.Info().
		Int("markers", result.Markers).
		Int("icon_folders", result.IconFolders).
		Int("errors", len(result.Errors)).
		Msg("tagged content removed")
	return result
}

// FoldersToReapply rebuilds matched folders from existing icon
// subfolders: each icon subfolder holding a known library icon yields
// its parent folder bound to that icon's setting.
func FoldersToReapply(folders []*paths.Folder, settings []*Setting) []*MatchedFolder {
	byFileName := make(map[string]*Setting, len(settings))
	for _, setting := range settings {
		byFileName[setting.Icon.FileName()] = setting
	}

	var matched []*MatchedFolder
	for _, iconFolder := range FindIconFolders(folders) {
		if iconFolder.Parent == nil {
			continue
		}
		setting := settingForIconFolder(iconFolder, byFileName)
		if setting == nil {
			continue
		}
		matched = append(matched, NewMatchedFolder(iconFolder.Parent.Path, setting))
	}
	return matched
}

func settingForIconFolder(iconFolder *paths.Folder, byFileName map[string]*Setting) *Setting {
	for _, file := range iconFolder.Files {
		if setting, ok := byFileName[file.Name]; ok {
			return setting
		}
	}
	return nil
}
