package icons

import (
	"os"
	"path/filepath"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/logging"
)

// ArchiveEmpty moves every setting whose rules are empty into the
// archive folder under the library root, together with the icon's
// sibling artwork. Returns the number of settings archived.
func ArchiveEmpty(library *Library) (int, error) {
	logger := logging.GetLogger("icons.archive")
	archived := 0

	for _, setting := range library.Settings {
		setting.Manager.CleanEmpty()
		if !setting.IsEmpty() {
			continue
		}

		archiveDir := filepath.Join(filepath.Dir(setting.Icon.Path), ArchiveFolderName)
		if err := os.MkdirAll(archiveDir, 0o755); err != nil {
			return archived, errors.Wrapf(err, errors.ErrDirCreate, "archive folder %q", archiveDir)
		}

		files := setting.ArchiveFiles()
		for _, path := range files {
			target := filepath.Join(archiveDir, filepath.Base(path))
			if err := copyFile(path, target); err != nil {
				return archived, err
			}
			if err := os.Remove(path); err != nil {
				return archived, errors.Wrapf(err, errors.ErrFileDelete, "archiving %q", path)
			}
		}
		logger.Info().
			Str("icon", setting.Name()).
			Int("files", len(files)).
			Msg("empty setting archived")
		archived++
	}
	return archived, nil
}
