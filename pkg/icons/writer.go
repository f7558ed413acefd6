package icons

import (
	"os"
	"sort"

	"github.com/rs/zerolog"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/logging"
)

// command is one step of the marker write protocol. Pre hooks run in
// ascending order before the marker file is written, Post hooks in
// descending order after.
type command struct {
	order int
	name  string
	pre   func() error
	post  func() error
}

// Writer applies a matched setting to a folder: optional icon copy into
// the hidden icon subfolder, the marker file write, and the attribute
// calls around it. Command failures around the write are logged and do
// not abort the write; a failed write is the operation error.
type Writer struct {
	attrib Attrib
	dryRun bool
	logger zerolog.Logger
}

// NewWriter builds a writer over the given attribute backend.
func NewWriter(attrib Attrib, dryRun bool) *Writer {
	return &Writer{
		attrib: attrib,
		dryRun: dryRun,
		logger: logging.GetLogger("icons.writer"),
	}
}

// Write tags one matched folder. A pre-existing marker not owned by
// this app blocks the write.
func (w *Writer) Write(matched *MatchedFolder, copyIcon bool) error {
	markerPath := matched.MarkerPath()
	if !CanWrite(markerPath) {
		return errors.Newf(errors.ErrMarkerOwned,
			"marker in %q exists and is not ours", matched.Path)
	}
	if w.dryRun {
		w.logger.Info().
			Str("folder", matched.Path).
			Str("icon", matched.Setting.Name()).
			Bool("copy_icon", copyIcon).
			Msg("dry run, marker not written")
		return nil
	}

	commands := w.commands(matched, copyIcon)

	sort.SliceStable(commands, func(i, j int) bool {
		return commands[i].order < commands[j].order
	})
	for _, cmd := range commands {
		if err := cmd.pre(); err != nil {
			w.logger.Warn().Err(err).
				Str("folder", matched.Path).Str("command", cmd.name).
				Msg("pre command failed")
		}
	}

	writeErr := w.writeMarker(matched)

	sort.SliceStable(commands, func(i, j int) bool {
		return commands[i].order > commands[j].order
	})
	for _, cmd := range commands {
		if err := cmd.post(); err != nil {
			w.logger.Warn().Err(err).
				Str("folder", matched.Path).Str("command", cmd.name).
				Msg("post command failed")
		}
	}

	return writeErr
}

func (w *Writer) writeMarker(matched *MatchedFolder) error {
	content := MarkerContent(matched.IconPathForMarker())
	if err := os.WriteFile(matched.MarkerPath(), []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrMarkerWrite, "folder %q", matched.Path)
	}
	w.logger.Debug().
		Str("folder", matched.Path).
		Str("icon", matched.Setting.Name()).
		Msg("marker written")
	return nil
}

func (w *Writer) commands(matched *MatchedFolder, copyIcon bool) []*command {
	return []*command{
		w.ruleFolderCommand(matched, copyIcon),
		w.iconFolderCommand(matched, copyIcon),
		w.iconFileCommand(matched, copyIcon),
		w.markerAttributeCommand(matched),
	}
}

// ruleFolderCommand ensures the icon subfolder's parent exists before
// anything is copied and locks the tagged folder afterwards.
func (w *Writer) ruleFolderCommand(matched *MatchedFolder, copyIcon bool) *command {
	return &command{
		order: 1,
		name:  "rule folder",
		pre: func() error {
			if !copyIcon {
				return nil
			}
			if _, err := os.Stat(matched.IconFolderPath()); err == nil {
				return nil
			}
			if err := os.MkdirAll(matched.IconFolderPath(), 0o755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "icon folder for %q", matched.Path)
			}
			return nil
		},
		post: func() error {
			return w.attrib.SetReadOnly(matched.Path, true)
		},
	}
}

func (w *Writer) iconFolderCommand(matched *MatchedFolder, copyIcon bool) *command {
	return &command{
		order: 2,
		name:  "icon folder",
		pre: func() error {
			if !copyIcon {
				return nil
			}
			if _, err := os.Stat(matched.IconFolderPath()); err == nil {
				return nil
			}
			if err := os.MkdirAll(matched.IconFolderPath(), 0o755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "icon folder for %q", matched.Path)
			}
			return nil
		},
		post: func() error {
			if _, err := os.Stat(matched.IconFolderPath()); err != nil {
				return nil
			}
			return w.attrib.SetHidden(matched.IconFolderPath(), true)
		},
	}
}

func (w *Writer) iconFileCommand(matched *MatchedFolder, copyIcon bool) *command {
	return &command{
		order: 3,
		name:  "icon file",
		pre: func() error {
			if !copyIcon {
				return nil
			}
			if _, err := os.Stat(matched.LocalIconPath()); err == nil {
				return nil
			}
			return copyFile(matched.Setting.Icon.Path, matched.LocalIconPath())
		},
		post: func() error {
			if _, err := os.Stat(matched.LocalIconPath()); err != nil {
				return nil
			}
			return w.attrib.SetHidden(matched.LocalIconPath(), true)
		},
	}
}

// markerAttributeCommand unprotects an existing marker so the write can
// replace it and protects the fresh one afterwards.
func (w *Writer) markerAttributeCommand(matched *MatchedFolder) *command {
	markerPath := matched.MarkerPath()
	return &command{
		order: 4,
		name:  "marker attributes",
		pre: func() error {
			if _, err := os.Stat(markerPath); err != nil {
				return nil
			}
			return w.attrib.SetProtected(markerPath, false)
		},
		post: func() error {
			if _, err := os.Stat(markerPath); err != nil {
				return nil
			}
			return w.attrib.SetProtected(markerPath, true)
		},
	}
}
