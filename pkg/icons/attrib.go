package icons

import (
	"github.com/icon-manager/iconman/pkg/logging"
)

// Attrib sets filesystem attributes on tagged folders and their marker
// files. The calls map to the platform's attribute model; on platforms
// without one the implementation only logs, and marker semantics stay
// fully exercised.
type Attrib interface {
	SetHidden(path string, hidden bool) error
	SetReadOnly(path string, readOnly bool) error
	// SetProtected toggles the system+hidden pair markers carry.
	SetProtected(path string, protected bool) error
}

// LogAttrib records attribute intents without touching the filesystem.
// It is the implementation for non-Windows platforms and tests.
type LogAttrib struct{}

// NewLogAttrib builds the logging no-op implementation.
func NewLogAttrib() *LogAttrib {
	return &LogAttrib{}
}

func (a *LogAttrib) SetHidden(path string, hidden bool) error {
	logger := logging.GetLogger("icons.attrib")
	logger.Debug().
		Str("path", path).Bool("hidden", hidden).Msg("set hidden")
	return nil
}

func (a *LogAttrib) SetReadOnly(path string, readOnly bool) error {
	logger := logging.GetLogger("icons.attrib")
	logger.Debug().
		Str("path", path).Bool("read_only", readOnly).Msg("set read-only")
	return nil
}

func (a *LogAttrib) SetProtected(path string, protected bool) error {
	logger := logging.GetLogger("icons.attrib")
	logger.Debug().
		Str("path", path).Bool("protected", protected).Msg("set protected")
	return nil
}
