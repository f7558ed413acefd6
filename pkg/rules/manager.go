package rules

import (
	"fmt"
	"sort"

	"github.com/icon-manager/iconman/pkg/paths"
)

// DefaultWeight is the ordering weight of a manager whose config does
// not set one. Lower weights match first.
const DefaultWeight = 5

// Manager binds one rule checker to a named icon configuration and an
// ordering weight: "if the checker matches, this config's icon applies".
type Manager struct {
	// Name is the config file identity (without extension) and the
	// ordering tiebreak.
	Name    string
	Checker *RuleChecker
	Weight  int
	// CopyIcon overrides the user-level copy_icon flag when non-nil.
	CopyIcon *bool
}

// NewManager builds a manager for a named config.
func NewManager(name string, checker *RuleChecker, weight int, copyIcon *bool) *Manager {
	return &Manager{Name: name, Checker: checker, Weight: weight, CopyIcon: copyIcon}
}

// OrderKey yields the deterministic sort key: zero-padded weight, then
// config name. Independent of filesystem iteration order.
func (m *Manager) OrderKey() string {
	return fmt.Sprintf("%02d:%s", m.Weight, m.Name)
}

// IsEmpty reports whether the manager has no usable rules.
func (m *Manager) IsEmpty() bool {
	return m.Checker.IsEmpty()
}

// CleanEmpty prunes the checker tree.
func (m *Manager) CleanEmpty() {
	m.Checker.CleanEmpty()
}

// IsAllowed evaluates the checker. An empty manager never matches: a
// misconfigured icon must not claim every folder by vacuous ALL.
func (m *Manager) IsAllowed(entry *paths.Folder) bool {
	if m.Checker.IsEmpty() {
		return false
	}
	return m.Checker.IsAllowed(entry)
}

// Build resolves the checker's value sets with the shared decorations.
func (m *Manager) Build(decorations []string) {
	m.Checker.Build(decorations)
}

func (m *Manager) String() string {
	return fmt.Sprintf("%q Manager [%d]", m.Name, m.Weight)
}

// SortManagers orders managers by ascending (weight, name). Matching
// stops at the first allowing manager, so this order is the global
// match precedence.
func SortManagers(managers []*Manager) {
	sort.SliceStable(managers, func(i, j int) bool {
		return managers[i].OrderKey() < managers[j].OrderKey()
	})
}

// FirstMatch returns the first manager, in precedence order, whose
// checker allows the entry. Later managers are never evaluated.
func FirstMatch(managers []*Manager, entry *paths.Folder) *Manager {
	for _, manager := range managers {
		if manager.IsAllowed(entry) {
			return manager
		}
	}
	return nil
}

// ExcludeManager prunes folders from consideration: an entry is
// excluded when any of its checkers allows it. With zero checkers it
// vacuously excludes nothing.
type ExcludeManager struct {
	Checkers []*RuleChecker
}

// NewExcludeManager builds an exclude manager over the given checkers.
func NewExcludeManager(checkers []*RuleChecker) *ExcludeManager {
	return &ExcludeManager{Checkers: checkers}
}

// IsEmpty is transitive over the checkers.
func (m *ExcludeManager) IsEmpty() bool {
	for _, checker := range m.Checkers {
		if !checker.IsEmpty() {
			return false
		}
	}
	return true
}

// CleanEmpty prunes empty checkers.
func (m *ExcludeManager) CleanEmpty() {
	kept := m.Checkers[:0]
	for _, checker := range m.Checkers {
		checker.CleanEmpty()
		if checker.IsEmpty() {
			continue
		}
		kept = append(kept, checker)
	}
	m.Checkers = kept
}

// IsExcluded reports whether the entry should be pruned. False for
// every input when no checkers are configured.
func (m *ExcludeManager) IsExcluded(entry *paths.Folder) bool {
	if m.IsEmpty() {
		return false
	}
	for _, checker := range m.Checkers {
		if checker.IsAllowed(entry) {
			return true
		}
	}
	return false
}

// Build resolves every checker with the shared decorations.
func (m *ExcludeManager) Build(decorations []string) {
	for _, checker := range m.Checkers {
		checker.Build(decorations)
	}
}

func (m *ExcludeManager) String() string {
	return fmt.Sprintf("Exclude Manager [%d]", len(m.Checkers))
}
