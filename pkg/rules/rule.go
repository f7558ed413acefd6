package rules

import (
	"strings"

	"github.com/icon-manager/iconman/pkg/paths"
)

// Operator combines the results of child predicates or candidate values.
type Operator int

const (
	OperatorUnknown Operator = iota
	OperatorAny
	OperatorAll
)

// ParseOperator maps a configured operator name, falling back to
// OperatorUnknown for anything unrecognized.
func ParseOperator(value string) Operator {
	switch strings.ToLower(value) {
	case "any":
		return OperatorAny
	case "all":
		return OperatorAll
	}
	return OperatorUnknown
}

func (o Operator) String() string {
	switch o {
	case OperatorAny:
		return "any"
	case OperatorAll:
		return "all"
	}
	return "unknown"
}

// Attribute names the folder property a rule evaluates.
type Attribute int

const (
	AttributeUnknown Attribute = iota
	AttributeName
	AttributePath
	AttributeParentName
	AttributeParentPath
)

// ParseAttribute maps a configured attribute name, falling back to
// AttributeUnknown for anything unrecognized.
func ParseAttribute(value string) Attribute {
	switch strings.ToLower(value) {
	case "name":
		return AttributeName
	case "path":
		return AttributePath
	case "parent_name":
		return AttributeParentName
	case "parent_path":
		return AttributeParentPath
	}
	return AttributeUnknown
}

func (a Attribute) String() string {
	switch a {
	case AttributeName:
		return "name"
	case AttributePath:
		return "path"
	case AttributeParentName:
		return "parent_name"
	case AttributeParentPath:
		return "parent_path"
	}
	return "unknown"
}

// Comparison is the closed set of comparison modes. Mode-specific
// behavior (decoration style, value preparation, evaluation) hangs off
// this tag instead of a type hierarchy.
type Comparison int

const (
	ComparisonUnknown Comparison = iota
	ComparisonEquals
	ComparisonNotEquals
	ComparisonStartsWith
	ComparisonEndsWith
	ComparisonStartsOrEndsWith
	ComparisonContains
	ComparisonNotContains
	ComparisonContainsFile
	ComparisonNotContainsFile
	ComparisonContainsFolder
	ComparisonNotContainsFolder
	ComparisonChained
)

// comparisonKeys maps config keys to comparison modes. The key set
// doubles as the discriminator for rule block decoding.
var comparisonKeys = map[string]Comparison{
	"equals":              ComparisonEquals,
	"not_equals":          ComparisonNotEquals,
	"starts_with":         ComparisonStartsWith,
	"ends_with":           ComparisonEndsWith,
	"start_or_ends_with":  ComparisonStartsOrEndsWith,
	"contains":            ComparisonContains,
	"not_contains":        ComparisonNotContains,
	"contains_file":       ComparisonContainsFile,
	"not_contains_file":   ComparisonNotContainsFile,
	"contains_folder":     ComparisonContainsFolder,
	"not_contains_folder": ComparisonNotContainsFolder,
	"chained":             ComparisonChained,
}

func (c Comparison) String() string {
	for key, comparison := range comparisonKeys {
		if comparison == c {
			return key
		}
	}
	return "unknown"
}

// decorationStyle returns which before/after forms the mode generates.
// Equality modes get the full cross product; substring modes get prefix
// and suffix only; scan modes enumerate filesystem facts, not strings,
// and are never decorated.
func (c Comparison) decorationStyle() DecorationStyle {
	switch c {
	case ComparisonEquals, ComparisonNotEquals:
		return StyleFull
	case ComparisonStartsWith, ComparisonEndsWith, ComparisonStartsOrEndsWith,
		ComparisonContains, ComparisonNotContains:
		return StylePrefixSuffix
	}
	return StyleNone
}

// isExtensionScan reports whether the mode enumerates file extensions.
func (c Comparison) isExtensionScan() bool {
	return c == ComparisonContainsFile || c == ComparisonNotContainsFile
}

// isFolderScan reports whether the mode enumerates child folder names.
func (c Comparison) isFolderScan() bool {
	return c == ComparisonContainsFolder || c == ComparisonNotContainsFolder
}

// Rule is one predicate over a folder entry. Implementations are built
// once at load time and are read-only afterwards.
type Rule interface {
	// IsAllowed evaluates the predicate. It never errors: unknown
	// attributes or operators fail closed.
	IsAllowed(entry *paths.Folder) bool
	// IsEmpty reports whether the rule has no configured values and can
	// never match.
	IsEmpty() bool
	// Build resolves the candidate value set once, merging the given
	// shared decorations into the rule's own. Must be called before any
	// IsAllowed and never concurrently with it.
	Build(decorations []string)
}

// DefaultSearchLevel is the depth limit for extension and folder scans.
const DefaultSearchLevel = 1

// SingleRule is a single comparison over one attribute. The zero value
// is useless; construct via NewSingleRule or the config decoder.
type SingleRule struct {
	Attribute     Attribute
	Comparison    Comparison
	Operator      Operator
	CaseSensitive bool
	// Decorate enables before/after expansion for this rule.
	Decorate bool
	// Level bounds extension/folder scans (1 = direct children only).
	Level int

	raw         []string
	decorations []string
	values      []string
	generated   []string
}

// NewSingleRule assembles an unbuilt rule. The localDecorations come
// from the rule's own config block; shared decorations are merged in at
// Build time.
func NewSingleRule(attribute Attribute, comparison Comparison, operator Operator,
	values []string, caseSensitive, decorate bool, localDecorations []string) *SingleRule {
	return &SingleRule{
		Attribute:     attribute,
		Comparison:    comparison,
		Operator:      operator,
		CaseSensitive: caseSensitive,
		Decorate:      decorate,
		Level:         DefaultSearchLevel,
		raw:           values,
		decorations:   localDecorations,
	}
}

// IsEmpty reports whether the rule has no configured values.
func (r *SingleRule) IsEmpty() bool {
	return len(r.raw) == 0
}

// prepareValue strips the leading wildcard/dot from a configured
// extension ("*.py" and ".py" both compare as "py").
func (r *SingleRule) prepareValue(value string) string {
	if r.Comparison.isExtensionScan() {
		return strings.TrimLeft(value, "*.")
	}
	return value
}

// Build resolves the immutable candidate sets for this rule.
func (r *SingleRule) Build(decorations []string) {
	prepared := make([]string, 0, len(r.raw))
	for _, value := range r.raw {
		prepared = append(prepared, r.prepareValue(value))
	}
	r.values = NormalizeValues(prepared, r.CaseSensitive)

	r.generated = nil
	if !r.Decorate {
		return
	}
	merged := append(append([]string{}, r.decorations...), decorations...)
	merged = NormalizeValues(merged, r.CaseSensitive)
	r.generated = GenerateCandidates(r.values, dedupe(merged), r.Comparison.decorationStyle())
}

// Candidates exposes the resolved value set (base values first), mainly
// for logging and tests.
func (r *SingleRule) Candidates() []string {
	return dedupe(append(append([]string{}, r.values...), r.generated...))
}

// attributeValue fetches the entry attribute a rule compares against.
func attributeValue(entry *paths.Folder, attribute Attribute) (string, bool) {
	switch attribute {
	case AttributeName:
		return entry.Name, true
	case AttributePath:
		return entry.Path, true
	case AttributeParentName:
		return entry.ParentName(), true
	case AttributeParentPath:
		return entry.ParentPath(), true
	}
	return "", false
}

// IsAllowed evaluates the rule against one folder entry. Fail-closed:
// unknown attribute or operator denies without erroring.
func (r *SingleRule) IsAllowed(entry *paths.Folder) bool {
	if r.Operator == OperatorUnknown || r.Comparison == ComparisonUnknown {
		return false
	}
	value, ok := attributeValue(entry, r.Attribute)
	if !ok {
		return false
	}
	value = normalize(value, r.CaseSensitive)

	if r.Operator == OperatorAll {
		return r.allAllowed(entry, value)
	}
	return r.anyAllowed(entry, value)
}

func (r *SingleRule) anyAllowed(entry *paths.Folder, value string) bool {
	for _, candidate := range r.values {
		if r.matchValue(entry, value, candidate) {
			return true
		}
	}
	for _, candidate := range r.generated {
		if r.matchValue(entry, value, candidate) {
			return true
		}
	}
	return false
}

// allAllowed passes when every base value matches, or, failing that,
// when every generated value matches. The candidate sets are judged
// separately: one decorated form failing must not veto an exact match
// on all configured values.
func (r *SingleRule) allAllowed(entry *paths.Folder, value string) bool {
	if r.matchAll(entry, value, r.values) {
		return true
	}
	if len(r.generated) == 0 {
		return false
	}
	return r.matchAll(entry, value, r.generated)
}

func (r *SingleRule) matchAll(entry *paths.Folder, value string, candidates []string) bool {
	for _, candidate := range candidates {
		if !r.matchValue(entry, value, candidate) {
			return false
		}
	}
	return true
}

// matchValue is the single dispatch over the comparison tag. Negated
// modes invert the per-value result, not the operator.
func (r *SingleRule) matchValue(entry *paths.Folder, value, candidate string) bool {
	switch r.Comparison {
	case ComparisonEquals:
		return value == candidate
	case ComparisonNotEquals:
		return value != candidate
	case ComparisonContains:
		return strings.Contains(value, candidate)
	case ComparisonNotContains:
		return !strings.Contains(value, candidate)
	case ComparisonStartsWith:
		return strings.HasPrefix(value, candidate)
	case ComparisonEndsWith:
		return strings.HasSuffix(value, candidate)
	case ComparisonStartsOrEndsWith:
		return strings.HasPrefix(value, candidate) || strings.HasSuffix(value, candidate)
	case ComparisonContainsFile:
		return r.hasExtension(r.scanRoot(entry), candidate)
	case ComparisonNotContainsFile:
		return !r.hasExtension(r.scanRoot(entry), candidate)
	case ComparisonContainsFolder:
		return r.hasFolder(r.scanRoot(entry), candidate)
	case ComparisonNotContainsFolder:
		return !r.hasFolder(r.scanRoot(entry), candidate)
	}
	return false
}

// scanRoot picks the folder a scan mode descends from: the entry
// itself, or its parent when the rule targets the parent path.
func (r *SingleRule) scanRoot(entry *paths.Folder) *paths.Folder {
	if r.Attribute == AttributeParentPath && entry.Parent != nil {
		return entry.Parent
	}
	return entry
}

func (r *SingleRule) hasExtension(folder *paths.Folder, candidate string) bool {
	found := false
	r.scanExtensions(folder, 0, func(ext string) {
		if strings.HasSuffix(ext, candidate) {
			found = true
		}
	})
	return found
}

func (r *SingleRule) scanExtensions(folder *paths.Folder, level int, visit func(string)) {
	for _, file := range folder.Files {
		if file.Ext == "" {
			continue
		}
		visit(normalize(file.Ext, r.CaseSensitive))
	}
	level++
	if level >= r.maxLevel() {
		return
	}
	for _, child := range folder.Folders {
		r.scanExtensions(child, level, visit)
	}
}

func (r *SingleRule) hasFolder(folder *paths.Folder, candidate string) bool {
	found := false
	r.scanFolderNames(folder, 0, func(name string) {
		if name == candidate {
			found = true
		}
	})
	return found
}

func (r *SingleRule) scanFolderNames(folder *paths.Folder, level int, visit func(string)) {
	for _, child := range folder.Folders {
		visit(normalize(child.Name, r.CaseSensitive))
	}
	level++
	if level >= r.maxLevel() {
		return
	}
	for _, child := range folder.Folders {
		r.scanFolderNames(child, level, visit)
	}
}

func (r *SingleRule) maxLevel() int {
	if r.Level <= 0 {
		return DefaultSearchLevel
	}
	return r.Level
}

// ChainedRule combines sub-rules under one attribute section with its
// own operator, so a single rule slot can express a boolean group.
type ChainedRule struct {
	Attribute Attribute
	Operator  Operator
	Rules     []Rule
}

// IsEmpty is transitive: a chain with no usable sub-rule is empty.
func (r *ChainedRule) IsEmpty() bool {
	if len(r.Rules) == 0 {
		return true
	}
	for _, rule := range r.Rules {
		if !rule.IsEmpty() {
			return false
		}
	}
	return true
}

// Build forwards the shared decorations to every sub-rule.
func (r *ChainedRule) Build(decorations []string) {
	for _, rule := range r.Rules {
		rule.Build(decorations)
	}
}

// IsAllowed combines the sub-rule verdicts with the chain operator.
func (r *ChainedRule) IsAllowed(entry *paths.Folder) bool {
	if r.Operator == OperatorAll {
		for _, rule := range r.Rules {
			if !rule.IsAllowed(entry) {
				return false
			}
		}
		return true
	}
	for _, rule := range r.Rules {
		if rule.IsAllowed(entry) {
			return true
		}
	}
	return false
}
