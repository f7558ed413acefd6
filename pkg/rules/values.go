package rules

import "strings"

// DecorationStyle controls which before/after forms a comparison mode
// generates for its rule values.
type DecorationStyle int

const (
	// StyleNone generates no decorated candidates (extension rules).
	StyleNone DecorationStyle = iota
	// StylePrefixSuffix generates prefix and suffix forms. Substring
	// style comparisons use this: the combined form would explode the
	// candidate set for almost no match value.
	StylePrefixSuffix
	// StyleFull generates prefix, suffix, and prefix+suffix forms
	// (equality style comparisons).
	StyleFull
)

// normalize lower-cases a value unless the rule is case sensitive.
func normalize(value string, caseSensitive bool) string {
	if caseSensitive {
		return value
	}
	return strings.ToLower(value)
}

// NormalizeValues applies case normalization to every value. The
// returned slice is a copy; inputs are never mutated.
func NormalizeValues(values []string, caseSensitive bool) []string {
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		normalized = append(normalized, normalize(value, caseSensitive))
	}
	return normalized
}

// dedupe removes duplicates while keeping first-seen order, so the
// candidate set is deterministic regardless of decoration input order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	return unique
}

// GenerateCandidates expands values into their decorated forms only.
// Values and decorations must already be case-normalized; normalization
// happens before decoration so matching stays case-insensitive
// end-to-end.
func GenerateCandidates(values, decorations []string, style DecorationStyle) []string {
	if style == StyleNone || len(decorations) == 0 {
		return nil
	}
	var generated []string
	for _, value := range values {
		for _, before := range decorations {
			generated = append(generated, before+value)
		}
		for _, after := range decorations {
			generated = append(generated, value+after)
		}
		if style == StyleFull {
			for _, before := range decorations {
				for _, after := range decorations {
					generated = append(generated, before+value+after)
				}
			}
		}
	}
	return dedupe(generated)
}

// Generate returns the full candidate set for a rule value list: the
// normalized values themselves plus every decorated form, deduplicated.
func Generate(values, decorations []string, caseSensitive bool, style DecorationStyle) []string {
	base := NormalizeValues(values, caseSensitive)
	decs := NormalizeValues(decorations, caseSensitive)
	return dedupe(append(base, GenerateCandidates(base, decs, style)...))
}
