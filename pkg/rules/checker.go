package rules

import "github.com/icon-manager/iconman/pkg/paths"

// AttributeChecker groups the rules configured for one folder attribute
// and combines their verdicts with ANY or ALL.
type AttributeChecker struct {
	Attribute Attribute
	Operator  Operator
	Rules     []Rule
}

// NewAttributeChecker builds an unbuilt checker for one attribute.
func NewAttributeChecker(attribute Attribute, operator Operator, rules []Rule) *AttributeChecker {
	return &AttributeChecker{Attribute: attribute, Operator: operator, Rules: rules}
}

// IsEmpty is transitive: the checker is empty iff every rule is empty.
func (c *AttributeChecker) IsEmpty() bool {
	for _, rule := range c.Rules {
		if !rule.IsEmpty() {
			return false
		}
	}
	return true
}

// CleanEmpty removes rules that can never match. Pruning once at load
// time keeps the per-folder evaluation free of misconfigured rules.
func (c *AttributeChecker) CleanEmpty() {
	kept := c.Rules[:0]
	for _, rule := range c.Rules {
		if rule.IsEmpty() {
			continue
		}
		kept = append(kept, rule)
	}
	c.Rules = kept
}

// IsAllowed combines the rule verdicts with the checker operator.
func (c *AttributeChecker) IsAllowed(entry *paths.Folder) bool {
	if c.Operator == OperatorAll {
		for _, rule := range c.Rules {
			if !rule.IsAllowed(entry) {
				return false
			}
		}
		return true
	}
	for _, rule := range c.Rules {
		if rule.IsAllowed(entry) {
			return true
		}
	}
	return false
}

// Build resolves every rule's value set with the shared decorations.
func (c *AttributeChecker) Build(decorations []string) {
	for _, rule := range c.Rules {
		rule.Build(decorations)
	}
}

// RuleChecker combines AttributeCheckers, potentially across different
// attributes, into a single allow/deny verdict for an entry.
type RuleChecker struct {
	Operator Operator
	Checkers []*AttributeChecker
}

// NewRuleChecker builds an unbuilt checker group.
func NewRuleChecker(checkers []*AttributeChecker, operator Operator) *RuleChecker {
	return &RuleChecker{Operator: operator, Checkers: checkers}
}

// IsEmpty is transitive over the attribute checkers.
func (c *RuleChecker) IsEmpty() bool {
	for _, checker := range c.Checkers {
		if !checker.IsEmpty() {
			return false
		}
	}
	return true
}

// CleanEmpty prunes empty attribute checkers after pruning their rules.
// Calling it twice leaves the checker in the same state as calling it
// once.
func (c *RuleChecker) CleanEmpty() {
	kept := c.Checkers[:0]
	for _, checker := range c.Checkers {
		checker.CleanEmpty()
		if checker.IsEmpty() {
			continue
		}
		kept = append(kept, checker)
	}
	c.Checkers = kept
}

// IsAllowed combines the attribute checker verdicts with the operator.
func (c *RuleChecker) IsAllowed(entry *paths.Folder) bool {
	if c.Operator == OperatorAll {
		for _, checker := range c.Checkers {
			if !checker.IsAllowed(entry) {
				return false
			}
		}
		return true
	}
	for _, checker := range c.Checkers {
		if checker.IsAllowed(entry) {
			return true
		}
	}
	return false
}

// Build resolves every attribute checker with the shared decorations.
func (c *RuleChecker) Build(decorations []string) {
	for _, checker := range c.Checkers {
		checker.Build(decorations)
	}
}

// Attributes lists the attribute names this checker covers, for logging.
func (c *RuleChecker) Attributes() []string {
	names := make([]string, 0, len(c.Checkers))
	for _, checker := range c.Checkers {
		names = append(names, checker.Attribute.String())
	}
	return names
}
