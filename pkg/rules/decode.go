package rules

import (
	"sort"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/logging"
)

// Config keys shared between icon rule configs and exclude configs.
const (
	KeyConfig              = "config"
	KeyOperator            = "operator"
	KeyRules               = "rules"
	KeyOrder               = "order"
	KeyCopyIcon            = "copy_icon"
	KeyCaseSensitive       = "case_sensitive"
	KeyBeforeOrAfter       = "before_or_after"
	KeyBeforeOrAfterValues = "before_or_after_values"
	KeyLevel               = "level"
)

// managerKeys are config-section keys that are not attribute sections.
var managerKeys = map[string]struct{}{
	KeyOperator: {},
	KeyOrder:    {},
	KeyCopyIcon: {},
}

// DecodeManager decodes a full icon rule config document into a
// Manager. The document's "config" object is keyed by attribute name;
// order, copy_icon and the overall operator may sit beside it or beside
// the attribute sections.
func DecodeManager(name string, document map[string]interface{}) (*Manager, error) {
	section, err := configSection(document)
	if err != nil {
		return nil, err
	}

	weight := intValue(section, document, KeyOrder, DefaultWeight)
	copyIcon := boolPtrValue(section, document, KeyCopyIcon)

	checker, err := DecodeRuleChecker(section)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "icon config %q", name)
	}
	return NewManager(name, checker, weight, copyIcon), nil
}

// DecodeExcludeManager decodes the shared exclude rules document: its
// "config" value is an array of rule checker blocks, ORed together.
func DecodeExcludeManager(document map[string]interface{}) (*ExcludeManager, error) {
	raw, ok := document[KeyConfig]
	if !ok {
		return nil, errors.Newf(errors.ErrConfigValid, "missing %q section", KeyConfig)
	}
	blocks, ok := raw.([]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrConfigValid,
			"%q section of an exclude config must be an array", KeyConfig)
	}

	checkers := make([]*RuleChecker, 0, len(blocks))
	for i, block := range blocks {
		cfg, ok := block.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigValid, "exclude block %d is not an object", i)
		}
		checker, err := DecodeRuleChecker(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "exclude block %d", i)
		}
		checkers = append(checkers, checker)
	}
	return NewExcludeManager(checkers), nil
}

// DecodeRuleChecker decodes one rule checker block: an operator plus
// one section per attribute. Unknown attribute names are a config
// error, not a silent skip.
func DecodeRuleChecker(cfg map[string]interface{}) (*RuleChecker, error) {
	operator, err := operatorValue(cfg, OperatorAll)
	if err != nil {
		return nil, err
	}

	// Sorted key iteration keeps decode errors and checker order stable
	// across runs.
	keys := make([]string, 0, len(cfg))
	for key := range cfg {
		if _, skip := managerKeys[key]; skip {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	checkers := make([]*AttributeChecker, 0, len(keys))
	for _, key := range keys {
		attribute := ParseAttribute(key)
		if attribute == AttributeUnknown {
			return nil, errors.Newf(errors.ErrConfigValid, "unknown rule attribute %q", key)
		}
		section, ok := cfg[key].(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigValid, "attribute section %q is not an object", key)
		}
		checker, err := DecodeAttributeChecker(attribute, section)
		if err != nil {
			return nil, err
		}
		checkers = append(checkers, checker)
	}
	return NewRuleChecker(checkers, operator), nil
}

// DecodeAttributeChecker decodes the rules configured for one
// attribute.
func DecodeAttributeChecker(attribute Attribute, cfg map[string]interface{}) (*AttributeChecker, error) {
	operator, err := operatorValue(cfg, OperatorAny)
	if err != nil {
		return nil, err
	}

	var blocks []interface{}
	if raw, ok := cfg[KeyRules]; ok {
		blocks, ok = raw.([]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigValid,
				"%q of attribute %q must be an array", KeyRules, attribute)
		}
	}

	ruleList := make([]Rule, 0, len(blocks))
	for i, block := range blocks {
		ruleCfg, ok := block.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigValid,
				"rule %d of attribute %q is not an object", i, attribute)
		}
		rule, err := DecodeRule(attribute, ruleCfg)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRuleDecode,
				"rule %d of attribute %q", i, attribute)
		}
		ruleList = append(ruleList, rule)
	}
	return NewAttributeChecker(attribute, operator, ruleList), nil
}

// DecodeRule decodes one rule block. The comparison mode is the single
// recognized key present in the block: zero known keys or more than one
// is a configuration error rather than a silent pick.
func DecodeRule(attribute Attribute, block map[string]interface{}) (Rule, error) {
	logger := logging.GetLogger("rules.decode")

	var modes []string
	for key := range block {
		if _, ok := comparisonKeys[key]; ok {
			modes = append(modes, key)
		}
	}
	sort.Strings(modes)

	switch {
	case len(modes) == 0:
		return nil, errors.New(errors.ErrRuleUnknown, "rule block contains no known comparison mode")
	case len(modes) > 1:
		return nil, errors.Newf(errors.ErrRuleAmbiguous,
			"rule block contains %d comparison modes: %v", len(modes), modes)
	}

	mode := modes[0]
	comparison := comparisonKeys[mode]

	operator, err := operatorValue(block, OperatorAny)
	if err != nil {
		return nil, err
	}

	if comparison == ComparisonChained {
		return decodeChained(attribute, operator, block[mode])
	}

	values, err := stringSlice(block[mode])
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleDecode, "values of %q", mode)
	}

	rule := NewSingleRule(
		attribute,
		comparison,
		operator,
		values,
		boolValue(block, KeyCaseSensitive, false),
		boolValue(block, KeyBeforeOrAfter, false),
		optionalStrings(block, KeyBeforeOrAfterValues),
	)
	rule.Level = intValue(block, nil, KeyLevel, DefaultSearchLevel)

	logger.Trace().
		Str("attribute", attribute.String()).
		Str("comparison", mode).
		Int("values", len(values)).
		Msg("decoded rule")
	return rule, nil
}

func decodeChained(attribute Attribute, operator Operator, raw interface{}) (Rule, error) {
	blocks, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New(errors.ErrRuleDecode, "chained rule value must be an array of rule blocks")
	}
	subRules := make([]Rule, 0, len(blocks))
	for i, block := range blocks {
		cfg, ok := block.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrRuleDecode, "chained sub-rule %d is not an object", i)
		}
		rule, err := DecodeRule(attribute, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRuleDecode, "chained sub-rule %d", i)
		}
		subRules = append(subRules, rule)
	}
	return &ChainedRule{Attribute: attribute, Operator: operator, Rules: subRules}, nil
}

// configSection extracts the mandatory "config" object of a document.
func configSection(document map[string]interface{}) (map[string]interface{}, error) {
	raw, ok := document[KeyConfig]
	if !ok {
		return nil, errors.Newf(errors.ErrConfigValid, "missing %q section", KeyConfig)
	}
	section, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrConfigValid, "%q section must be an object", KeyConfig)
	}
	return section, nil
}

// operatorValue reads and validates an "operator" key. A present but
// unrecognized operator fails fast; an absent one takes the default.
func operatorValue(cfg map[string]interface{}, fallback Operator) (Operator, error) {
	raw, ok := cfg[KeyOperator]
	if !ok {
		return fallback, nil
	}
	name, ok := raw.(string)
	if !ok {
		return OperatorUnknown, errors.Newf(errors.ErrConfigValid, "operator must be a string, got %T", raw)
	}
	operator := ParseOperator(name)
	if operator == OperatorUnknown {
		return OperatorUnknown, errors.Newf(errors.ErrConfigValid, "unknown operator %q", name)
	}
	return operator, nil
}

func boolValue(cfg map[string]interface{}, key string, fallback bool) bool {
	if raw, ok := cfg[key]; ok {
		if value, ok := raw.(bool); ok {
			return value
		}
	}
	return fallback
}

// boolPtrValue keeps the configured tri-state: nil when unset or null.
func boolPtrValue(primary, secondary map[string]interface{}, key string) *bool {
	for _, cfg := range []map[string]interface{}{primary, secondary} {
		if cfg == nil {
			continue
		}
		if raw, ok := cfg[key]; ok {
			if value, ok := raw.(bool); ok {
				return &value
			}
		}
	}
	return nil
}

// intValue reads an integer from the primary section, then the
// secondary one. JSON numbers arrive as float64.
func intValue(primary, secondary map[string]interface{}, key string, fallback int) int {
	for _, cfg := range []map[string]interface{}{primary, secondary} {
		if cfg == nil {
			continue
		}
		switch value := cfg[key].(type) {
		case int:
			return value
		case int64:
			return int(value)
		case float64:
			return int(value)
		}
	}
	return fallback
}

func optionalStrings(cfg map[string]interface{}, key string) []string {
	raw, ok := cfg[key]
	if !ok {
		return nil
	}
	values, err := stringSlice(raw)
	if err != nil {
		return nil
	}
	return values
}

func stringSlice(raw interface{}) ([]string, error) {
	switch typed := raw.(type) {
	case []string:
		return typed, nil
	case []interface{}:
		values := make([]string, 0, len(typed))
		for _, item := range typed {
			value, ok := item.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid, "expected string, got %T", item)
			}
			values = append(values, value)
		}
		return values, nil
	case string:
		return []string{typed}, nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "expected string array, got %T", raw)
	}
}
