package rules_test

import (
	"encoding/json"
	"testing"

	"github.com/icon-manager/iconman/pkg/errors"
	"github.com/icon-manager/iconman/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJSON(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var document map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &document))
	return document
}

func TestDecodeManager_FullDocument(t *testing.T) {
	document := parseJSON(t, `{
		"config": {
			"order": 3,
			"copy_icon": true,
			"operator": "any",
			"name": {
				"operator": "any",
				"rules": [
					{"equals": ["ProjectX"], "before_or_after": true},
					{"contains": ["proj"], "case_sensitive": true}
				]
			},
			"path": {
				"rules": [
					{"contains_file": ["*.py"], "level": 2}
				]
			}
		}
	}`)

	manager, err := rules.DecodeManager("python", document)
	require.NoError(t, err)

	assert.Equal(t, "python", manager.Name)
	assert.Equal(t, 3, manager.Weight)
	require.NotNil(t, manager.CopyIcon)
	assert.True(t, *manager.CopyIcon)
	assert.Equal(t, rules.OperatorAny, manager.Checker.Operator)
	require.Len(t, manager.Checker.Checkers, 2)

	// Attribute sections decode in sorted key order.
	assert.Equal(t, rules.AttributeName, manager.Checker.Checkers[0].Attribute)
	assert.Equal(t, rules.AttributePath, manager.Checker.Checkers[1].Attribute)
	require.Len(t, manager.Checker.Checkers[0].Rules, 2)

	fileRule, ok := manager.Checker.Checkers[1].Rules[0].(*rules.SingleRule)
	require.True(t, ok)
	assert.Equal(t, rules.ComparisonContainsFile, fileRule.Comparison)
	assert.Equal(t, 2, fileRule.Level)
}

func TestDecodeManager_Defaults(t *testing.T) {
	document := parseJSON(t, `{
		"config": {
			"name": {"rules": [{"equals": ["app"]}]}
		}
	}`)

	manager, err := rules.DecodeManager("plain", document)
	require.NoError(t, err)

	assert.Equal(t, rules.DefaultWeight, manager.Weight)
	assert.Nil(t, manager.CopyIcon)
	// Attribute checkers default to ALL at the top, ANY per attribute.
	assert.Equal(t, rules.OperatorAll, manager.Checker.Operator)
	assert.Equal(t, rules.OperatorAny, manager.Checker.Checkers[0].Operator)
}

func TestDecodeManager_MissingConfigSection(t *testing.T) {
	_, err := rules.DecodeManager("broken", parseJSON(t, `{"order": 1}`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestDecodeRuleChecker_UnknownAttribute(t *testing.T) {
	_, err := rules.DecodeRuleChecker(parseJSON(t, `{
		"owner": {"rules": [{"equals": ["x"]}]}
	}`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Contains(t, err.Error(), "owner")
}

func TestDecodeRuleChecker_UnknownOperator(t *testing.T) {
	_, err := rules.DecodeRuleChecker(parseJSON(t, `{
		"operator": "most",
		"name": {"rules": []}
	}`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestDecodeRule_AmbiguousBlockRejected(t *testing.T) {
	_, err := rules.DecodeRule(rules.AttributeName, map[string]interface{}{
		"equals":   []interface{}{"a"},
		"contains": []interface{}{"b"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRuleAmbiguous))
}

func TestDecodeRule_NoKnownModeRejected(t *testing.T) {
	_, err := rules.DecodeRule(rules.AttributeName, map[string]interface{}{
		"matches": []interface{}{"a"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRuleUnknown))
}

func TestDecodeRule_Chained(t *testing.T) {
	block := parseJSON(t, `{
		"block": {
			"operator": "all",
			"chained": [
				{"starts_with": ["my"]},
				{"ends_with": ["lib"]}
			]
		}
	}`)["block"].(map[string]interface{})

	rule, err := rules.DecodeRule(rules.AttributeName, block)
	require.NoError(t, err)

	chained, ok := rule.(*rules.ChainedRule)
	require.True(t, ok)
	assert.Equal(t, rules.OperatorAll, chained.Operator)
	require.Len(t, chained.Rules, 2)

	rule.Build(nil)
	assert.True(t, rule.IsAllowed(newFolder("/code/mylib", nil)))
	assert.False(t, rule.IsAllowed(newFolder("/code/yourlib", nil)))
}

func TestDecodeRule_LocalDecorationValues(t *testing.T) {
	rule, err := rules.DecodeRule(rules.AttributeName, parseJSON(t, `{
		"block": {
			"equals": ["utils"],
			"before_or_after": true,
			"before_or_after_values": ["test_"]
		}
	}`)["block"].(map[string]interface{}))
	require.NoError(t, err)

	rule.Build(nil)
	assert.True(t, rule.IsAllowed(newFolder("/code/test_utils", nil)))
}

func TestDecodeExcludeManager(t *testing.T) {
	document := parseJSON(t, `{
		"config": [
			{"path": {"rules": [{"contains": ["node_modules"]}]}},
			{"name": {"rules": [{"equals": ["__pycache__"]}]}}
		]
	}`)

	exclude, err := rules.DecodeExcludeManager(document)
	require.NoError(t, err)
	require.Len(t, exclude.Checkers, 2)

	exclude.Build(nil)
	assert.True(t, exclude.IsExcluded(newFolder("/code/app/node_modules/react", nil)))
	assert.False(t, exclude.IsExcluded(newFolder("/code/app/src", nil)))
}

func TestDecodeExcludeManager_SectionMustBeArray(t *testing.T) {
	_, err := rules.DecodeExcludeManager(parseJSON(t, `{"config": {"name": {}}}`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
