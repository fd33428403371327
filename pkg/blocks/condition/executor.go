// Package condition provides the executor for condition blocks, the only block
// type that gates traversal.
package condition

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/flowforge/flowforge/pkg/models"
)

// Supported operators.
const (
	OperatorEquals      = "equals"
	OperatorNotEquals   = "not_equals"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
	OperatorContains    = "contains"
)

// Executor compares a variable against a configured value. A false result
// halts expansion from the block without failing the run.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Type() models.BlockType {
	return models.BlockTypeCondition
}

func (e *Executor) Name() string {
	return "Condition"
}

func (e *Executor) Description() string {
	return "Continues the workflow only when a variable satisfies the configured comparison"
}

// Schema returns the JSON schema for condition block configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{
				"type":        "string",
				"description": "Variable name; dotted paths reach into stored objects",
				"examples":    []string{"count", "api1_response.status"},
			},
			"operator": map[string]any{
				"type":        "string",
				"description": "Comparison operator; unknown operators evaluate to true",
				"default":     models.DefaultConditionOperator,
				"examples":    []string{OperatorEquals, OperatorNotEquals, OperatorGreaterThan, OperatorLessThan, OperatorContains},
			},
			"value": map[string]any{
				"description": "Value compared against the variable",
			},
		},
	}
}

// Execute evaluates the comparison.
func (e *Executor) Execute(
	_ context.Context,
	block *models.WorkflowBlock,
	config models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	conditionConfig, ok := config.(models.ConditionConfig)
	if !ok {
		return models.BlockOutcome{}, fmt.Errorf("%w: expected condition configuration, got %T", models.ErrMalformedConfig, config)
	}

	execCtx.Info(block.ID, fmt.Sprintf("Evaluating condition: %s %s %v", conditionConfig.Field, conditionConfig.Operator, text(conditionConfig.Value)), nil)

	actual := Resolve(execCtx.Variables(), conditionConfig.Field)
	result := Evaluate(actual, conditionConfig.Operator, conditionConfig.Value)

	execCtx.Info(block.ID, fmt.Sprintf("Condition result: %t", result), map[string]any{"result": result})

	return models.BlockOutcome{
		Success: true,
		Halt:    !result,
		Message: fmt.Sprintf("Condition result: %t", result),
		Data:    map[string]any{"result": result},
	}, nil
}

// Resolve looks field up in variables. A missing exact key is retried as a dotted path.
func Resolve(variables map[string]any, field string) any {
	if value, ok := variables[field]; ok {
		return value
	}

	if !strings.Contains(field, ".") {
		return nil
	}

	var current any = variables

	for _, part := range strings.Split(field, ".") {
		object, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		current, ok = object[part]
		if !ok {
			return nil
		}
	}

	return current
}

// Evaluate applies operator to actual and expected.
func Evaluate(actual any, operator string, expected any) bool {
	switch operator {
	case OperatorEquals:
		return looseEquals(actual, expected)
	case OperatorNotEquals:
		return !looseEquals(actual, expected)
	case OperatorGreaterThan:
		left, right, ok := orderedPair(actual, expected)

		return ok && left > right
	case OperatorLessThan:
		left, right, ok := orderedPair(actual, expected)

		return ok && left < right
	case OperatorContains:
		return strings.Contains(text(actual), text(expected))
	default:
		return true
	}
}

func looseEquals(actual, expected any) bool {
	if left, right, ok := numericPair(actual, expected); ok {
		return left == right
	}

	return text(actual) == text(expected)
}

func numericPair(actual, expected any) (float64, float64, bool) {
	left, ok := number(actual)
	if !ok {
		return 0, 0, false
	}

	right, ok := number(expected)
	if !ok {
		return 0, 0, false
	}

	return left, right, true
}

// orderedPair coerces both sides for greater_than and less_than: booleans are
// 1 or 0 and a blank string is 0. A missing variable (nil) never orders.
func orderedPair(actual, expected any) (float64, float64, bool) {
	left, ok := ordinal(actual)
	if !ok {
		return 0, 0, false
	}

	right, ok := ordinal(expected)
	if !ok {
		return 0, 0, false
	}

	return left, right, true
}

func ordinal(value any) (float64, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}

		return 0, true
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, true
		}
	}

	return number(value)
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)

		return f, err == nil
	default:
		return 0, false
	}
}

func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
