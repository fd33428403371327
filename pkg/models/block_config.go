package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedConfig indicates a recognised configuration key holds a value of the wrong kind.
var ErrMalformedConfig = errors.New("malformed block configuration")

// BlockConfig is the strongly typed configuration of one block variant.
type BlockConfig interface {
	BlockType() BlockType
}

// TriggerConfig configures a trigger block.
type TriggerConfig struct {
	TriggerType string
	Name        string
}

func (TriggerConfig) BlockType() BlockType { return BlockTypeTrigger }

// APICallConfig configures an api_call block. An empty URL means the call is skipped.
type APICallConfig struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    any
	Timeout time.Duration
}

func (APICallConfig) BlockType() BlockType { return BlockTypeAPICall }

// NotificationConfig configures a notification block.
type NotificationConfig struct {
	Channel    string
	Recipients []string
	Subject    string
	Body       string
}

func (NotificationConfig) BlockType() BlockType { return BlockTypeNotification }

// ConditionConfig configures a condition block.
type ConditionConfig struct {
	Field    string
	Operator string
	Value    any
}

func (ConditionConfig) BlockType() BlockType { return BlockTypeCondition }

// LoopConfig configures a loop block.
type LoopConfig struct {
	MaxIterations int
}

func (LoopConfig) BlockType() BlockType { return BlockTypeLoop }

// DelayConfig configures a delay block.
type DelayConfig struct {
	Duration float64
	Unit     string
}

func (DelayConfig) BlockType() BlockType { return BlockTypeDelay }

// Requested converts the configured magnitude and unit to a duration.
// Unknown units are read as seconds.
func (c DelayConfig) Requested() time.Duration {
	multiplier := time.Second

	switch c.Unit {
	case "minutes":
		multiplier = time.Minute
	case "hours":
		multiplier = time.Hour
	}

	return time.Duration(c.Duration * float64(multiplier))
}

// DataTransformConfig configures a data_transform block.
type DataTransformConfig struct {
	Operations []any
}

func (DataTransformConfig) BlockType() BlockType { return BlockTypeDataTransform }

// ActionConfig configures the generic action and database blocks.
type ActionConfig struct {
	Kind      BlockType
	Name      string
	Operation string
	Raw       map[string]any
}

func (c ActionConfig) BlockType() BlockType { return c.Kind }

// EndConfig configures an end block.
type EndConfig struct{}

func (EndConfig) BlockType() BlockType { return BlockTypeEnd }

// GenericConfig carries the raw configuration of an unrecognised block type.
type GenericConfig struct {
	Kind BlockType
	Raw  map[string]any
}

func (c GenericConfig) BlockType() BlockType { return c.Kind }

// Defaults applied when configuration keys are absent.
const (
	DefaultHTTPMethod          = "GET"
	DefaultNotificationChannel = "email"
	DefaultNotificationSubject = "Workflow Notification"
	DefaultNotificationBody    = "This is an automated message from FlowForge."
	DefaultConditionOperator   = "equals"
	DefaultLoopMaxIterations   = 10
	DefaultDelayDuration       = 1.0
	DefaultDelayUnit           = "seconds"
)

// ParseBlockConfig maps a block's type tag to its typed configuration variant.
func ParseBlockConfig(block *WorkflowBlock) (BlockConfig, error) {
	cfg := block.Config
	if cfg == nil {
		cfg = map[string]any{}
	}

	var (
		parsed BlockConfig
		err    error
	)

	switch kind := block.Type.Canonical(); kind {
	case BlockTypeTrigger:
		parsed, err = parseTriggerConfig(cfg)
	case BlockTypeAPICall:
		parsed, err = parseAPICallConfig(cfg)
	case BlockTypeNotification:
		parsed, err = parseNotificationConfig(cfg)
	case BlockTypeCondition:
		parsed, err = parseConditionConfig(cfg)
	case BlockTypeLoop:
		parsed, err = parseLoopConfig(cfg)
	case BlockTypeDelay:
		parsed, err = parseDelayConfig(cfg)
	case BlockTypeDataTransform:
		parsed = DataTransformConfig{Operations: asSlice(lookup(cfg, "operations"))}
	case BlockTypeAction, BlockTypeDatabase:
		parsed, err = parseActionConfig(kind, cfg)
	case BlockTypeEnd:
		parsed = EndConfig{}
	default:
		parsed = GenericConfig{Kind: kind, Raw: cfg}
	}

	if err != nil {
		return nil, fmt.Errorf("block %s (%s): %w", block.ID, block.Type, err)
	}

	return parsed, nil
}

func parseTriggerConfig(cfg map[string]any) (BlockConfig, error) {
	triggerType, err := stringValue(cfg, "trigger_type", "triggerType")
	if err != nil {
		return nil, err
	}

	name, err := stringValue(cfg, "name")
	if err != nil {
		return nil, err
	}

	if triggerType == "" {
		triggerType = string(TriggerTypeManual)
	}

	return TriggerConfig{TriggerType: triggerType, Name: name}, nil
}

func parseAPICallConfig(cfg map[string]any) (BlockConfig, error) {
	url, err := stringValue(cfg, "url")
	if err != nil {
		return nil, err
	}

	method, err := stringValue(cfg, "method")
	if err != nil {
		return nil, err
	}

	if method == "" {
		method = DefaultHTTPMethod
	}

	headers := make(map[string]string)

	if raw := lookup(cfg, "headers"); raw != nil {
		values, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: 'headers' must be an object", ErrMalformedConfig)
		}

		for key, value := range values {
			headers[key] = fmt.Sprint(value)
		}
	}

	apiConfig := APICallConfig{
		URL:     strings.TrimSpace(url),
		Method:  strings.ToUpper(method),
		Headers: headers,
		Body:    lookup(cfg, "body"),
	}

	if raw := lookup(cfg, "timeout"); raw != nil {
		seconds, ok := toFloat(raw)
		if !ok || seconds < 0 {
			return nil, fmt.Errorf("%w: 'timeout' must be a non-negative number of seconds", ErrMalformedConfig)
		}

		apiConfig.Timeout = time.Duration(seconds * float64(time.Second))
	}

	return apiConfig, nil
}

func parseNotificationConfig(cfg map[string]any) (BlockConfig, error) {
	channel, err := stringValue(cfg, "type", "channel")
	if err != nil {
		return nil, err
	}

	if channel == "" {
		channel = DefaultNotificationChannel
	}

	recipients, err := recipientList(lookup(cfg, "to", "recipient", "recipients"))
	if err != nil {
		return nil, err
	}

	subject, err := stringValue(cfg, "subject")
	if err != nil {
		return nil, err
	}

	if subject == "" {
		subject = DefaultNotificationSubject
	}

	body, err := stringValue(cfg, "body", "message")
	if err != nil {
		return nil, err
	}

	if body == "" {
		body = DefaultNotificationBody
	}

	return NotificationConfig{
		Channel:    channel,
		Recipients: recipients,
		Subject:    subject,
		Body:       body,
	}, nil
}

func parseConditionConfig(cfg map[string]any) (BlockConfig, error) {
	field, err := stringValue(cfg, "field")
	if err != nil {
		return nil, err
	}

	operator, err := stringValue(cfg, "operator")
	if err != nil {
		return nil, err
	}

	if operator == "" {
		operator = DefaultConditionOperator
	}

	return ConditionConfig{Field: field, Operator: operator, Value: lookup(cfg, "value")}, nil
}

func parseLoopConfig(cfg map[string]any) (BlockConfig, error) {
	loopConfig := LoopConfig{MaxIterations: DefaultLoopMaxIterations}

	if raw := lookup(cfg, "max_iterations", "maxIterations"); raw != nil {
		value, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%w: 'maxIterations' must be a number", ErrMalformedConfig)
		}

		// Zero falls back to the default, matching how the builder treats an unset field.
		if value > 0 {
			loopConfig.MaxIterations = int(value)
		} else if value < 0 {
			loopConfig.MaxIterations = 0
		}
	}

	return loopConfig, nil
}

func parseDelayConfig(cfg map[string]any) (BlockConfig, error) {
	delayConfig := DelayConfig{Duration: DefaultDelayDuration, Unit: DefaultDelayUnit}

	if raw := lookup(cfg, "duration"); raw != nil {
		value, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%w: 'duration' must be a number", ErrMalformedConfig)
		}

		if value > 0 {
			delayConfig.Duration = value
		}
	}

	unit, err := stringValue(cfg, "unit")
	if err != nil {
		return nil, err
	}

	if unit != "" {
		delayConfig.Unit = strings.ToLower(unit)
	}

	return delayConfig, nil
}

func parseActionConfig(kind BlockType, cfg map[string]any) (BlockConfig, error) {
	name, err := stringValue(cfg, "name")
	if err != nil {
		return nil, err
	}

	operation, err := stringValue(cfg, "operation", "action_type", "actionType")
	if err != nil {
		return nil, err
	}

	return ActionConfig{Kind: kind, Name: name, Operation: operation, Raw: cfg}, nil
}

// lookup returns the first present value among keys.
func lookup(cfg map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := cfg[key]; ok && value != nil {
			return value
		}
	}

	return nil
}

func stringValue(cfg map[string]any, keys ...string) (string, error) {
	raw := lookup(cfg, keys...)
	if raw == nil {
		return "", nil
	}

	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: '%s' must be a string, got %T", ErrMalformedConfig, keys[0], raw)
	}

	return value, nil
}

func recipientList(raw any) ([]string, error) {
	var parts []string

	switch value := raw.(type) {
	case nil:
		return nil, nil
	case string:
		parts = strings.Split(value, ",")
	case []string:
		parts = value
	case []any:
		for _, item := range value {
			text, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: recipients must be strings, got %T", ErrMalformedConfig, item)
			}

			parts = append(parts, strings.Split(text, ",")...)
		}
	default:
		return nil, fmt.Errorf("%w: 'to' must be a string or a list, got %T", ErrMalformedConfig, raw)
	}

	recipients := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}

	return recipients, nil
}

func asSlice(raw any) []any {
	switch value := raw.(type) {
	case []any:
		return value
	case []map[string]any:
		items := make([]any, len(value))
		for i, item := range value {
			items[i] = item
		}

		return items
	default:
		return nil
	}
}

func toFloat(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case uint:
		return float64(value), true
	case uint64:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()

		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)

		return f, err == nil
	default:
		return 0, false
	}
}
