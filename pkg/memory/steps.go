package memory

import (
	"reflect"
	"strings"
)

// AgentAction identifies one capability invocation: the tool name and the
// arguments it was called with.
type AgentAction struct {
	Tool      string `json:"tool" yaml:"tool"`
	ToolInput any    `json:"toolInput,omitempty" yaml:"toolInput,omitempty"`
}

// AgentStep is one recorded tool invocation within a turn. Observation is
// nil until the tool has returned.
type AgentStep struct {
	Action      AgentAction `json:"action" yaml:"action"`
	Observation any         `json:"observation,omitempty" yaml:"observation,omitempty"`
}

// HasTool reports whether the step references an actual tool. Final-answer
// pseudo-steps carry no tool name and are skipped by summaries.
func (s AgentStep) HasTool() bool {
	return strings.TrimSpace(s.Action.Tool) != ""
}

// DecodeSteps coerces the intermediateSteps output field into typed steps.
// Callers hand us whatever their agent executor produced: a typed slice, a
// slice of untyped values, or raw maps from a deserialized transcript. All
// of these decode; anything unrecognizable is skipped.
func DecodeSteps(v any) []AgentStep {
	switch steps := v.(type) {
	case nil:
		return nil
	case []AgentStep:
		return steps
	case []*AgentStep:
		out := make([]AgentStep, 0, len(steps))
		for _, s := range steps {
			if s != nil {
				out = append(out, *s)
			}
		}
		return out
	case []any:
		out := make([]AgentStep, 0, len(steps))
		for _, e := range steps {
			if s, ok := decodeStep(e); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func decodeStep(v any) (AgentStep, bool) {
	switch s := v.(type) {
	case AgentStep:
		return s, true
	case *AgentStep:
		if s == nil {
			return AgentStep{}, false
		}
		return *s, true
	}
	if m, ok := asStringMap(v); ok {
		return decodeStepMap(m)
	}
	return AgentStep{}, false
}

func decodeStepMap(m map[string]any) (AgentStep, bool) {
	step := AgentStep{Observation: m["observation"]}

	// nested {action: {tool, toolInput}} shape
	if action, ok := asStringMap(m["action"]); ok {
		step.Action.Tool, _ = action["tool"].(string)
		step.Action.ToolInput = action["toolInput"]
		return step, true
	}

	// flat {tool, toolInput} shape
	if tool, ok := m["tool"].(string); ok {
		step.Action.Tool = tool
		step.Action.ToolInput = m["toolInput"]
		return step, true
	}

	return AgentStep{}, false
}

// asStringMap coerces any string-keyed map into a plain map[string]any.
// Decoders like yaml.v3 propagate named map types (TurnOutputs and friends)
// into nested mappings, so a bare type assertion is not enough here.
func asStringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
