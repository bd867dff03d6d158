package toolfold

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-go-golems/grillo/pkg/helpers"
	"github.com/go-go-golems/grillo/pkg/memory"
)

// renderSummary renders one line per step, joined by blank lines.
func renderSummary(steps []memory.AgentStep, maxObservation int) string {
	lines := make([]string, 0, len(steps))
	for _, step := range steps {
		lines = append(lines, renderStep(step, maxObservation))
	}
	return strings.Join(lines, "\n\n")
}

func renderStep(step memory.AgentStep, maxObservation int) string {
	args := renderValue(step.Action.ToolInput)
	observation := truncate(renderValue(step.Observation), maxObservation)
	return fmt.Sprintf("tool call: %s(%s) => %s", step.Action.Tool, args, observation)
}

// renderValue renders strings verbatim and everything else as compact JSON.
// Rendering never fails: unserializable values degrade to fmt's rendering.
func renderValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return marshalValue(v).ValueOr(fmt.Sprintf("%v", v))
}

func marshalValue(v any) helpers.Result[string] {
	b, err := json.Marshal(v)
	return helpers.NewResult(string(b), err)
}

// truncate cuts s to max runes and marks the cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + TruncationMarker
}
