// Package memory provides conversational memory stores for agent pipelines.
//
// A Store records one request/response cycle (a "turn") at a time and hands
// prior turns back to the caller as template variables for the next prompt.
// The package ships an in-memory buffer store with count- and token-based
// windowing, a composite fan-out store, and, in the toolfold subpackage, a
// decorator that folds tool-call summaries into the persisted answer text.
package memory

import "context"

const (
	// KeyIntermediateSteps is the conventional output field holding the
	// ordered tool invocations of a turn.
	KeyIntermediateSteps = "intermediateSteps"

	// DefaultOutputKey is the output field holding the answer text when a
	// store does not name one itself.
	DefaultOutputKey = "output"
)

// TurnInputs maps variable names to the values that made up the user-facing
// request of a turn. Stores treat it as opaque.
type TurnInputs map[string]any

// TurnOutputs maps variable names to the values the agent produced for a
// turn. By convention it carries the answer text under the store's output
// key and the tool invocations under KeyIntermediateSteps.
type TurnOutputs map[string]any

// Store is the capability surface of a conversational memory implementation.
type Store interface {
	// MemoryVariables names the variables LoadMemoryVariables will return.
	MemoryVariables() []string
	// LoadMemoryVariables returns the remembered context for the next turn.
	LoadMemoryVariables(ctx context.Context, inputs TurnInputs) (map[string]any, error)
	// SaveContext persists one turn.
	SaveContext(ctx context.Context, inputs TurnInputs, outputs TurnOutputs) error
	// Clear drops all remembered turns.
	Clear(ctx context.Context) error
}

// OutputKeyer is implemented by stores that know which output field holds
// the answer text.
type OutputKeyer interface {
	OutputKey() string
}

// OutputKeyOf resolves the output key of a store, falling back to
// DefaultOutputKey when the store doesn't name one.
func OutputKeyOf(s Store) string {
	if keyer, ok := s.(OutputKeyer); ok {
		if key := keyer.OutputKey(); key != "" {
			return key
		}
	}
	return DefaultOutputKey
}

// AnswerText returns the answer string stored under key. Missing or
// non-string values count as empty.
func (o TurnOutputs) AnswerText(key string) string {
	if o == nil {
		return ""
	}
	s, _ := o[key].(string)
	return s
}

// Steps decodes the turn's intermediate steps. Missing means no steps.
func (o TurnOutputs) Steps() []AgentStep {
	if o == nil {
		return nil
	}
	return DecodeSteps(o[KeyIntermediateSteps])
}
