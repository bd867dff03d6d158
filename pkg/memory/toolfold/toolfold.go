// Package toolfold decorates a memory.Store so that turns carrying tool
// invocations are persisted together with a deterministic textual rendering
// of those invocations. The decorator intercepts exactly SaveContext; every
// other capability of the wrapped store passes through the embedded
// interface untouched, so the decorated store is indistinguishable from the
// original for anything but the save path.
package toolfold

import (
	"context"

	"github.com/pkg/errors"

	"github.com/go-go-golems/grillo/pkg/memory"
)

// Store wraps a memory.Store and folds tool-call summaries into the answer
// text before delegating the save. It holds no mutable state, so concurrent
// SaveContext calls never race inside the decorator.
type Store struct {
	memory.Store
	cfg Config
}

var _ memory.Store = (*Store)(nil)

// Wrap decorates store. Configuration problems are reported here, not at
// first use.
func Wrap(store memory.Store, opts ...Option) (*Store, error) {
	if store == nil {
		return nil, errors.New("toolfold: nil store")
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "toolfold")
	}
	return &Store{Store: store, cfg: cfg}, nil
}

// Config returns the fold configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// Unwrap returns the decorated store.
func (s *Store) Unwrap() memory.Store {
	return s.Store
}

// OutputKey exposes the wrapped store's answer key so that stacking another
// decorator on top still resolves the right output field.
func (s *Store) OutputKey() string {
	return memory.OutputKeyOf(s.Store)
}

// SaveContext folds the turn's tool calls into the persisted answer text.
//
// Turns without surviving tool steps are handed to the wrapped store with
// the original inputs and outputs — the decorator must be a strict no-op
// for tool-less turns. Otherwise the outputs are shallow-copied with only
// the answer key rewritten; intermediateSteps stays intact for downstream
// consumers. Delegation goes through the embedded store directly, so a
// store that is itself wrapped elsewhere is never folded twice.
func (s *Store) SaveContext(ctx context.Context, inputs memory.TurnInputs, outputs memory.TurnOutputs) error {
	steps := s.cfg.FilterSteps(outputs.Steps())
	if len(steps) == 0 {
		return s.Store.SaveContext(ctx, inputs, outputs)
	}

	key := memory.OutputKeyOf(s.Store)
	answer := outputs.AnswerText(key)
	summary := renderSummary(steps, s.cfg.MaxObservationLength)

	var composed string
	switch s.cfg.Position {
	case PositionAppend:
		composed = answer + s.cfg.Joiner + summary
	case PositionReplace:
		composed = summary
	default:
		composed = summary + s.cfg.Joiner + answer
	}

	rewritten := make(memory.TurnOutputs, len(outputs))
	for k, v := range outputs {
		rewritten[k] = v
	}
	rewritten[key] = composed

	return s.Store.SaveContext(ctx, inputs, rewritten)
}
