package events

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/grillo/pkg/memory"
)

// PublishingStore decorates a memory.Store, emitting a TurnSaved event
// after every successful save and a MemoryCleared event after Clear.
// Publish failures are logged, never surfaced: event delivery must not fail
// the write that already happened.
type PublishingStore struct {
	memory.Store
	sink EventSink
}

func NewPublishingStore(store memory.Store, sink EventSink) *PublishingStore {
	return &PublishingStore{Store: store, sink: sink}
}

var _ memory.Store = (*PublishingStore)(nil)

// OutputKey exposes the wrapped store's answer key through the decorator.
func (s *PublishingStore) OutputKey() string {
	return memory.OutputKeyOf(s.Store)
}

func (s *PublishingStore) SaveContext(ctx context.Context, inputs memory.TurnInputs, outputs memory.TurnOutputs) error {
	if err := s.Store.SaveContext(ctx, inputs, outputs); err != nil {
		return err
	}
	event := &TurnSaved{
		EventType: EventTypeTurnSaved,
		SavedAt:   time.Now(),
		Inputs:    inputs,
		Outputs:   outputs,
	}
	if err := s.sink.PublishEvent(event); err != nil {
		log.Warn().Err(err).Msg("Failed to publish turn-saved event")
	}
	return nil
}

func (s *PublishingStore) Clear(ctx context.Context) error {
	if err := s.Store.Clear(ctx); err != nil {
		return err
	}
	event := &MemoryCleared{
		EventType: EventTypeMemoryCleared,
		ClearedAt: time.Now(),
	}
	if err := s.sink.PublishEvent(event); err != nil {
		log.Warn().Err(err).Msg("Failed to publish memory-cleared event")
	}
	return nil
}
