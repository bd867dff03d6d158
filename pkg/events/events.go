// Package events distributes memory lifecycle notifications over a
// watermill message bus. Stores stay synchronous; anything that wants to
// observe persisted turns (metrics, mirrors, debugging UIs) subscribes to a
// topic instead of wrapping the store itself.
package events

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type EventType string

const (
	EventTypeTurnSaved     EventType = "turn-saved"
	EventTypeMemoryCleared EventType = "memory-cleared"
)

// Event is a memory lifecycle notification.
type Event interface {
	Type() EventType
}

// TurnSaved is published after a store successfully persists a turn.
type TurnSaved struct {
	EventType EventType      `json:"type"`
	SavedAt   time.Time      `json:"saved_at"`
	Inputs    map[string]any `json:"inputs,omitempty"`
	Outputs   map[string]any `json:"outputs,omitempty"`
}

func (e *TurnSaved) Type() EventType {
	return EventTypeTurnSaved
}

// MemoryCleared is published after a store drops its history.
type MemoryCleared struct {
	EventType EventType `json:"type"`
	ClearedAt time.Time `json:"cleared_at"`
}

func (e *MemoryCleared) Type() EventType {
	return EventTypeMemoryCleared
}

// NewEventFromJSON decodes a published event payload.
func NewEventFromJSON(b []byte) (Event, error) {
	var probe struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, errors.Wrap(err, "failed to probe event type")
	}
	switch probe.Type {
	case EventTypeTurnSaved:
		var e TurnSaved
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, errors.Wrap(err, "failed to decode turn-saved event")
		}
		return &e, nil
	case EventTypeMemoryCleared:
		var e MemoryCleared
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, errors.Wrap(err, "failed to decode memory-cleared event")
		}
		return &e, nil
	default:
		return nil, errors.Errorf("unknown event type %q", probe.Type)
	}
}
