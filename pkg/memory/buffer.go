package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huandu/go-clone"
	"github.com/tiktoken-go/tokenizer"
)

// SavedTurn is one persisted inputs/outputs pair.
type SavedTurn struct {
	ID      uuid.UUID
	Inputs  TurnInputs
	Outputs TurnOutputs
	SavedAt time.Time
}

// BufferStore is a thread-safe in-memory conversation buffer. It renders
// prior turns as a Human/AI transcript under a single memory variable and
// supports windowing by turn count and by token budget.
type BufferStore struct {
	mu    sync.RWMutex
	turns []SavedTurn

	memoryKey   string
	inputKey    string
	outputKey   string
	humanPrefix string
	aiPrefix    string

	maxTurns  int
	maxTokens int
	codec     tokenizer.Codec
}

type BufferOption func(*BufferStore)

// WithMemoryKey sets the variable name the history is returned under.
func WithMemoryKey(key string) BufferOption {
	return func(s *BufferStore) {
		s.memoryKey = key
	}
}

// WithInputKey sets the input field rendered as the human line.
func WithInputKey(key string) BufferOption {
	return func(s *BufferStore) {
		s.inputKey = key
	}
}

// WithOutputKey sets the output field holding the answer text.
func WithOutputKey(key string) BufferOption {
	return func(s *BufferStore) {
		s.outputKey = key
	}
}

// WithPrefixes overrides the Human/AI transcript prefixes.
func WithPrefixes(human, ai string) BufferOption {
	return func(s *BufferStore) {
		s.humanPrefix = human
		s.aiPrefix = ai
	}
}

// WithMaxTurns keeps only the most recent n turns. Zero means unbounded.
func WithMaxTurns(n int) BufferOption {
	return func(s *BufferStore) {
		s.maxTurns = n
	}
}

// WithTokenBudget evicts oldest turns until the rendered history encodes to
// at most maxTokens with the given codec. Zero or a nil codec disables it.
func WithTokenBudget(codec tokenizer.Codec, maxTokens int) BufferOption {
	return func(s *BufferStore) {
		s.codec = codec
		s.maxTokens = maxTokens
	}
}

func NewBufferStore(opts ...BufferOption) *BufferStore {
	s := &BufferStore{
		memoryKey:   "history",
		inputKey:    "input",
		outputKey:   DefaultOutputKey,
		humanPrefix: "Human",
		aiPrefix:    "AI",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*BufferStore)(nil)
var _ OutputKeyer = (*BufferStore)(nil)

func (s *BufferStore) OutputKey() string {
	return s.outputKey
}

func (s *BufferStore) MemoryVariables() []string {
	return []string{s.memoryKey}
}

func (s *BufferStore) LoadMemoryVariables(_ context.Context, _ TurnInputs) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{s.memoryKey: s.renderHistoryLocked()}, nil
}

func (s *BufferStore) SaveContext(_ context.Context, inputs TurnInputs, outputs TurnOutputs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deep-copy so later caller mutation can't corrupt the buffer.
	turn := SavedTurn{
		ID:      uuid.New(),
		SavedAt: time.Now(),
	}
	if inputs != nil {
		turn.Inputs = clone.Clone(inputs).(TurnInputs)
	}
	if outputs != nil {
		turn.Outputs = clone.Clone(outputs).(TurnOutputs)
	}
	s.turns = append(s.turns, turn)
	s.trimLocked()
	return nil
}

func (s *BufferStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	return nil
}

// Turns returns a deep-copied snapshot of the buffered turns.
func (s *BufferStore) Turns() []SavedTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.turns) == 0 {
		return nil
	}
	return clone.Clone(s.turns).([]SavedTurn)
}

func (s *BufferStore) trimLocked() {
	if s.maxTurns > 0 && len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
	if s.maxTokens <= 0 || s.codec == nil {
		return
	}
	for len(s.turns) > 1 {
		count, err := s.tokenCount(s.renderHistoryLocked())
		if err != nil || count <= s.maxTokens {
			return
		}
		s.turns = s.turns[1:]
	}
}

func (s *BufferStore) tokenCount(text string) (int, error) {
	ids, _, err := s.codec.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *BufferStore) renderHistoryLocked() string {
	lines := make([]string, 0, len(s.turns)*2)
	for _, turn := range s.turns {
		if v, ok := turn.Inputs[s.inputKey]; ok {
			lines = append(lines, fmt.Sprintf("%s: %s", s.humanPrefix, stringify(v)))
		}
		if v, ok := turn.Outputs[s.outputKey]; ok {
			lines = append(lines, fmt.Sprintf("%s: %s", s.aiPrefix, stringify(v)))
		}
	}
	return strings.Join(lines, "\n")
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
