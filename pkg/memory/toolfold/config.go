package toolfold

import (
	"github.com/mb0/glob"
	"github.com/pkg/errors"

	"github.com/go-go-golems/grillo/pkg/memory"
)

// Position says where the tool summary goes relative to the answer text.
type Position string

const (
	PositionPrepend Position = "prepend"
	PositionAppend  Position = "append"
	PositionReplace Position = "replace"
)

const (
	// DefaultJoiner separates summary and answer with a blank line.
	DefaultJoiner = "\n\n"

	// DefaultMaxObservationLength caps rendered observations.
	DefaultMaxObservationLength = 2000

	// TruncationMarker is appended to observations cut at the cap so
	// truncation stays detectable downstream.
	TruncationMarker = "… [truncated]"
)

// Config controls how tool-call summaries are rendered and composed. It is
// fixed at Wrap time.
type Config struct {
	Position             Position
	Joiner               string
	MaxObservationLength int

	// IncludeTools restricts the summary to matching tools when non-empty;
	// ExcludeTools then removes matches from that set. Entries are exact
	// names or glob patterns.
	IncludeTools []string
	ExcludeTools []string
}

func DefaultConfig() Config {
	return Config{
		Position:             PositionPrepend,
		Joiner:               DefaultJoiner,
		MaxObservationLength: DefaultMaxObservationLength,
	}
}

// Validate rejects bad configuration at construction time rather than on
// the first save.
func (c Config) Validate() error {
	switch c.Position {
	case PositionPrepend, PositionAppend, PositionReplace:
	default:
		return errors.Errorf("unknown position %q (want prepend, append or replace)", c.Position)
	}
	if c.MaxObservationLength <= 0 {
		return errors.Errorf("max observation length must be positive, got %d", c.MaxObservationLength)
	}
	return nil
}

// FilterSteps drops tool-less steps, then applies the include and exclude
// filters. Include-then-exclude is equivalent to a plain set difference, so
// the two filters compose order-independently.
func (c Config) FilterSteps(steps []memory.AgentStep) []memory.AgentStep {
	out := make([]memory.AgentStep, 0, len(steps))
	for _, step := range steps {
		if !step.HasTool() {
			continue
		}
		if len(c.IncludeTools) > 0 && !matchAny(c.IncludeTools, step.Action.Tool) {
			continue
		}
		if matchAny(c.ExcludeTools, step.Action.Tool) {
			continue
		}
		out = append(out, step)
	}
	return out
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if ok, err := glob.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

type Option func(*Config)

func WithPosition(p Position) Option {
	return func(c *Config) {
		c.Position = p
	}
}

func WithJoiner(joiner string) Option {
	return func(c *Config) {
		c.Joiner = joiner
	}
}

func WithMaxObservationLength(n int) Option {
	return func(c *Config) {
		c.MaxObservationLength = n
	}
}

func WithIncludeTools(names ...string) Option {
	return func(c *Config) {
		c.IncludeTools = names
	}
}

func WithExcludeTools(names ...string) Option {
	return func(c *Config) {
		c.ExcludeTools = names
	}
}
