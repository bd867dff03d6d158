package memory

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CompositeStore fans every write out to all child stores and merges their
// memory variables on read. The first child to export a variable wins.
type CompositeStore struct {
	children []Store
}

func NewCompositeStore(children ...Store) *CompositeStore {
	return &CompositeStore{children: children}
}

var _ Store = (*CompositeStore)(nil)

func (c *CompositeStore) MemoryVariables() []string {
	seen := map[string]bool{}
	var out []string
	for _, child := range c.children {
		for _, name := range child.MemoryVariables() {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

func (c *CompositeStore) LoadMemoryVariables(ctx context.Context, inputs TurnInputs) (map[string]any, error) {
	out := map[string]any{}
	for _, child := range c.children {
		vars, err := child.LoadMemoryVariables(ctx, inputs)
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	return out, nil
}

func (c *CompositeStore) SaveContext(ctx context.Context, inputs TurnInputs, outputs TurnOutputs) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, child := range c.children {
		child := child
		g.Go(func() error {
			return child.SaveContext(ctx, inputs, outputs)
		})
	}
	return g.Wait()
}

func (c *CompositeStore) Clear(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, child := range c.children {
		child := child
		g.Go(func() error {
			return child.Clear(ctx)
		})
	}
	return g.Wait()
}
