package memory

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	err error
}

func (f *failingStore) MemoryVariables() []string { return nil }

func (f *failingStore) LoadMemoryVariables(_ context.Context, _ TurnInputs) (map[string]any, error) {
	return nil, f.err
}

func (f *failingStore) SaveContext(_ context.Context, _ TurnInputs, _ TurnOutputs) error {
	return f.err
}

func (f *failingStore) Clear(_ context.Context) error { return f.err }

var _ Store = (*failingStore)(nil)

func TestCompositeStoreFansOutWrites(t *testing.T) {
	a := NewBufferStore()
	b := NewBufferStore()
	c := NewCompositeStore(a, b)

	err := c.SaveContext(context.Background(), TurnInputs{"input": "hi"}, TurnOutputs{"output": "hello"})
	require.NoError(t, err)
	require.Len(t, a.Turns(), 1)
	require.Len(t, b.Turns(), 1)

	require.NoError(t, c.Clear(context.Background()))
	require.Empty(t, a.Turns())
	require.Empty(t, b.Turns())
}

func TestCompositeStoreMergesVariables(t *testing.T) {
	a := NewBufferStore(WithMemoryKey("history"))
	b := NewBufferStore(WithMemoryKey("long_term"))
	c := NewCompositeStore(a, b)

	require.Equal(t, []string{"history", "long_term"}, c.MemoryVariables())

	saveSimpleTurn(t, a, "hi", "hello")
	vars, err := c.LoadMemoryVariables(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "Human: hi\nAI: hello", vars["history"])
	require.Equal(t, "", vars["long_term"])
}

func TestCompositeStoreFirstChildWinsOnSharedVariable(t *testing.T) {
	a := NewBufferStore()
	saveSimpleTurn(t, a, "from a", "a")
	b := NewBufferStore()
	saveSimpleTurn(t, b, "from b", "b")

	vars, err := NewCompositeStore(a, b).LoadMemoryVariables(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "Human: from a\nAI: a", vars["history"])
}

func TestCompositeStorePropagatesChildErrors(t *testing.T) {
	sentinel := errors.New("backend down")
	c := NewCompositeStore(NewBufferStore(), &failingStore{err: sentinel})

	err := c.SaveContext(context.Background(), TurnInputs{}, TurnOutputs{})
	require.ErrorIs(t, err, sentinel)

	_, err = c.LoadMemoryVariables(context.Background(), nil)
	require.ErrorIs(t, err, sentinel)
}
