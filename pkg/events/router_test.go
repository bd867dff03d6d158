package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/grillo/pkg/memory"
)

func TestEventRouterDeliversTurnSavedToHandler(t *testing.T) {
	router, err := NewEventRouter()
	require.NoError(t, err)
	defer func() {
		_ = router.Close()
	}()

	received := make(chan Event, 1)
	router.AddHandler("collect", "memory-events", func(msg *message.Message) error {
		event, err := NewEventFromJSON(msg.Payload)
		if err != nil {
			return err
		}
		received <- event
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	eg := errgroup.Group{}
	eg.Go(func() error {
		defer cancel()
		return router.Run(ctx)
	})
	eg.Go(func() error {
		defer cancel()
		<-router.Running()

		sink := NewWatermillSink(router.Publisher, "memory-events")
		store := NewPublishingStore(memory.NewBufferStore(), sink)
		return store.SaveContext(ctx,
			memory.TurnInputs{"input": "hi"},
			memory.TurnOutputs{"output": "hello"})
	})

	select {
	case event := <-received:
		saved, ok := event.(*TurnSaved)
		require.True(t, ok)
		require.Equal(t, "hello", saved.Outputs["output"])
	case <-ctx.Done():
		t.Fatal("no event received before timeout")
	}

	cancel()
	require.NoError(t, eg.Wait())
}
