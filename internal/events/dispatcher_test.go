package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var got []string
	d.Subscribe(EventProductDeleted, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.ResourceID)
		return errors.New("boom")
	})
	d.Subscribe(EventProductDeleted, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.ResourceID)
		return nil
	})
	d.Subscribe(EventProductCreated, func(_ context.Context, e Event) error {
		got = append(got, "created:"+e.ResourceID)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventProductDeleted, ResourceID: "p1"}))
	assert.Equal(t, []string{"first:p1", "second:p1"}, got)
}

func TestInMemoryDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventCategoryDeleted}))
}
