package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string

	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		got = append(got, "a:"+e.TicketID)
		return nil
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		got = append(got, "b:"+e.TicketID)
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(ctx context.Context, e Event) error {
		got = append(got, "assigned")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t-1"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a:t-1", "b:t-1"}, got)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	var secondCalled bool

	d.Subscribe(EventTicketCommented, func(ctx context.Context, e Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCommented, func(ctx context.Context, e Event) error {
		secondCalled = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCommented, TicketID: "t-1"})
	assert.NoError(t, err)
	assert.True(t, secondCalled)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()
	err := d.Publish(context.Background(), Event{Type: EventTicketOverdue, TicketID: "t-1"})
	assert.NoError(t, err)
}
