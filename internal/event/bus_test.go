package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusDeliversToEverySubscriber(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	first, unsubFirst := bus.Subscribe()
	second, unsubSecond := bus.Subscribe()
	defer unsubSecond()

	bus.Publish(New(TypeUserChanged, "u1"))

	require.Equal(t, TypeUserChanged, (<-first).Type)
	got := <-second
	require.Equal(t, "u1", got.Payload)
	require.NotEmpty(t, got.ID)

	unsubFirst()
	unsubFirst()
	_, open := <-first
	require.False(t, open)

	bus.Publish(New(TypeSessionCleared, nil))
	require.Equal(t, TypeSessionCleared, (<-second).Type)
}

func TestBusPublishDoesNotBlock(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	_, unsub := bus.Subscribe()
	defer unsub()

	for i := 0; i < subscriberBuffer*2; i++ {
		bus.Publish(New(TypeTokenRefreshed, i))
	}
}
