package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	callCount := 0
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	payload := BookingEventPayload{BookingID: 7, ItemID: 3, BookerID: 2, Status: "WAITING", Start: start, End: start.Add(time.Hour)}
	require.NoError(t, bus.PublishJSON(EventBookingCreated, payload))

	assert.Equal(t, 1, callCount)
	require.NotNil(t, received)
	assert.Equal(t, EventBookingCreated, received.Type)
	assert.False(t, received.CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, json.Unmarshal(received.Payload, &decoded))
	assert.Equal(t, int64(7), decoded.BookingID)
	assert.Equal(t, "WAITING", decoded.Status)
	assert.True(t, decoded.Start.Equal(start))
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe(EventBookingApproved, func(_ *Event) error { count1++; return errors.New("first failed") })
	bus.Subscribe(EventBookingApproved, func(_ *Event) error { count2++; return nil })

	err := bus.Publish(&Event{Type: EventBookingApproved})
	assert.EqualError(t, err, "first failed")
	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	assert.NoError(t, bus.Publish(&Event{Type: EventBookingRejected}))
}

func TestEventBusNil(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, nil))
}

func TestPublishJSON_MarshalError(t *testing.T) {
	bus := NewEventBus()
	err := bus.PublishJSON(EventBookingCreated, make(chan int))
	assert.Error(t, err)
}
