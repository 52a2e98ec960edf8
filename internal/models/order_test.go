package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrackingSteps(t *testing.T) {
	placed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	steps := NewTrackingSteps(placed)

	require.Len(t, steps, len(StatusSequence))
	for i, step := range steps {
		assert.Equal(t, StatusSequence[i], step.Status)
		assert.Equal(t, StepMessages[step.Status], step.Message)
		if i == 0 {
			assert.True(t, step.Completed)
			require.NotNil(t, step.Timestamp)
			assert.Equal(t, placed, *step.Timestamp)
		} else {
			assert.False(t, step.Completed)
			assert.Nil(t, step.Timestamp)
		}
	}
}

func TestNextStatus(t *testing.T) {
	cases := []struct {
		status string
		next   string
	}{
		{OrderStatusConfirmed, OrderStatusPreparing},
		{OrderStatusPreparing, OrderStatusReady},
		{OrderStatusReady, OrderStatusOutForDelivery},
		{OrderStatusOutForDelivery, OrderStatusDelivered},
		{OrderStatusDelivered, ""},
		{OrderStatusCancelled, ""},
	}
	for _, tc := range cases {
		order := &Order{Status: tc.status}
		assert.Equal(t, tc.next, order.NextStatus(), "from %s", tc.status)
	}
}

func TestTerminalAndCancellable(t *testing.T) {
	for _, status := range []string{OrderStatusConfirmed, OrderStatusPreparing} {
		order := &Order{Status: status}
		assert.False(t, order.IsTerminal(), status)
		assert.True(t, order.CanCancel(), status)
	}
	for _, status := range []string{OrderStatusReady, OrderStatusOutForDelivery} {
		order := &Order{Status: status}
		assert.False(t, order.IsTerminal(), status)
		assert.False(t, order.CanCancel(), status)
	}
	for _, status := range []string{OrderStatusDelivered, OrderStatusCancelled} {
		order := &Order{Status: status}
		assert.True(t, order.IsTerminal(), status)
		assert.False(t, order.CanCancel(), status)
	}
}

func TestStepLookup(t *testing.T) {
	placed := time.Now()
	order := &Order{TrackingSteps: NewTrackingSteps(placed)}

	step := order.Step(OrderStatusReady)
	require.NotNil(t, step)
	assert.Equal(t, OrderStatusReady, step.Status)

	// The returned pointer aliases the slice so callers can mark it.
	step.Completed = true
	assert.True(t, order.TrackingSteps[2].Completed)

	assert.Nil(t, order.Step("refunded"))
}

func TestCloneIsIndependent(t *testing.T) {
	placed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	order := &Order{
		ID:            1001,
		Status:        OrderStatusConfirmed,
		Items:         []CartItem{{Name: "Ramen", Price: 300, Quantity: 1}},
		TrackingSteps: NewTrackingSteps(placed),
	}

	dup := order.Clone()

	order.Status = OrderStatusPreparing
	order.Items[0].Quantity = 5
	now := time.Now()
	order.TrackingSteps[1].Completed = true
	order.TrackingSteps[1].Timestamp = &now
	*order.TrackingSteps[0].Timestamp = now

	assert.Equal(t, OrderStatusConfirmed, dup.Status)
	assert.Equal(t, 1, dup.Items[0].Quantity)
	assert.False(t, dup.TrackingSteps[1].Completed)
	assert.Nil(t, dup.TrackingSteps[1].Timestamp)
	assert.Equal(t, placed, *dup.TrackingSteps[0].Timestamp)
}
