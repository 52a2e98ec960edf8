package models

import "time"

// CartItem is one line item copied from the cart at order time.
type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// DeliveryInfo is the drop-off data collected at checkout.
type DeliveryInfo struct {
	Address      string `json:"address"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Instructions string `json:"instructions"`
}

// RestaurantInfo is a snapshot of the restaurant identity at order time.
type RestaurantInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Cuisine string `json:"cuisine"`
}

// TrackingStep records whether and when a given status was reached.
// Completed implies Timestamp is set; an uncompleted step has no timestamp.
type TrackingStep struct {
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp"`
	Completed bool       `json:"completed"`
}

type Order struct {
	ID                int64          `json:"id"`
	Status            string         `json:"status"`
	Items             []CartItem     `json:"items"`
	DeliveryInfo      DeliveryInfo   `json:"delivery_info"`
	Restaurant        RestaurantInfo `json:"restaurant"`
	Subtotal          float64        `json:"subtotal"`
	DeliveryFee       float64        `json:"delivery_fee"`
	Tax               float64        `json:"tax"`
	Total             float64        `json:"total"`
	OrderTime         time.Time      `json:"order_time"`
	EstimatedDelivery time.Time      `json:"estimated_delivery"`
	TrackingSteps     []TrackingStep `json:"tracking_steps"`
}

// NewTrackingSteps builds the fixed five-step sequence with the confirmed
// step already completed at the placement instant.
func NewTrackingSteps(placed time.Time) []TrackingStep {
	steps := make([]TrackingStep, 0, len(StatusSequence))
	for _, status := range StatusSequence {
		step := TrackingStep{
			Status:  status,
			Message: StepMessages[status],
		}
		if status == OrderStatusConfirmed {
			t := placed
			step.Timestamp = &t
			step.Completed = true
		}
		steps = append(steps, step)
	}
	return steps
}

// IsTerminal reports whether the order can never change status again.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// CanCancel reports whether cancellation is still permitted.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusPreparing
}

// NextStatus returns the status that would follow the highest completed step
// in the fixed sequence, or "" when the order is cancelled or fully delivered.
func (o *Order) NextStatus() string {
	if o.Status == OrderStatusCancelled {
		return ""
	}
	for i, status := range StatusSequence {
		if status != o.Status {
			continue
		}
		if i+1 < len(StatusSequence) {
			return StatusSequence[i+1]
		}
		return ""
	}
	return ""
}

// Step returns the tracking step for the given status, or nil.
func (o *Order) Step(status string) *TrackingStep {
	for i := range o.TrackingSteps {
		if o.TrackingSteps[i].Status == status {
			return &o.TrackingSteps[i]
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand to readers while the original keeps
// mutating under the store's lock.
func (o *Order) Clone() *Order {
	dup := *o
	dup.Items = append([]CartItem(nil), o.Items...)
	dup.TrackingSteps = make([]TrackingStep, len(o.TrackingSteps))
	for i, step := range o.TrackingSteps {
		if step.Timestamp != nil {
			t := *step.Timestamp
			step.Timestamp = &t
		}
		dup.TrackingSteps[i] = step
	}
	return &dup
}
