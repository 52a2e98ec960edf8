package models

const (
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// StatusSequence is the fixed fulfilment progression. Cancellation sits
// outside the sequence and is appended to an order's steps on demand.
var StatusSequence = []string{
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// StepMessages maps each status to the customer-facing tracking message.
var StepMessages = map[string]string{
	OrderStatusConfirmed:      "Order confirmed",
	OrderStatusPreparing:      "Restaurant is preparing your order",
	OrderStatusReady:          "Order ready for pickup",
	OrderStatusOutForDelivery: "Out for delivery",
	OrderStatusDelivered:      "Order delivered",
	OrderStatusCancelled:      "Order cancelled",
}
