package enums

import "fmt"

// OrderStatus mirrors the order lifecycle owned by the supply platform.
// The portal only ever reads these; transitions happen upstream.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid checks whether the given status matches the canonical enum.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are expected upstream.
func (o OrderStatus) IsTerminal() bool {
	switch o {
	case OrderStatusCompleted, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ParseOrderStatus converts raw strings into OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
