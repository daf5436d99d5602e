package enums

import "fmt"

// NotificationType maps to the notification_type enum on the supply platform.
type NotificationType string

const (
	NotificationTypeOrder       NotificationType = "ORDER"
	NotificationTypePriceChange NotificationType = "PRICE_CHANGE"
	NotificationTypeStockAlert  NotificationType = "STOCK_ALERT"
	NotificationTypeSystem      NotificationType = "SYSTEM"
	NotificationTypePromotion   NotificationType = "PROMOTION"
	NotificationTypeInventory   NotificationType = "INVENTORY"
	NotificationTypeShipment    NotificationType = "SHIPMENT"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeOrder,
	NotificationTypePriceChange,
	NotificationTypeStockAlert,
	NotificationTypeSystem,
	NotificationTypePromotion,
	NotificationTypeInventory,
	NotificationTypeShipment,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
