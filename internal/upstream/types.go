package upstream

import (
	"time"

	"github.com/santelink/provider-portal/pkg/enums"
	"github.com/santelink/provider-portal/pkg/pagination"
	"github.com/santelink/provider-portal/pkg/types"
)

// TokenPair holds the bearer credentials issued by the supply platform.
type TokenPair struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token"`
}

// Profile is the authenticated provider as the platform sees it.
type Profile struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// Medicine is a catalog entry. Quantity is the stock snapshot the cart
// treats as the orderable ceiling; the platform stays authoritative.
type Medicine struct {
	ID          string      `json:"id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Price       types.Money `json:"price"`
	Quantity    int         `json:"quantity" validate:"min=0"`
	Category    string      `json:"category"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// MedicinePage wraps one page of catalog results.
type MedicinePage struct {
	Data       []Medicine      `json:"data" validate:"dive"`
	Pagination pagination.Meta `json:"pagination"`
}

// OrderItem is a line of a placed order with the price captured at creation.
type OrderItem struct {
	MedicineID   string      `json:"medicineId" validate:"required"`
	MedicineName string      `json:"medicineName"`
	Quantity     int         `json:"quantity" validate:"min=1"`
	Price        types.Money `json:"price"`
}

// Order is read-only for the portal; status transitions happen upstream.
type Order struct {
	ID         string            `json:"id" validate:"required"`
	UserID     string            `json:"userId"`
	Items      []OrderItem       `json:"items" validate:"dive"`
	Status     enums.OrderStatus `json:"status" validate:"required"`
	TotalPrice types.Money       `json:"totalPrice"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// OrderPage wraps one page of order history.
type OrderPage struct {
	Data       []Order         `json:"data" validate:"dive"`
	Pagination pagination.Meta `json:"pagination"`
}

// CreateOrderItem is the {medicineId, quantity} pair the platform expects.
type CreateOrderItem struct {
	MedicineID string `json:"medicineId"`
	Quantity   int    `json:"quantity"`
}

// CreateOrderInput is the order-creation request body.
type CreateOrderInput struct {
	UserID string            `json:"userId"`
	Items  []CreateOrderItem `json:"items"`
}

// Overview carries the dashboard headline counters and period-over-period deltas.
type Overview struct {
	TotalOrders     int         `json:"totalOrders"`
	PendingOrders   int         `json:"pendingOrders"`
	CompletedOrders int         `json:"completedOrders"`
	TotalSpent      types.Money `json:"totalSpent"`
	OrdersDelta     float64     `json:"ordersDelta"`
	SpendingDelta   float64     `json:"spendingDelta"`
}

// MonthlySpendingPoint is one month of the spending series.
type MonthlySpendingPoint struct {
	Month  string      `json:"month"`
	Amount types.Money `json:"amount"`
}

// ProviderStats is the load-bearing dashboard payload.
type ProviderStats struct {
	Overview        Overview               `json:"overview"`
	RecentOrders    []Order                `json:"recentOrders" validate:"dive"`
	MonthlySpending []MonthlySpendingPoint `json:"monthlySpending"`
}

// OrderTrendPoint is one bucket of the order trend series.
type OrderTrendPoint struct {
	Period      string      `json:"period" validate:"required"`
	OrderCount  int         `json:"orderCount"`
	TotalAmount types.Money `json:"totalAmount"`
}

// TopOrderedMedicine summarizes how often one medicine was ordered.
type TopOrderedMedicine struct {
	MedicineID    string      `json:"medicineId" validate:"required"`
	Name          string      `json:"name"`
	OrderCount    int         `json:"orderCount"`
	TotalQuantity int         `json:"totalQuantity"`
	TotalSpent    types.Money `json:"totalSpent"`
}

// SpendingByCategory is one slice of the spending breakdown.
type SpendingByCategory struct {
	Category   string      `json:"category" validate:"required"`
	TotalSpent types.Money `json:"totalSpent"`
	Share      float64     `json:"share"`
}

// OrderFrequencyMetrics summarizes ordering cadence.
type OrderFrequencyMetrics struct {
	OrdersPerMonth      float64 `json:"ordersPerMonth"`
	AverageIntervalDays float64 `json:"averageIntervalDays"`
	BusiestWeekday      string  `json:"busiestWeekday"`
}

// Notification is a platform event addressed to the provider.
type Notification struct {
	ID        string                 `json:"id" validate:"required"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      enums.NotificationType `json:"type" validate:"required"`
	Read      bool                   `json:"read"`
	UserID    string                 `json:"userId"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// NotificationPage wraps one page of notifications.
type NotificationPage struct {
	Data       []Notification  `json:"data" validate:"dive"`
	Pagination pagination.Meta `json:"pagination"`
}

// NotificationStats carries the unread/total counters.
type NotificationStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}

// OrderTemplate is a saved, reorderable set of line items.
type OrderTemplate struct {
	ID        string            `json:"id" validate:"required"`
	Name      string            `json:"name" validate:"required"`
	Items     []CreateOrderItem `json:"items"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// OrderTemplateInput is the create/update payload for templates.
type OrderTemplateInput struct {
	Name  string            `json:"name"`
	Items []CreateOrderItem `json:"items"`
}
