package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks kitchen, service and payment progress of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValidOrderStatus reports whether status is a known value. Any known value
// may be assigned from any other; transitions are not constrained.
func IsValidOrderStatus(status string) bool {
	switch OrderStatus(status) {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusReady,
		OrderStatusDelivered, OrderStatusPaid, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// OrderItemStatus has the order statuses minus "paid".
type OrderItemStatus string

const (
	OrderItemStatusPending    OrderItemStatus = "pending"
	OrderItemStatusInProgress OrderItemStatus = "in_progress"
	OrderItemStatusReady      OrderItemStatus = "ready"
	OrderItemStatusDelivered  OrderItemStatus = "delivered"
	OrderItemStatusCancelled  OrderItemStatus = "cancelled"
)

// IsValidOrderItemStatus checks an item status value.
func IsValidOrderItemStatus(status string) bool {
	switch OrderItemStatus(status) {
	case OrderItemStatusPending, OrderItemStatusInProgress, OrderItemStatusReady,
		OrderItemStatusDelivered, OrderItemStatusCancelled:
		return true
	default:
		return false
	}
}

// Order is a customer check tied to one table.
type Order struct {
	ID         int64           `json:"id"`
	Status     OrderStatus     `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Notes      *string         `json:"notes"`
	TableID    int64           `json:"tableId"`
	WaiterID   *int64          `json:"waiterId"` // NULL once the waiter account is deleted
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Table      *Table          `json:"Table,omitempty"`
	Waiter     *User           `json:"waiter,omitempty"`
	OrderItems []OrderItem     `json:"OrderItems"`
}

// OrderItem is one line of an order. Price is the product price captured
// when the order was placed.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Notes     *string         `json:"notes"`
	Status    OrderItemStatus `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Product   *Product        `json:"Product,omitempty"`
}

// Subtotal is Price × Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	TableID  *int64
	WaiterID *int64
	Status   *string
}
