package models

import (
	"time"
)

// OrderStatus is one of the five workflow states an order can be in.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the five defined statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TimestampFormat is the layout used for timestamps in order exports.
const TimestampFormat = "2006-01-02 15:04"

// Order represents a customer order in the system
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerID  uint        `gorm:"not null;index" json:"customer_id"`
	Customer    User        `gorm:"foreignKey:CustomerID" json:"customer"`
	ServiceID   uint        `gorm:"not null;index" json:"service_id"`
	Service     Service     `gorm:"foreignKey:ServiceID" json:"service"`
	Status      OrderStatus `gorm:"not null;default:'pending'" json:"status"`
	Quantity    int         `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	// TotalPrice is fixed at creation time; later catalog price edits never
	// touch it.
	TotalPrice  float64     `gorm:"not null" json:"total_price"`
	Notes       string      `json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
	DueDate     time.Time   `json:"due_date"`
	CompletedAt *time.Time  `json:"completed_at"`
	Files       []OrderFile `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"files"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderSummary is the flattened order representation for programmatic consumers.
type OrderSummary struct {
	ID          uint        `json:"id"`
	OrderNumber string      `json:"order_number"`
	Customer    string      `json:"customer"`
	Service     string      `json:"service"`
	Status      OrderStatus `json:"status"`
	Quantity    int         `json:"quantity"`
	TotalPrice  float64     `json:"total_price"`
	CreatedAt   string      `json:"created_at"`
	DueDate     string      `json:"due_date"`
}

// Summary flattens the order for export. Customer and Service must be preloaded.
func (o *Order) Summary() OrderSummary {
	return OrderSummary{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Customer:    o.Customer.Username,
		Service:     o.Service.Name,
		Status:      o.Status,
		Quantity:    o.Quantity,
		TotalPrice:  o.TotalPrice,
		CreatedAt:   o.CreatedAt.Format(TimestampFormat),
		DueDate:     o.DueDate.Format(TimestampFormat),
	}
}
