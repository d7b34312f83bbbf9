package model

import (
	"time"

	baseModel "digistore/pkg/model"
)

// Order is a checkout record. Item rows snapshot product name/price/duration
// at creation time; later catalog edits never touch them.
type Order struct {
	baseModel.BaseModel
	OrderNumber   string      `gorm:"type:varchar(32);uniqueIndex;not null" json:"orderNumber"`
	CustomerName  string      `gorm:"type:varchar(120);not null" json:"customerName"`
	CustomerEmail string      `gorm:"type:varchar(180);not null" json:"customerEmail"`
	CustomerPhone string      `gorm:"type:varchar(32)" json:"customerPhone"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	Subtotal float64 `gorm:"not null" json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `gorm:"not null" json:"total"`
	Currency string  `gorm:"type:varchar(8);not null" json:"currency"`

	CouponID       *string `gorm:"type:uuid" json:"couponId,omitempty"`
	CouponCode     string  `json:"couponCode,omitempty"`
	CouponDiscount float64 `json:"couponDiscount"`

	Status        string     `gorm:"type:varchar(16);default:'pending'" json:"status"`
	PaymentStatus string     `gorm:"type:varchar(16);default:'pending'" json:"paymentStatus"`
	PaymentID     string     `gorm:"index" json:"paymentId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// OrderItem carries the purchase-time snapshot. ProductID is a weak
// reference; the product may be edited or deleted afterwards.
type OrderItem struct {
	baseModel.BaseModel
	OrderID       string  `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID     string  `gorm:"type:uuid;index" json:"productId"`
	ProductName   string  `gorm:"not null" json:"productName"`
	DurationLabel string  `json:"durationLabel"`
	UnitPrice     float64 `gorm:"not null" json:"unitPrice"`
	Quantity      int     `gorm:"not null" json:"quantity"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// transitions lists the permitted status moves. Completed is terminal;
// cancelling a completed order would need a refund flow this system does
// not have.
var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether from -> to is a legal status move.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
