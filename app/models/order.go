package models

import "gorm.io/gorm"

// Order lifecycle. Paid is the initial status; Delivered and Undelivered
// are terminal.
const (
	StatusPaid        = "Paid"
	StatusShipped     = "Shipped"
	StatusDelivered   = "Delivered"
	StatusUndelivered = "Undelivered"
)

// transitions is the closed order state machine:
// Paid → Shipped → {Delivered, Undelivered}.
var transitions = map[string][]string{
	StatusPaid:    {StatusShipped},
	StatusShipped: {StatusDelivered, StatusUndelivered},
}

// ValidStatus reports whether s is one of the four known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPaid, StatusShipped, StatusDelivered, StatusUndelivered:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another. Terminal statuses have no outgoing transitions.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a customer purchase. Total is in minor currency units and is the
// client-claimed total recorded at creation time.
type Order struct {
	gorm.Model
	UserID uint        `gorm:"not null;index" json:"user_id"`
	Total  int64       `gorm:"not null" json:"total"`
	Status string      `gorm:"size:50;not null;default:Paid" json:"status"`
	Items  []OrderItem `json:"items"`
}

// OrderItem is one purchased line. Price is captured at order time and is
// never rewritten when the product or variant price changes later.
// VariantID is nullable: items bought without a variant, and items whose
// variant was later deleted, carry nil.
type OrderItem struct {
	gorm.Model
	OrderID   uint  `gorm:"not null;index" json:"order_id"`
	ProductID uint  `gorm:"not null;index" json:"product_id"`
	VariantID *uint `gorm:"index" json:"variant_id"`
	Quantity  int   `gorm:"not null" json:"quantity"`
	Price     int64 `gorm:"not null" json:"price"`
}
