package models

import "time"

// Rider is a delivery rider. Email is unique across riders. Riders are
// hard-deleted so a departed rider's email can be registered again.
type Rider struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderRider assigns a rider to an order. The unique index on OrderID
// enforces at most one rider per order; reassignment replaces the row.
// No soft delete: a replaced assignment must release the unique index
// immediately.
type OrderRider struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	RiderID   uint      `gorm:"not null;index" json:"rider_id"`
	CreatedAt time.Time `json:"created_at"`
}
