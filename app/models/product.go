package models

import "gorm.io/gorm"

// Product is a catalogue entry. Prices are integer minor-currency units
// (cents), never floats, so monetary totals stay exact.
type Product struct {
	gorm.Model
	Name        string           `gorm:"size:255;not null;index" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Price       int64            `gorm:"not null;default:0" json:"price"`
	Image       string           `gorm:"size:1024" json:"image"`
	Variants    []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants"`
}

// ProductVariant is a purchasable configuration (colour/size) of a product
// with its own price and stock count. Stock is informational; order
// creation does not decrement it.
type ProductVariant struct {
	gorm.Model
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Color     string `gorm:"size:100" json:"color"`
	Size      string `gorm:"size:100" json:"size"`
	Price     int64  `gorm:"not null;default:0" json:"price"`
	Stock     int    `gorm:"not null;default:0" json:"stock"`
}
