package models

import "time"

// BasketItem: one row per (user, product); adding the same product
// again bumps the quantity instead of creating a second row.
type BasketItem struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index;not null"`
	User      User
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  int `gorm:"not null"` // grams or units, per product type
	CreatedAt time.Time
	UpdatedAt time.Time
}
