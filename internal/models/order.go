package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order: a confirmed or pending donation-for-goods transaction.
// Items and Quantities are snapshots taken at checkout, stored as
// JSON; confirming later decrements shelf stock against the snapshot.
type Order struct {
	ID         uint `gorm:"primaryKey"`
	UserID     uint `gorm:"index;not null"`
	User       User
	PickupCode string `gorm:"size:10;not null"` // 4 random digits, collisions tolerated

	Items      string `gorm:"type:jsonb"` // []OrderItem
	Quantities string `gorm:"type:jsonb"` // []OrderQuantity

	TotalPrice float64     `gorm:"not null"`
	Status     OrderStatus `gorm:"size:20;index;not null;default:'pending'"`

	ArchivedFromAdmin bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem: catalogue snapshot of one ordered product.
type OrderItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Category  ProductCategory `json:"category"`
}

// OrderQuantity: how much of each product was ordered.
type OrderQuantity struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}
