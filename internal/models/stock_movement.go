package models

import "time"

type StockLocation string

const (
	LocationShelf    StockLocation = "shelf"
	LocationInternal StockLocation = "internal"
	LocationExternal StockLocation = "external"
)

// StockMovement: record of a transfer between two locations of the
// same product. The transfer itself mutates the Product row; this
// row is the trail.
type StockMovement struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product

	FromLocation StockLocation `gorm:"size:20;not null"`
	ToLocation   StockLocation `gorm:"size:20;not null"`
	Quantity     int           `gorm:"not null"`

	WorkerName string `gorm:"size:100"`
	Note       string `gorm:"size:255"`

	CreatedAt time.Time
}
