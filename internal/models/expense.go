package models

import "time"

type Expense struct {
	ID          uint    `gorm:"primaryKey"`
	Description string  `gorm:"size:255;not null"`
	Amount      float64 `gorm:"not null"`
	WorkerName  string  `gorm:"size:100;not null"`
	ShiftID     *uint   `gorm:"index"` // set when a shift was active at the time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}
