package models

import "time"

// Shift: one worker's open/closed work session. EndTime is NULL while
// the shift is active; a partial unique index added in database.Init
// keeps at most one active shift at a time.
type Shift struct {
	ID        uint   `gorm:"primaryKey"`
	ShiftCode string `gorm:"size:30;uniqueIndex;not null"` // SHIFT-YYYYMMDD-NNN

	WorkerName string    `gorm:"size:100;not null"`
	StartTime  time.Time `gorm:"index;not null"`
	EndTime    *time.Time

	StartingTillAmount float64 `gorm:"not null"`

	// Frozen on close.
	TotalSales         float64 `gorm:"not null;default:0"`
	TotalExpenses      float64 `gorm:"not null;default:0"`
	NetAmount          float64 `gorm:"not null;default:0"`
	StockDiscrepancies int     `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Shift) Active() bool {
	return s.EndTime == nil
}
