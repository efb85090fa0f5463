package models

import "time"

type ActivityType string

const (
	ActivityShiftStart     ActivityType = "shift_start"
	ActivityShiftEnd       ActivityType = "shift_end"
	ActivitySale           ActivityType = "sale"
	ActivityExpense        ActivityType = "expense"
	ActivityReconciliation ActivityType = "reconciliation"
)

// ShiftActivity: append-only log row tied to a shift. Never updated
// or deleted, except through the credential-gated bulk clear.
type ShiftActivity struct {
	ID      uint `gorm:"primaryKey"`
	ShiftID uint `gorm:"index;not null"`
	Shift   Shift

	ActivityType ActivityType `gorm:"size:20;index;not null"`
	Description  string       `gorm:"size:255"`
	Amount       float64      `gorm:"not null;default:0"`
	Metadata     string       `gorm:"type:jsonb"`

	CreatedAt time.Time
}
