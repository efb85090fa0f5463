package models

import "time"

type VarianceType string

const (
	VarianceBalanced VarianceType = "balanced"
	VarianceExcess   VarianceType = "excess"
	VarianceMissing  VarianceType = "missing"
)

// ShiftReconciliation: one physical count (stock + cash) diffed
// against the ledger. Written once, never updated.
type ShiftReconciliation struct {
	ID      uint  `gorm:"primaryKey"`
	ShiftID *uint `gorm:"index"` // nil for a standalone count

	ProductCounts      string `gorm:"type:jsonb"` // map[productID]count
	Discrepancies      string `gorm:"type:jsonb"` // map[productID]Discrepancy
	TotalDiscrepancies int    `gorm:"not null;default:0"`

	CashInTill float64 `gorm:"not null"`
	Coins      float64 `gorm:"not null;default:0"` // display-only breakdown
	Notes      float64 `gorm:"not null;default:0"` // display-only breakdown

	ExpectedTill float64      `gorm:"not null;default:0"`
	CashVariance float64      `gorm:"not null;default:0"`
	VarianceType VarianceType `gorm:"size:20;not null;default:'balanced'"`

	AdminNotes string `gorm:"size:500"`

	CreatedAt time.Time
}

// Discrepancy: per-product difference between the ledger's expected
// on-shelf amount and the physical count.
type Discrepancy struct {
	ProductName string `json:"product_name"`
	Expected    int    `json:"expected"`
	Actual      int    `json:"actual"`
	Difference  int    `json:"difference"` // expected - actual
	Type        string `json:"type"`       // "missing" | "excess"
}
