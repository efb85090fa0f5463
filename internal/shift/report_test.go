package shift

import (
	"testing"
	"time"

	"club-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildEmailReport(t *testing.T) {
	start := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	s := &models.Shift{
		ShiftCode:          "SHIFT-20260829-001",
		WorkerName:         "Marta",
		StartTime:          start,
		EndTime:            &end,
		StartingTillAmount: 100,
		TotalSales:         120,
		TotalExpenses:      20,
	}
	rec := &models.ShiftReconciliation{
		TotalDiscrepancies: 2,
		CashInTill:         200,
		ExpectedTill:       200,
		CashVariance:       0,
		VarianceType:       models.VarianceBalanced,
		AdminNotes:         "till drawer sticky again",
		CreatedAt:          end,
	}
	discrepancies := map[uint]models.Discrepancy{
		1: {ProductName: "Amnesia Haze", Expected: 40, Actual: 38, Difference: 2, Type: "missing"},
	}

	report := BuildEmailReport(s, rec, discrepancies)

	assert.Contains(t, report, "SHIFT-20260829-001")
	assert.Contains(t, report, "Marta")
	assert.Contains(t, report, "expected 40, counted 38 -> missing 2")
	assert.Contains(t, report, "Total discrepancy: 2")
	assert.Contains(t, report, "Expected till:  200.00")
	assert.Contains(t, report, "Result:         balanced")
	assert.Contains(t, report, "till drawer sticky again")
}

func TestBuildEmailReportStandalone(t *testing.T) {
	rec := &models.ShiftReconciliation{
		CashInTill:   50,
		ExpectedTill: 50,
		VarianceType: models.VarianceBalanced,
		CreatedAt:    time.Now(),
	}

	report := BuildEmailReport(nil, rec, nil)

	assert.Contains(t, report, "Standalone stock count")
	assert.Contains(t, report, "All counts match the ledger.")
}

func TestBuildEmailReportMissingCash(t *testing.T) {
	s := &models.Shift{
		ShiftCode:          "SHIFT-20260829-002",
		WorkerName:         "Jordi",
		StartTime:          time.Now(),
		StartingTillAmount: 100,
	}
	rec := &models.ShiftReconciliation{
		CashInTill:   80,
		ExpectedTill: 100,
		CashVariance: -20,
		VarianceType: models.VarianceMissing,
		CreatedAt:    time.Now(),
	}

	report := BuildEmailReport(s, rec, map[uint]models.Discrepancy{})

	assert.Contains(t, report, "Result:         missing 20.00")
}
