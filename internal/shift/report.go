package shift

import (
	"fmt"
	"sort"
	"strings"

	"club-backend/internal/models"
)

// BuildEmailReport renders a reconciliation as a plain text block for
// copy/paste into email. Deterministic ordering: discrepancies are
// sorted by product name.
func BuildEmailReport(s *models.Shift, rec *models.ShiftReconciliation, discrepancies map[uint]models.Discrepancy) string {
	var b strings.Builder

	b.WriteString("=== SHIFT RECONCILIATION REPORT ===\n")
	if s != nil {
		b.WriteString(fmt.Sprintf("Shift:   %s\n", s.ShiftCode))
		b.WriteString(fmt.Sprintf("Worker:  %s\n", s.WorkerName))
		b.WriteString(fmt.Sprintf("Opened:  %s\n", s.StartTime.Format("2006-01-02 15:04")))
		if s.EndTime != nil {
			b.WriteString(fmt.Sprintf("Closed:  %s\n", s.EndTime.Format("2006-01-02 15:04")))
		}
	} else {
		b.WriteString("Standalone stock count (no shift)\n")
	}
	b.WriteString(fmt.Sprintf("Date:    %s\n", rec.CreatedAt.Format("2006-01-02 15:04")))

	b.WriteString("\n--- STOCK ---\n")
	if len(discrepancies) == 0 {
		b.WriteString("All counts match the ledger.\n")
	} else {
		sorted := make([]models.Discrepancy, 0, len(discrepancies))
		for _, d := range discrepancies {
			sorted = append(sorted, d)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductName < sorted[j].ProductName })

		for _, d := range sorted {
			diff := d.Difference
			if diff < 0 {
				diff = -diff
			}
			b.WriteString(fmt.Sprintf("%-30s expected %d, counted %d -> %s %d\n",
				d.ProductName, d.Expected, d.Actual, d.Type, diff))
		}
		b.WriteString(fmt.Sprintf("Total discrepancy: %d\n", rec.TotalDiscrepancies))
	}

	b.WriteString("\n--- CASH ---\n")
	if s != nil {
		b.WriteString(fmt.Sprintf("Starting till:  %.2f\n", s.StartingTillAmount))
		b.WriteString(fmt.Sprintf("Sales:          %.2f\n", s.TotalSales))
		b.WriteString(fmt.Sprintf("Expenses:       %.2f\n", s.TotalExpenses))
	}
	b.WriteString(fmt.Sprintf("Expected till:  %.2f\n", rec.ExpectedTill))
	b.WriteString(fmt.Sprintf("Counted:        %.2f (coins %.2f / notes %.2f)\n", rec.CashInTill, rec.Coins, rec.Notes))
	switch rec.VarianceType {
	case models.VarianceBalanced:
		b.WriteString("Result:         balanced\n")
	case models.VarianceExcess:
		b.WriteString(fmt.Sprintf("Result:         excess %.2f\n", rec.CashVariance))
	case models.VarianceMissing:
		b.WriteString(fmt.Sprintf("Result:         missing %.2f\n", -rec.CashVariance))
	}

	if rec.AdminNotes != "" {
		b.WriteString("\n--- NOTES ---\n")
		b.WriteString(rec.AdminNotes + "\n")
	}

	return b.String()
}
