package shift

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"club-backend/internal/models"
)

// CashTolerance: till differences under one cent count as balanced.
const CashTolerance = 0.01

type CashResult struct {
	ExpectedTill float64
	Variance     float64
	Type         models.VarianceType
}

// ComputeCashVariance diffs the counted till against what the shift
// should hold: starting amount plus sales minus expenses.
func ComputeCashVariance(starting, sales, expenses, actual float64) CashResult {
	expected := starting + sales - expenses
	variance := actual - expected

	result := CashResult{
		ExpectedTill: expected,
		Variance:     variance,
	}
	switch {
	case math.Abs(variance) < CashTolerance:
		result.Type = models.VarianceBalanced
	case variance > 0:
		result.Type = models.VarianceExcess
	default:
		result.Type = models.VarianceMissing
	}
	return result
}

// ValidateCounts rejects malformed submissions before they reach the
// engine: negative counts, counts for unknown products, and — unless
// the caller opts into treat-as-zero — products left uncounted.
// The engine iterates the full catalogue, so an uncounted product
// would otherwise silently be flagged as fully missing.
func ValidateCounts(products []models.Product, counts map[uint]int, uncountedAsZero bool) error {
	known := make(map[uint]string, len(products))
	for _, p := range products {
		known[p.ID] = p.ProductCode
	}

	for id, count := range counts {
		if count < 0 {
			return fmt.Errorf("count for product %d is negative", id)
		}
		if _, ok := known[id]; !ok {
			return fmt.Errorf("unknown product id %d in counts", id)
		}
	}

	if uncountedAsZero {
		return nil
	}

	var missing []string
	for _, p := range products {
		if _, ok := counts[p.ID]; !ok {
			missing = append(missing, p.ProductCode)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing counts for products: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ComputeStockDiscrepancies diffs a physical count against the
// ledger's expected on-shelf amounts. The full product list is
// iterated; a product absent from counts is treated as counted zero
// (callers guard against that with ValidateCounts). Returns the
// per-product discrepancies and the sum of absolute differences.
func ComputeStockDiscrepancies(products []models.Product, counts map[uint]int) (map[uint]models.Discrepancy, int) {
	discrepancies := make(map[uint]models.Discrepancy)
	total := 0

	for _, p := range products {
		counted := counts[p.ID]
		diff := p.OnShelfGrams - counted
		if diff == 0 {
			continue
		}

		kind := "missing" // fewer on the shelf than the ledger expects
		if diff < 0 {
			kind = "excess"
		}

		discrepancies[p.ID] = models.Discrepancy{
			ProductName: p.Name,
			Expected:    p.OnShelfGrams,
			Actual:      counted,
			Difference:  diff,
			Type:        kind,
		}
		if diff < 0 {
			total -= diff
		} else {
			total += diff
		}
	}

	return discrepancies, total
}
