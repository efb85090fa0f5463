package shift

import (
	"testing"

	"club-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Amnesia Haze", ProductCode: "AH-01", OnShelfGrams: 40},
		{ID: 2, Name: "Critical Kush", ProductCode: "CK-02", OnShelfGrams: 25},
		{ID: 3, Name: "Gorilla Glue", ProductCode: "GG-03", OnShelfGrams: 10},
	}
}

func TestComputeStockDiscrepancies(t *testing.T) {
	products := testProducts()

	t.Run("missing and excess signs", func(t *testing.T) {
		counts := map[uint]int{1: 38, 2: 27, 3: 10}

		discrepancies, total := ComputeStockDiscrepancies(products, counts)

		require.Len(t, discrepancies, 2)

		d1 := discrepancies[1]
		assert.Equal(t, "missing", d1.Type)
		assert.Equal(t, 40, d1.Expected)
		assert.Equal(t, 38, d1.Actual)
		assert.Equal(t, 2, d1.Difference)

		d2 := discrepancies[2]
		assert.Equal(t, "excess", d2.Type)
		assert.Equal(t, -2, d2.Difference)

		_, ok := discrepancies[3]
		assert.False(t, ok, "a matching count must not produce an entry")

		assert.Equal(t, 4, total, "total is the sum of absolute differences")
	})

	t.Run("all matching", func(t *testing.T) {
		counts := map[uint]int{1: 40, 2: 25, 3: 10}

		discrepancies, total := ComputeStockDiscrepancies(products, counts)

		assert.Empty(t, discrepancies)
		assert.Zero(t, total)
	})

	t.Run("uncounted product is treated as zero", func(t *testing.T) {
		counts := map[uint]int{1: 40, 2: 25}

		discrepancies, total := ComputeStockDiscrepancies(products, counts)

		d3 := discrepancies[3]
		assert.Equal(t, "missing", d3.Type)
		assert.Equal(t, 10, d3.Difference)
		assert.Equal(t, 10, total)
	})
}

func TestValidateCounts(t *testing.T) {
	products := testProducts()

	t.Run("complete submission passes", func(t *testing.T) {
		err := ValidateCounts(products, map[uint]int{1: 1, 2: 2, 3: 3}, false)
		assert.NoError(t, err)
	})

	t.Run("negative count rejected", func(t *testing.T) {
		err := ValidateCounts(products, map[uint]int{1: -1, 2: 2, 3: 3}, false)
		assert.ErrorContains(t, err, "negative")
	})

	t.Run("unknown product rejected", func(t *testing.T) {
		err := ValidateCounts(products, map[uint]int{1: 1, 2: 2, 3: 3, 99: 4}, false)
		assert.ErrorContains(t, err, "unknown product")
	})

	t.Run("missing counts listed by product code", func(t *testing.T) {
		err := ValidateCounts(products, map[uint]int{1: 1}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CK-02")
		assert.Contains(t, err.Error(), "GG-03")
	})

	t.Run("treat-as-zero skips the completeness check", func(t *testing.T) {
		err := ValidateCounts(products, map[uint]int{1: 1}, true)
		assert.NoError(t, err)
	})
}

func TestComputeCashVariance(t *testing.T) {
	t.Run("balanced", func(t *testing.T) {
		// worked example: 100 starting + 120 sales - 20 expenses = 200
		res := ComputeCashVariance(100, 120, 20, 200)
		assert.Equal(t, 200.0, res.ExpectedTill)
		assert.Equal(t, 0.0, res.Variance)
		assert.Equal(t, models.VarianceBalanced, res.Type)
	})

	t.Run("excess", func(t *testing.T) {
		res := ComputeCashVariance(100, 120, 20, 215.5)
		assert.Equal(t, models.VarianceExcess, res.Type)
		assert.InDelta(t, 15.5, res.Variance, 1e-9)
	})

	t.Run("missing", func(t *testing.T) {
		res := ComputeCashVariance(100, 120, 20, 180)
		assert.Equal(t, models.VarianceMissing, res.Type)
		assert.InDelta(t, -20.0, res.Variance, 1e-9)
	})

	t.Run("sub-cent difference counts as balanced", func(t *testing.T) {
		res := ComputeCashVariance(100, 120, 20, 200.005)
		assert.Equal(t, models.VarianceBalanced, res.Type)
	})
}
