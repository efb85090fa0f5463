package shift

import (
	"encoding/json"
	"fmt"
	"time"

	"club-backend/internal/activity"
	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StartShiftRequest struct {
	WorkerName         string  `json:"worker_name"`
	StartingTillAmount float64 `json:"starting_till_amount"`
}

type ShiftResponse struct {
	ID                 uint    `json:"id"`
	ShiftCode          string  `json:"shift_code"`
	WorkerName         string  `json:"worker_name"`
	StartTime          string  `json:"start_time"`
	EndTime            *string `json:"end_time"`
	StartingTillAmount float64 `json:"starting_till_amount"`
	TotalSales         float64 `json:"total_sales"`
	TotalExpenses      float64 `json:"total_expenses"`
	NetAmount          float64 `json:"net_amount"`
	StockDiscrepancies int     `json:"stock_discrepancies"`
	Active             bool    `json:"active"`
}

type ReconcileRequest struct {
	ProductCounts        map[uint]int `json:"product_counts"`
	CashInTill           float64      `json:"cash_in_till"`
	Coins                float64      `json:"coins"`
	Notes                float64      `json:"notes"`
	AdminNotes           string       `json:"admin_notes"`
	TreatUncountedAsZero bool         `json:"treat_uncounted_as_zero"`
}

type ReconciliationResponse struct {
	ID                 uint                        `json:"id"`
	ShiftID            *uint                       `json:"shift_id"`
	Discrepancies      map[uint]models.Discrepancy `json:"discrepancies"`
	TotalDiscrepancies int                         `json:"total_discrepancies"`
	CashInTill         float64                     `json:"cash_in_till"`
	Coins              float64                     `json:"coins"`
	Notes              float64                     `json:"notes"`
	ExpectedTill       float64                     `json:"expected_till"`
	CashVariance       float64                     `json:"cash_variance"`
	VarianceType       models.VarianceType         `json:"variance_type"`
	CreatedAt          string                      `json:"created_at"`
	EmailReport        string                      `json:"email_report"`
}

func toShiftResponse(s *models.Shift) ShiftResponse {
	resp := ShiftResponse{
		ID:                 s.ID,
		ShiftCode:          s.ShiftCode,
		WorkerName:         s.WorkerName,
		StartTime:          s.StartTime.Format("2006-01-02 15:04:05"),
		StartingTillAmount: s.StartingTillAmount,
		TotalSales:         s.TotalSales,
		TotalExpenses:      s.TotalExpenses,
		NetAmount:          s.NetAmount,
		StockDiscrepancies: s.StockDiscrepancies,
		Active:             s.Active(),
	}
	if s.EndTime != nil {
		t := s.EndTime.Format("2006-01-02 15:04:05")
		resp.EndTime = &t
	}
	return resp
}

// shiftTotals sums the completed-order sales and the expenses booked
// since the shift opened.
func shiftTotals(db *gorm.DB, s *models.Shift) (sales float64, expenses float64, err error) {
	var salesRow struct{ Total float64 }
	if err = db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0) as total").
		Where("status = ? AND created_at >= ?", models.OrderCompleted, s.StartTime).
		Scan(&salesRow).Error; err != nil {
		return 0, 0, err
	}

	var expRow struct{ Total float64 }
	if err = db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("created_at >= ?", s.StartTime).
		Scan(&expRow).Error; err != nil {
		return 0, 0, err
	}

	return salesRow.Total, expRow.Total, nil
}

// nextShiftCode builds SHIFT-YYYYMMDD-NNN, NNN counting up per day.
func nextShiftCode(db *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")
	var count int64
	if err := db.Model(&models.Shift{}).
		Where("shift_code LIKE ?", "SHIFT-"+day+"-%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("SHIFT-%s-%03d", day, count+1), nil
}

// POST /api/shifts/start
func StartShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StartShiftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.WorkerName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "worker_name is required")
		}
		if body.StartingTillAmount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "starting_till_amount cannot be negative")
		}

		var created models.Shift
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			// check-then-act inside the transaction; the partial unique
			// index catches whatever races past the check
			var active int64
			if err := tx.Model(&models.Shift{}).Where("end_time IS NULL").Count(&active).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check for an active shift")
			}
			if active > 0 {
				return fiber.NewError(fiber.StatusBadRequest, "A shift is already active")
			}

			now := time.Now()
			code, err := nextShiftCode(tx, now)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not generate shift code")
			}

			created = models.Shift{
				ShiftCode:          code,
				WorkerName:         body.WorkerName,
				StartTime:          now,
				StartingTillAmount: body.StartingTillAmount,
			}
			if err := tx.Create(&created).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "A shift is already active")
			}

			return activity.Append(tx, activity.Entry{
				ShiftID:     created.ID,
				Type:        models.ActivityShiftStart,
				Description: fmt.Sprintf("Shift %s started by %s", created.ShiftCode, created.WorkerName),
				Amount:      created.StartingTillAmount,
			})
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not start shift")
		}

		return c.JSON(toShiftResponse(&created))
	}
}

// GET /api/shifts/active
// Returns the active shift with running totals, or null.
func ActiveShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Shift
		if err := database.DB.Where("end_time IS NULL").First(&s).Error; err != nil {
			return c.JSON(nil)
		}

		sales, expenses, err := shiftTotals(database.DB, &s)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute shift totals")
		}
		s.TotalSales = sales
		s.TotalExpenses = expenses
		s.NetAmount = sales - expenses

		return c.JSON(toShiftResponse(&s))
	}
}

// GET /api/shifts
func ListShiftsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shifts []models.Shift
		if err := database.DB.Order("start_time desc").Find(&shifts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list shifts")
		}

		resp := make([]ShiftResponse, 0, len(shifts))
		for i := range shifts {
			resp = append(resp, toShiftResponse(&shifts[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/shifts/:id
func GetShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var s models.Shift
		if err := database.DB.First(&s, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shift not found")
		}

		return c.JSON(toShiftResponse(&s))
	}
}

// POST /api/shifts/:id/end
// Closes the shift without a stock count: totals are frozen as-is.
func EndShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var closed models.Shift
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var s models.Shift
			if err := tx.First(&s, id).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Shift not found")
			}
			if !s.Active() {
				return fiber.NewError(fiber.StatusBadRequest, "Shift is already closed")
			}

			sales, expenses, err := shiftTotals(tx, &s)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute shift totals")
			}

			now := time.Now()
			s.EndTime = &now
			s.TotalSales = sales
			s.TotalExpenses = expenses
			s.NetAmount = sales - expenses

			if err := tx.Save(&s).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not close shift")
			}

			if err := activity.Append(tx, activity.Entry{
				ShiftID:     s.ID,
				Type:        models.ActivityShiftEnd,
				Description: fmt.Sprintf("Shift %s ended", s.ShiftCode),
				Amount:      s.NetAmount,
			}); err != nil {
				return err
			}

			closed = s
			return nil
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not close shift")
		}

		return c.JSON(toShiftResponse(&closed))
	}
}

// POST /api/shifts/:id/reconcile
// Runs the reconciliation engine against the active shift, stores
// the immutable reconciliation row and closes the shift.
func ReconcileShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var body ReconcileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.CashInTill < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "cash_in_till cannot be negative")
		}

		var (
			rec           models.ShiftReconciliation
			closed        models.Shift
			discrepancies map[uint]models.Discrepancy
		)
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var s models.Shift
			if err := tx.First(&s, id).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Shift not found")
			}
			if !s.Active() {
				return fiber.NewError(fiber.StatusNotFound, "Shift is already closed")
			}

			var products []models.Product
			if err := tx.Find(&products).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
			}

			if err := ValidateCounts(products, body.ProductCounts, body.TreatUncountedAsZero); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}

			var total int
			discrepancies, total = ComputeStockDiscrepancies(products, body.ProductCounts)

			sales, expenses, err := shiftTotals(tx, &s)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute shift totals")
			}

			cash := ComputeCashVariance(s.StartingTillAmount, sales, expenses, body.CashInTill)

			countsJSON, _ := json.Marshal(body.ProductCounts)
			discJSON, _ := json.Marshal(discrepancies)

			shiftID := s.ID
			rec = models.ShiftReconciliation{
				ShiftID:            &shiftID,
				ProductCounts:      string(countsJSON),
				Discrepancies:      string(discJSON),
				TotalDiscrepancies: total,
				CashInTill:         body.CashInTill,
				Coins:              body.Coins,
				Notes:              body.Notes,
				ExpectedTill:       cash.ExpectedTill,
				CashVariance:       cash.Variance,
				VarianceType:       cash.Type,
				AdminNotes:         body.AdminNotes,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not store reconciliation")
			}

			now := time.Now()
			s.EndTime = &now
			s.TotalSales = sales
			s.TotalExpenses = expenses
			s.NetAmount = sales - expenses
			s.StockDiscrepancies = total
			if err := tx.Save(&s).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not close shift")
			}

			if err := activity.Append(tx, activity.Entry{
				ShiftID:     s.ID,
				Type:        models.ActivityReconciliation,
				Description: fmt.Sprintf("Shift %s reconciled and closed (%d discrepancies, till %s)", s.ShiftCode, total, cash.Type),
				Amount:      cash.Variance,
				Metadata:    fiber.Map{"reconciliation_id": rec.ID},
			}); err != nil {
				return err
			}

			closed = s
			return nil
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reconcile shift")
		}

		report := BuildEmailReport(&closed, &rec, discrepancies)

		return c.JSON(ReconciliationResponse{
			ID:                 rec.ID,
			ShiftID:            rec.ShiftID,
			Discrepancies:      discrepancies,
			TotalDiscrepancies: rec.TotalDiscrepancies,
			CashInTill:         rec.CashInTill,
			Coins:              rec.Coins,
			Notes:              rec.Notes,
			ExpectedTill:       rec.ExpectedTill,
			CashVariance:       rec.CashVariance,
			VarianceType:       rec.VarianceType,
			CreatedAt:          rec.CreatedAt.Format("2006-01-02 15:04:05"),
			EmailReport:        report,
		})
	}
}

// POST /api/shift-reconciliation
// Standalone count: same engine, no shift is closed. When a shift is
// active the cash variance is computed against it and the row links
// to it; otherwise only the counted cash is recorded.
func StandaloneReconciliationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReconcileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.CashInTill < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "cash_in_till cannot be negative")
		}

		var products []models.Product
		if err := database.DB.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products")
		}

		if err := ValidateCounts(products, body.ProductCounts, body.TreatUncountedAsZero); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		discrepancies, total := ComputeStockDiscrepancies(products, body.ProductCounts)

		// cash variance only makes sense against an open shift
		var activeShift *models.Shift
		var s models.Shift
		if err := database.DB.Where("end_time IS NULL").First(&s).Error; err == nil {
			activeShift = &s
		}

		cash := CashResult{ExpectedTill: body.CashInTill, Variance: 0, Type: models.VarianceBalanced}
		if activeShift != nil {
			sales, expenses, err := shiftTotals(database.DB, activeShift)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute shift totals")
			}
			activeShift.TotalSales = sales
			activeShift.TotalExpenses = expenses
			cash = ComputeCashVariance(activeShift.StartingTillAmount, sales, expenses, body.CashInTill)
		}

		countsJSON, _ := json.Marshal(body.ProductCounts)
		discJSON, _ := json.Marshal(discrepancies)

		rec := models.ShiftReconciliation{
			ProductCounts:      string(countsJSON),
			Discrepancies:      string(discJSON),
			TotalDiscrepancies: total,
			CashInTill:         body.CashInTill,
			Coins:              body.Coins,
			Notes:              body.Notes,
			ExpectedTill:       cash.ExpectedTill,
			CashVariance:       cash.Variance,
			VarianceType:       cash.Type,
			AdminNotes:         body.AdminNotes,
		}
		if activeShift != nil {
			shiftID := activeShift.ID
			rec.ShiftID = &shiftID
		}

		if err := database.DB.Create(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not store reconciliation")
		}

		report := BuildEmailReport(activeShift, &rec, discrepancies)

		return c.JSON(ReconciliationResponse{
			ID:                 rec.ID,
			ShiftID:            rec.ShiftID,
			Discrepancies:      discrepancies,
			TotalDiscrepancies: rec.TotalDiscrepancies,
			CashInTill:         rec.CashInTill,
			Coins:              rec.Coins,
			Notes:              rec.Notes,
			ExpectedTill:       rec.ExpectedTill,
			CashVariance:       rec.CashVariance,
			VarianceType:       rec.VarianceType,
			CreatedAt:          rec.CreatedAt.Format("2006-01-02 15:04:05"),
			EmailReport:        report,
		})
	}
}
