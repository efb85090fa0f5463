package expense

import (
	"fmt"
	"time"

	"club-backend/internal/activity"
	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateExpenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	WorkerName  string  `json:"worker_name"`
}

type ExpenseResponse struct {
	ID          uint    `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	WorkerName  string  `json:"worker_name"`
	ShiftID     *uint   `json:"shift_id"`
	CreatedAt   string  `json:"created_at"`
}

type MonthlySummaryResponse struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Count      int64   `json:"count"`
	GrandTotal float64 `json:"grand_total"`
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		WorkerName:  e.WorkerName,
		ShiftID:     e.ShiftID,
		CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/expenses
// Tags the expense with the active shift when one is open and logs
// an expense activity against it.
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "description is required")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be greater than 0")
		}
		if body.WorkerName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "worker_name is required")
		}

		var expense models.Expense
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			expense = models.Expense{
				Description: body.Description,
				Amount:      body.Amount,
				WorkerName:  body.WorkerName,
			}

			var activeShift models.Shift
			shiftOpen := tx.Where("end_time IS NULL").First(&activeShift).Error == nil
			if shiftOpen {
				expense.ShiftID = &activeShift.ID
			}

			if err := tx.Create(&expense).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create expense")
			}

			if shiftOpen {
				return activity.Append(tx, activity.Entry{
					ShiftID:     activeShift.ID,
					Type:        models.ActivityExpense,
					Description: fmt.Sprintf("Expense: %s", expense.Description),
					Amount:      expense.Amount,
					Metadata:    fiber.Map{"expense_id": expense.ID},
				})
			}
			return nil
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create expense")
		}

		return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(&expense))
	}
}

// GET /api/expenses?from=2026-08-01&to=2026-08-31
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Expense{})

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from date is invalid")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to date is invalid")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		var expenses []models.Expense
		if err := dbq.Order("created_at desc").Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		resp := make([]ExpenseResponse, 0, len(expenses))
		for i := range expenses {
			resp = append(resp, toExpenseResponse(&expenses[i]))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/expenses/:id (hard delete)
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		res := database.DB.Delete(&models.Expense{}, id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete expense")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/expenses/summary/monthly?year=2026&month=8
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year and month are required")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year is invalid")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month is invalid")
		}

		loc := time.Now().Location()
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0)

		var row struct {
			Count int64
			Total float64
		}
		if err := database.DB.Model(&models.Expense{}).
			Select("COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
			Where("created_at >= ? AND created_at < ?", start, end).
			Scan(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute summary")
		}

		return c.JSON(MonthlySummaryResponse{
			Year:       year,
			Month:      month,
			Count:      row.Count,
			GrandTotal: row.Total,
		})
	}
}
