package activity

import (
	"fmt"

	"club-backend/internal/auth"
	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type ActivityResponse struct {
	ID           uint                `json:"id"`
	ShiftID      uint                `json:"shift_id"`
	ActivityType models.ActivityType `json:"activity_type"`
	Description  string              `json:"description"`
	Amount       float64             `json:"amount"`
	Metadata     string              `json:"metadata"`
	CreatedAt    string              `json:"created_at"`
}

// GET /api/shift-activities?shift_id=&type=
func ListActivitiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.ShiftActivity{})

		if shiftIDStr := c.Query("shift_id"); shiftIDStr != "" {
			var shiftID uint
			if _, err := fmt.Sscan(shiftIDStr, &shiftID); err != nil || shiftID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "shift_id is invalid")
			}
			dbq = dbq.Where("shift_id = ?", shiftID)
		}
		if typeStr := c.Query("type"); typeStr != "" {
			dbq = dbq.Where("activity_type = ?", typeStr)
		}

		var rows []models.ShiftActivity
		if err := dbq.Order("created_at desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list shift activities")
		}

		resp := make([]ActivityResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, ActivityResponse{
				ID:           r.ID,
				ShiftID:      r.ShiftID,
				ActivityType: r.ActivityType,
				Description:  r.Description,
				Amount:       r.Amount,
				Metadata:     r.Metadata,
				CreatedAt:    r.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}

type ClearActivitiesRequest struct {
	Password string `json:"password"`
}

// POST /api/shift-activities/clear
// The activity log is append-only; the one escape hatch is this bulk
// clear, and it re-verifies the superadmin's password instead of
// trusting the session token alone.
func ClearActivitiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ClearActivitiesRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Password is required")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusForbidden, "Wrong password")
		}

		res := database.DB.Where("1 = 1").Delete(&models.ShiftActivity{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not clear shift activities")
		}

		return c.JSON(fiber.Map{"deleted": res.RowsAffected})
	}
}
