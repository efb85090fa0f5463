package orders

import (
	"encoding/json"
	"fmt"

	"club-backend/internal/activity"
	"club-backend/internal/auth"
	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderResponse struct {
	ID         uint                   `json:"id"`
	UserID     uint                   `json:"user_id"`
	MemberName string                 `json:"member_name,omitempty"`
	PickupCode string                 `json:"pickup_code"`
	Items      []models.OrderItem     `json:"items"`
	Quantities []models.OrderQuantity `json:"quantities"`
	TotalPrice float64                `json:"total_price"`
	Status     models.OrderStatus     `json:"status"`
	CreatedAt  string                 `json:"created_at"`
}

func toOrderResponse(o *models.Order, memberName string) OrderResponse {
	var items []models.OrderItem
	var quantities []models.OrderQuantity
	_ = json.Unmarshal([]byte(o.Items), &items)
	_ = json.Unmarshal([]byte(o.Quantities), &quantities)

	return OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		MemberName: memberName,
		PickupCode: o.PickupCode,
		Items:      items,
		Quantities: quantities,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/orders?status=&include_archived=
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Order{}).Preload("User")

		if status := c.Query("status"); status != "" {
			switch models.OrderStatus(status) {
			case models.OrderPending, models.OrderCompleted, models.OrderCancelled:
				dbq = dbq.Where("status = ?", status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "status must be pending, completed or cancelled")
			}
		}
		if c.Query("include_archived") != "true" {
			dbq = dbq.Where("archived_from_admin = ?", false)
		}

		var orders []models.Order
		if err := dbq.Order("created_at desc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i], orders[i].User.Name))
		}
		return c.JSON(resp)
	}
}

// GET /api/my/orders
func ListMyOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Could not read user")
		}

		var orders []models.Order
		if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i], ""))
		}
		return c.JSON(resp)
	}
}

// PATCH /api/orders/:id/confirm
// pending -> completed, decrementing shelf stock for every line item
// in the same transaction. Confirming anything but a pending order is
// rejected, so a double confirm can never double-decrement. If any
// product lacks shelf stock the whole confirmation rolls back.
func ConfirmOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var confirmed models.Order
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.First(&order, id).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Order not found")
			}
			if order.Status != models.OrderPending {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Order is already %s", order.Status))
			}

			// conditional update: the status check repeats in SQL so a
			// concurrent confirm loses the race instead of double-counting
			res := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", order.ID, models.OrderPending).
				Update("status", models.OrderCompleted)
			if res.Error != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not confirm order")
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Order is already confirmed")
			}

			var quantities []models.OrderQuantity
			if err := json.Unmarshal([]byte(order.Quantities), &quantities); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Order quantities are corrupt")
			}

			for _, q := range quantities {
				res := tx.Model(&models.Product{}).
					Where("id = ? AND on_shelf_grams >= ?", q.ProductID, q.Quantity).
					Update("on_shelf_grams", gorm.Expr("on_shelf_grams - ?", q.Quantity))
				if res.Error != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Could not decrement stock")
				}
				if res.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("Insufficient shelf stock for product %d", q.ProductID))
				}
			}

			// tie the sale to the shift that rang it up, when one is open
			var activeShift models.Shift
			if err := tx.Where("end_time IS NULL").First(&activeShift).Error; err == nil {
				if err := activity.Append(tx, activity.Entry{
					ShiftID:     activeShift.ID,
					Type:        models.ActivitySale,
					Description: fmt.Sprintf("Order #%d confirmed (pickup %s)", order.ID, order.PickupCode),
					Amount:      order.TotalPrice,
					Metadata:    fiber.Map{"order_id": order.ID},
				}); err != nil {
					return err
				}
			}

			order.Status = models.OrderCompleted
			confirmed = order
			return nil
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not confirm order")
		}

		return c.JSON(toOrderResponse(&confirmed, ""))
	}
}

// PATCH /api/orders/:id/cancel
// pending -> cancelled; stock is untouched.
func CancelOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var order models.Order
		if err := database.DB.First(&order, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		if order.Status != models.OrderPending {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Order is already %s", order.Status))
		}

		order.Status = models.OrderCancelled
		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not cancel order")
		}

		return c.JSON(toOrderResponse(&order, ""))
	}
}

// PATCH /api/orders/:id/archive
// Hides the order from the default admin list; the row stays.
func ArchiveOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		res := database.DB.Model(&models.Order{}).Where("id = ?", id).Update("archived_from_admin", true)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not archive order")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		return c.JSON(fiber.Map{"archived": true})
	}
}
