package basket

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"club-backend/internal/auth"
	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AddItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type BasketItemResponse struct {
	ID             uint    `json:"id"`
	ProductID      uint    `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Category       string  `json:"category"`
	Quantity       int     `json:"quantity"`
	EffectivePrice float64 `json:"effective_price"`
	LineTotal      float64 `json:"line_total"`
}

func currentUserID(c *fiber.Ctx) (uint, error) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Could not read user")
	}
	return userID, nil
}

func toItemResponse(item *models.BasketItem, now time.Time) BasketItemResponse {
	price := item.Product.EffectivePrice(now)
	return BasketItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		ProductName:    item.Product.Name,
		Category:       string(item.Product.Category),
		Quantity:       item.Quantity,
		EffectivePrice: price,
		LineTotal:      price * float64(item.Quantity),
	}
}

// POST /api/basket/items
// Adding a product already in the basket bumps its quantity.
func AddItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}

		var body AddItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than 0")
		}

		var product models.Product
		if err := database.DB.First(&product, body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var item models.BasketItem
		err = database.DB.Where("user_id = ? AND product_id = ?", userID, body.ProductID).First(&item).Error
		if err == nil {
			item.Quantity += body.Quantity
			if err := database.DB.Save(&item).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update basket")
			}
		} else {
			item = models.BasketItem{
				UserID:    userID,
				ProductID: body.ProductID,
				Quantity:  body.Quantity,
			}
			if err := database.DB.Create(&item).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not add to basket")
			}
		}

		item.Product = product
		return c.Status(fiber.StatusCreated).JSON(toItemResponse(&item, time.Now()))
	}
}

// PUT /api/basket/items/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than 0")
		}

		var item models.BasketItem
		if err := database.DB.Preload("Product").Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Basket item not found")
		}

		item.Quantity = body.Quantity
		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update basket")
		}

		return c.JSON(toItemResponse(&item, time.Now()))
	}
}

// DELETE /api/basket/items/:id
func RemoveItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		res := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.BasketItem{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not remove basket item")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Basket item not found")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/basket
func ListBasketHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}

		var items []models.BasketItem
		if err := database.DB.Preload("Product").Where("user_id = ?", userID).Order("created_at asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list basket")
		}

		now := time.Now()
		total := 0.0
		resp := make([]BasketItemResponse, 0, len(items))
		for i := range items {
			r := toItemResponse(&items[i], now)
			resp = append(resp, r)
			total += r.LineTotal
		}

		return c.JSON(fiber.Map{"items": resp, "total": total})
	}
}

// POST /api/basket/checkout
// Turns the basket into a pending donation order: snapshots the
// items with their effective prices, clears the basket and hands
// back a pickup code. Stock only moves when staff confirm the order.
func CheckoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}

		var order models.Order
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var items []models.BasketItem
			if err := tx.Preload("Product").Where("user_id = ?", userID).Find(&items).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not read basket")
			}
			if len(items) == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Basket is empty")
			}

			now := time.Now()
			orderItems := make([]models.OrderItem, 0, len(items))
			quantities := make([]models.OrderQuantity, 0, len(items))
			total := 0.0
			for _, item := range items {
				orderItems = append(orderItems, models.OrderItem{
					ProductID: item.ProductID,
					Name:      item.Product.Name,
					Category:  item.Product.Category,
				})
				quantities = append(quantities, models.OrderQuantity{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
				})
				total += item.Product.EffectivePrice(now) * float64(item.Quantity)
			}

			itemsJSON, _ := json.Marshal(orderItems)
			quantitiesJSON, _ := json.Marshal(quantities)

			order = models.Order{
				UserID:     userID,
				PickupCode: fmt.Sprintf("%04d", rand.Intn(10000)),
				Items:      string(itemsJSON),
				Quantities: string(quantitiesJSON),
				TotalPrice: total,
				Status:     models.OrderPending,
			}
			if err := tx.Create(&order).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create order")
			}

			if err := tx.Where("user_id = ?", userID).Delete(&models.BasketItem{}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not clear basket")
			}

			return nil
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Checkout failed")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"order_id":    order.ID,
			"pickup_code": order.PickupCode,
			"total_price": order.TotalPrice,
			"status":      order.Status,
		})
	}
}
