package stock

import (
	"fmt"

	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateMovementRequest struct {
	ProductID    uint                 `json:"product_id"`
	FromLocation models.StockLocation `json:"from_location"`
	ToLocation   models.StockLocation `json:"to_location"`
	Quantity     int                  `json:"quantity"`
	WorkerName   string               `json:"worker_name"`
	Note         string               `json:"note"`
}

type MovementResponse struct {
	ID           uint                 `json:"id"`
	ProductID    uint                 `json:"product_id"`
	ProductName  string               `json:"product_name"`
	FromLocation models.StockLocation `json:"from_location"`
	ToLocation   models.StockLocation `json:"to_location"`
	Quantity     int                  `json:"quantity"`
	WorkerName   string               `json:"worker_name"`
	Note         string               `json:"note"`
	CreatedAt    string               `json:"created_at"`
}

func validLocation(l models.StockLocation) bool {
	switch l {
	case models.LocationShelf, models.LocationInternal, models.LocationExternal:
		return true
	}
	return false
}

func locationAmount(p *models.Product, l models.StockLocation) int {
	switch l {
	case models.LocationShelf:
		return p.OnShelfGrams
	case models.LocationInternal:
		return p.InternalGrams
	default:
		return p.ExternalGrams
	}
}

func setLocationAmount(p *models.Product, l models.StockLocation, v int) {
	switch l {
	case models.LocationShelf:
		p.OnShelfGrams = v
	case models.LocationInternal:
		p.InternalGrams = v
	default:
		p.ExternalGrams = v
	}
}

// POST /api/stock-movements
// Moves quantity between two locations of one product. Decrement and
// increment happen on the same row in one transaction; a move can
// never drive the source negative.
func CreateMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
		}
		if !validLocation(body.FromLocation) || !validLocation(body.ToLocation) {
			return fiber.NewError(fiber.StatusBadRequest, "Location must be shelf, internal or external")
		}
		if body.FromLocation == body.ToLocation {
			return fiber.NewError(fiber.StatusBadRequest, "from_location and to_location must differ")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than 0")
		}

		var (
			movement models.StockMovement
			product  models.Product
		)
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&product, body.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}

			available := locationAmount(&product, body.FromLocation)
			if body.Quantity > available {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Insufficient stock at %s: have %d, want to move %d", body.FromLocation, available, body.Quantity))
			}

			setLocationAmount(&product, body.FromLocation, available-body.Quantity)
			setLocationAmount(&product, body.ToLocation, locationAmount(&product, body.ToLocation)+body.Quantity)

			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
				"on_shelf_grams": product.OnShelfGrams,
				"internal_grams": product.InternalGrams,
				"external_grams": product.ExternalGrams,
			}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update stock")
			}

			movement = models.StockMovement{
				ProductID:    product.ID,
				FromLocation: body.FromLocation,
				ToLocation:   body.ToLocation,
				Quantity:     body.Quantity,
				WorkerName:   body.WorkerName,
				Note:         body.Note,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not record stock movement")
			}

			return nil
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not move stock")
		}

		return c.Status(fiber.StatusCreated).JSON(MovementResponse{
			ID:           movement.ID,
			ProductID:    movement.ProductID,
			ProductName:  product.Name,
			FromLocation: movement.FromLocation,
			ToLocation:   movement.ToLocation,
			Quantity:     movement.Quantity,
			WorkerName:   movement.WorkerName,
			Note:         movement.Note,
			CreatedAt:    movement.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/stock-movements?product_id=
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockMovement{}).Preload("Product")

		if pidStr := c.Query("product_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err != nil || pid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "product_id is invalid")
			}
			dbq = dbq.Where("product_id = ?", pid)
		}

		var movements []models.StockMovement
		if err := dbq.Order("created_at desc, id desc").Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list stock movements")
		}

		resp := make([]MovementResponse, 0, len(movements))
		for _, m := range movements {
			resp = append(resp, MovementResponse{
				ID:           m.ID,
				ProductID:    m.ProductID,
				ProductName:  m.Product.Name,
				FromLocation: m.FromLocation,
				ToLocation:   m.ToLocation,
				Quantity:     m.Quantity,
				WorkerName:   m.WorkerName,
				Note:         m.Note,
				CreatedAt:    m.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}

type CurrentStockRow struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductCode string `json:"product_code"`
	OnShelf     int    `json:"on_shelf"`
	Internal    int    `json:"internal"`
	External    int    `json:"external"`
	Total       int    `json:"total"`
}

// GET /api/stock/current
func CurrentStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		rows := make([]CurrentStockRow, 0, len(products))
		for _, p := range products {
			rows = append(rows, CurrentStockRow{
				ProductID:   p.ID,
				ProductName: p.Name,
				ProductCode: p.ProductCode,
				OnShelf:     p.OnShelfGrams,
				Internal:    p.InternalGrams,
				External:    p.ExternalGrams,
				Total:       p.TotalStock(),
			})
		}

		return c.JSON(rows)
	}
}
