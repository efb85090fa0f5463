package catalog

import (
	"time"

	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	ProductType   string   `json:"product_type"`
	ProductCode   string   `json:"product_code"`
	OnShelfGrams  int      `json:"on_shelf_grams"`
	InternalGrams int      `json:"internal_grams"`
	ExternalGrams int      `json:"external_grams"`
	CostPrice     float64  `json:"cost_price"`
	ShelfPrice    float64  `json:"shelf_price"`
	DealPrice     *float64 `json:"deal_price"`
	DealStartDate *string  `json:"deal_start_date"` // "2026-08-29"
	DealEndDate   *string  `json:"deal_end_date"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	ProductType   *string  `json:"product_type"`
	OnShelfGrams  *int     `json:"on_shelf_grams"`
	InternalGrams *int     `json:"internal_grams"`
	ExternalGrams *int     `json:"external_grams"`
	CostPrice     *float64 `json:"cost_price"`
	ShelfPrice    *float64 `json:"shelf_price"`
	DealPrice     *float64 `json:"deal_price"`
	DealStartDate *string  `json:"deal_start_date"`
	DealEndDate   *string  `json:"deal_end_date"`
	ClearDeal     bool     `json:"clear_deal"`
}

type ProductResponse struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	ProductType    string   `json:"product_type"`
	ProductCode    string   `json:"product_code"`
	OnShelfGrams   int      `json:"on_shelf_grams"`
	InternalGrams  int      `json:"internal_grams,omitempty"`
	ExternalGrams  int      `json:"external_grams,omitempty"`
	TotalStock     int      `json:"total_stock,omitempty"`
	CostPrice      float64  `json:"cost_price,omitempty"`
	ShelfPrice     float64  `json:"shelf_price"`
	DealPrice      *float64 `json:"deal_price,omitempty"`
	DealStartDate  *string  `json:"deal_start_date,omitempty"`
	DealEndDate    *string  `json:"deal_end_date,omitempty"`
	EffectivePrice float64  `json:"effective_price"`
	DealActive     bool     `json:"deal_active"`
	ImageURL       string   `json:"image_url,omitempty"`
}

func validCategory(c string) bool {
	switch models.ProductCategory(c) {
	case models.CategorySativa, models.CategoryIndica, models.CategoryHybrid:
		return true
	}
	return false
}

func validProductType(t string) bool {
	switch models.ProductType(t) {
	case models.TypeCannabis, models.TypeHash, models.TypeCaliPax,
		models.TypeEdibles, models.TypePreRolls, models.TypeVapes, models.TypeWax:
		return true
	}
	return false
}

func parseDateOpt(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// adminView includes cost price and backroom locations; the member
// catalogue only shows what is on the shelf.
func toProductResponse(p *models.Product, adminView bool) ProductResponse {
	now := time.Now()
	effective := p.EffectivePrice(now)

	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Category:       string(p.Category),
		ProductType:    string(p.ProductType),
		ProductCode:    p.ProductCode,
		OnShelfGrams:   p.OnShelfGrams,
		ShelfPrice:     p.ShelfPrice,
		EffectivePrice: effective,
		DealActive:     effective != p.ShelfPrice,
		ImageURL:       p.ImageURL,
	}
	if p.DealPrice != nil {
		resp.DealPrice = p.DealPrice
	}
	if p.DealStartDate != nil {
		s := p.DealStartDate.Format("2006-01-02")
		resp.DealStartDate = &s
	}
	if p.DealEndDate != nil {
		s := p.DealEndDate.Format("2006-01-02")
		resp.DealEndDate = &s
	}
	if adminView {
		resp.InternalGrams = p.InternalGrams
		resp.ExternalGrams = p.ExternalGrams
		resp.TotalStock = p.TotalStock()
		resp.CostPrice = p.CostPrice
	}
	return resp
}

// POST /api/admin/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name == "" || body.ProductCode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and product_code are required")
		}
		if !validCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "category must be Sativa, Indica or Hybrid")
		}
		if !validProductType(body.ProductType) {
			return fiber.NewError(fiber.StatusBadRequest, "product_type is invalid")
		}
		if body.OnShelfGrams < 0 || body.InternalGrams < 0 || body.ExternalGrams < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stock quantities cannot be negative")
		}
		if body.CostPrice < 0 || body.ShelfPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Prices cannot be negative")
		}

		dealStart, err := parseDateOpt(body.DealStartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "deal_start_date must be 'YYYY-MM-DD'")
		}
		dealEnd, err := parseDateOpt(body.DealEndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "deal_end_date must be 'YYYY-MM-DD'")
		}
		if body.DealPrice != nil {
			if *body.DealPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "deal_price cannot be negative")
			}
			if dealStart == nil || dealEnd == nil {
				return fiber.NewError(fiber.StatusBadRequest, "A deal needs both start and end dates")
			}
			if dealEnd.Before(*dealStart) {
				return fiber.NewError(fiber.StatusBadRequest, "deal_end_date is before deal_start_date")
			}
		}

		var count int64
		database.DB.Model(&models.Product{}).Where("product_code = ?", body.ProductCode).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "product_code is already in use")
		}

		product := models.Product{
			Name:          body.Name,
			Category:      models.ProductCategory(body.Category),
			ProductType:   models.ProductType(body.ProductType),
			ProductCode:   body.ProductCode,
			OnShelfGrams:  body.OnShelfGrams,
			InternalGrams: body.InternalGrams,
			ExternalGrams: body.ExternalGrams,
			CostPrice:     body.CostPrice,
			ShelfPrice:    body.ShelfPrice,
			DealPrice:     body.DealPrice,
			DealStartDate: dealStart,
			DealEndDate:   dealEnd,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product, true))
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			product.Name = *body.Name
		}
		if body.Category != nil {
			if !validCategory(*body.Category) {
				return fiber.NewError(fiber.StatusBadRequest, "category must be Sativa, Indica or Hybrid")
			}
			product.Category = models.ProductCategory(*body.Category)
		}
		if body.ProductType != nil {
			if !validProductType(*body.ProductType) {
				return fiber.NewError(fiber.StatusBadRequest, "product_type is invalid")
			}
			product.ProductType = models.ProductType(*body.ProductType)
		}
		if body.OnShelfGrams != nil {
			if *body.OnShelfGrams < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "on_shelf_grams cannot be negative")
			}
			product.OnShelfGrams = *body.OnShelfGrams
		}
		if body.InternalGrams != nil {
			if *body.InternalGrams < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "internal_grams cannot be negative")
			}
			product.InternalGrams = *body.InternalGrams
		}
		if body.ExternalGrams != nil {
			if *body.ExternalGrams < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "external_grams cannot be negative")
			}
			product.ExternalGrams = *body.ExternalGrams
		}
		if body.CostPrice != nil {
			product.CostPrice = *body.CostPrice
		}
		if body.ShelfPrice != nil {
			product.ShelfPrice = *body.ShelfPrice
		}

		if body.ClearDeal {
			product.DealPrice = nil
			product.DealStartDate = nil
			product.DealEndDate = nil
		} else {
			if body.DealPrice != nil {
				product.DealPrice = body.DealPrice
			}
			if body.DealStartDate != nil {
				d, err := parseDateOpt(body.DealStartDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "deal_start_date must be 'YYYY-MM-DD'")
				}
				product.DealStartDate = d
			}
			if body.DealEndDate != nil {
				d, err := parseDateOpt(body.DealEndDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "deal_end_date must be 'YYYY-MM-DD'")
				}
				product.DealEndDate = d
			}
			if product.DealStartDate != nil && product.DealEndDate != nil && product.DealEndDate.Before(*product.DealStartDate) {
				return fiber.NewError(fiber.StatusBadRequest, "deal_end_date is before deal_start_date")
			}
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		return c.JSON(toProductResponse(&product, true))
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		res := database.DB.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/products (member catalogue)
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			resp = append(resp, toProductResponse(&products[i], false))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/products (full ledger view)
func ListProductsAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			resp = append(resp, toProductResponse(&products[i], true))
		}
		return c.JSON(resp)
	}
}
