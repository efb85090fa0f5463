package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"club-backend/internal/config"
	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/admin/products/:id/image
// Stores the uploaded photo under cfg.ProductImagePath; the file is
// served statically from /product-images.
func UploadProductImageHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "image file is required")
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp":
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Only jpg, jpeg, png and webp images are accepted")
		}

		if err := os.MkdirAll(cfg.ProductImagePath, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not prepare image directory")
		}

		filename := fmt.Sprintf("product-%d%s", product.ID, ext)
		if err := c.SaveFile(fileHeader, filepath.Join(cfg.ProductImagePath, filename)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not store image")
		}

		product.ImageURL = "/product-images/" + filename
		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		return c.JSON(fiber.Map{"image_url": product.ImageURL})
	}
}
