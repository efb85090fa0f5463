package stock

import (
	"fmt"
	"time"

	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/stock/export
// Downloads the current ledger as an .xlsx workbook.
func ExportStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		headers := []string{"Code", "Name", "Category", "Type", "On Shelf", "Internal", "External", "Total", "Cost Price", "Shelf Price"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
			}
		}

		for row, p := range products {
			values := []interface{}{
				p.ProductCode, p.Name, string(p.Category), string(p.ProductType),
				p.OnShelfGrams, p.InternalGrams, p.ExternalGrams, p.TotalStock(),
				p.CostPrice, p.ShelfPrice,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
				}
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write export")
		}

		filename := fmt.Sprintf("stock-%s.xlsx", time.Now().Format("20060102-150405"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
