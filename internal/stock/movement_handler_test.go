package stock_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"club-backend/internal/database"
	"club-backend/internal/models"
	"club-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "club.db")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.StockMovement{}))
	database.DB = db

	app := fiber.New()
	app.Post("/api/stock-movements", stock.CreateMovementHandler())
	app.Get("/api/stock-movements", stock.ListMovementsHandler())
	app.Get("/api/stock/current", stock.CurrentStockHandler())
	return app
}

func seedProduct(t *testing.T) models.Product {
	t.Helper()
	p := models.Product{
		Name: "Amnesia Haze", Category: models.CategorySativa,
		ProductType: models.TypeCannabis, ProductCode: "AH-01",
		OnShelfGrams: 10, InternalGrams: 30, ExternalGrams: 60, ShelfPrice: 12,
	}
	require.NoError(t, database.DB.Create(&p).Error)
	return p
}

func postMovement(t *testing.T, app *fiber.App, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/stock-movements", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestMovementConservesTotal(t *testing.T) {
	app := setupApp(t)
	p := seedProduct(t)
	before := p.TotalStock()

	resp := postMovement(t, app, fiber.Map{
		"product_id": p.ID, "from_location": "internal", "to_location": "shelf",
		"quantity": 25, "worker_name": "Marta",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var after models.Product
	require.NoError(t, database.DB.First(&after, p.ID).Error)
	assert.Equal(t, 35, after.OnShelfGrams)
	assert.Equal(t, 5, after.InternalGrams)
	assert.Equal(t, 60, after.ExternalGrams)
	assert.Equal(t, before, after.TotalStock(), "a movement never changes the total")

	var count int64
	database.DB.Model(&models.StockMovement{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMovementInsufficientSource(t *testing.T) {
	app := setupApp(t)
	p := seedProduct(t)

	resp := postMovement(t, app, fiber.Map{
		"product_id": p.ID, "from_location": "shelf", "to_location": "internal",
		"quantity": 11, "worker_name": "Marta",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var after models.Product
	require.NoError(t, database.DB.First(&after, p.ID).Error)
	assert.Equal(t, 10, after.OnShelfGrams)
	assert.Equal(t, 30, after.InternalGrams)

	var count int64
	database.DB.Model(&models.StockMovement{}).Count(&count)
	assert.Zero(t, count, "rejected movements leave no audit row")
}

func TestMovementValidation(t *testing.T) {
	app := setupApp(t)
	p := seedProduct(t)

	resp := postMovement(t, app, fiber.Map{
		"product_id": p.ID, "from_location": "shelf", "to_location": "shelf",
		"quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postMovement(t, app, fiber.Map{
		"product_id": p.ID, "from_location": "shelf", "to_location": "attic",
		"quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postMovement(t, app, fiber.Map{
		"product_id": p.ID, "from_location": "shelf", "to_location": "internal",
		"quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postMovement(t, app, fiber.Map{
		"product_id": 99, "from_location": "shelf", "to_location": "internal",
		"quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCurrentStockBreakdown(t *testing.T) {
	app := setupApp(t)
	seedProduct(t)

	req := httptest.NewRequest("GET", "/api/stock/current", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, float64(10), rows[0]["on_shelf"])
	assert.Equal(t, float64(30), rows[0]["internal"])
	assert.Equal(t, float64(60), rows[0]["external"])
	assert.Equal(t, float64(100), rows[0]["total"])
}
