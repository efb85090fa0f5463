package orders_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"club-backend/internal/database"
	"club-backend/internal/models"
	"club-backend/internal/orders"

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

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Shift{},
		&models.ShiftActivity{},
	))
	database.DB = db

	app := fiber.New()
	app.Get("/api/orders", orders.ListOrdersHandler())
	app.Patch("/api/orders/:id/confirm", orders.ConfirmOrderHandler())
	app.Patch("/api/orders/:id/cancel", orders.CancelOrderHandler())
	app.Patch("/api/orders/:id/archive", orders.ArchiveOrderHandler())
	return app
}

func seedOrder(t *testing.T, shelfGrams, quantity int) (models.Product, models.Order) {
	t.Helper()

	user := models.User{
		Name: "Pau", Email: "pau@example.com", PasswordHash: "x",
		Role: models.RoleMember, MembershipStatus: models.MembershipApproved,
		MemberNumber: "MEM-TEST0001",
	}
	require.NoError(t, database.DB.Create(&user).Error)

	product := models.Product{
		Name: "Amnesia Haze", Category: models.CategorySativa,
		ProductType: models.TypeCannabis, ProductCode: "AH-01",
		OnShelfGrams: shelfGrams, ShelfPrice: 12,
	}
	require.NoError(t, database.DB.Create(&product).Error)

	quantities, _ := json.Marshal([]models.OrderQuantity{{ProductID: product.ID, Quantity: quantity}})
	items, _ := json.Marshal([]models.OrderItem{{ProductID: product.ID, Name: product.Name, Category: product.Category}})
	order := models.Order{
		UserID: user.ID, PickupCode: "1234",
		Items: string(items), Quantities: string(quantities),
		TotalPrice: float64(quantity) * product.ShelfPrice,
		Status:     models.OrderPending,
	}
	require.NoError(t, database.DB.Create(&order).Error)

	return product, order
}

func patch(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("PATCH", path, bytes.NewReader(nil))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestConfirmDecrementsShelfOnce(t *testing.T) {
	app := setupApp(t)
	product, _ := seedOrder(t, 50, 10)

	resp := patch(t, app, "/api/orders/1/confirm")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var after models.Product
	require.NoError(t, database.DB.First(&after, product.ID).Error)
	assert.Equal(t, 40, after.OnShelfGrams)

	// a second confirm is rejected and must not decrement again
	resp = patch(t, app, "/api/orders/1/confirm")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.NoError(t, database.DB.First(&after, product.ID).Error)
	assert.Equal(t, 40, after.OnShelfGrams)
}

func TestConfirmInsufficientStockRollsBack(t *testing.T) {
	app := setupApp(t)
	product, _ := seedOrder(t, 5, 10)

	resp := patch(t, app, "/api/orders/1/confirm")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var order models.Order
	require.NoError(t, database.DB.First(&order, 1).Error)
	assert.Equal(t, models.OrderPending, order.Status, "failed confirmation leaves the order pending")

	var after models.Product
	require.NoError(t, database.DB.First(&after, product.ID).Error)
	assert.Equal(t, 5, after.OnShelfGrams)
}

func TestConfirmUnknownOrder(t *testing.T) {
	app := setupApp(t)

	resp := patch(t, app, "/api/orders/42/confirm")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCancelLeavesStockAlone(t *testing.T) {
	app := setupApp(t)
	product, _ := seedOrder(t, 50, 10)

	resp := patch(t, app, "/api/orders/1/cancel")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order models.Order
	require.NoError(t, database.DB.First(&order, 1).Error)
	assert.Equal(t, models.OrderCancelled, order.Status)

	var after models.Product
	require.NoError(t, database.DB.First(&after, product.ID).Error)
	assert.Equal(t, 50, after.OnShelfGrams)

	// a cancelled order cannot be confirmed afterwards
	resp = patch(t, app, "/api/orders/1/confirm")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestArchiveHidesFromDefaultList(t *testing.T) {
	app := setupApp(t)
	seedOrder(t, 50, 10)

	resp := patch(t, app, "/api/orders/1/archive")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/orders", nil)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	var listed []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	assert.Empty(t, listed)

	req = httptest.NewRequest("GET", "/api/orders?include_archived=true", nil)
	listResp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	assert.Len(t, listed, 1)
}
