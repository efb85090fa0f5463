package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"club-backend/internal/auth"
	"club-backend/internal/config"
	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testCfg = &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "club.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	database.DB = db

	app := fiber.New()
	app.Post("/api/auth/register", auth.RegisterHandler())
	app.Post("/api/auth/register-super-admin", auth.RegisterSuperAdminHandler())
	app.Post("/api/auth/login", auth.LoginHandler(testCfg))

	protected := app.Group("")
	protected.Use(auth.JWTMiddleware(testCfg))
	protected.Get("/api/auth/me", auth.MeHandler())

	member := protected.Group("")
	member.Use(auth.RequireApprovedMember())
	member.Get("/api/basket", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func register(t *testing.T, app *fiber.App, name, email, password string) map[string]any {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"name": name, "email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterStartsPending(t *testing.T) {
	app := setupApp(t)

	body := register(t, app, "Pau", "pau@example.com", "secret-password")
	assert.Equal(t, "pending", body["membership_status"])
	assert.Regexp(t, `^MEM-[0-9A-F]{8}$`, body["member_number"])

	// duplicate email
	resp := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"name": "Pau Again", "email": "PAU@example.com", "password": "secret-password",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"name": "Pau", "email": "pau@example.com", "password": "short",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginRoundTrip(t *testing.T) {
	app := setupApp(t)
	register(t, app, "Pau", "pau@example.com", "secret-password")

	token := login(t, app, "pau@example.com", "secret-password")

	resp := doJSON(t, app, "GET", "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody(t, resp)
	assert.Equal(t, "pau@example.com", me["email"])
	assert.Equal(t, "member", me["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(t)
	register(t, app, "Pau", "pau@example.com", "secret-password")

	resp := doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email": "pau@example.com", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email": "nobody@example.com", "password": "secret-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/auth/me", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPendingMemberCannotOrder(t *testing.T) {
	app := setupApp(t)
	register(t, app, "Pau", "pau@example.com", "secret-password")
	token := login(t, app, "pau@example.com", "secret-password")

	resp := doJSON(t, app, "GET", "/api/basket", nil, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// approval opens the route; membership state is read live, not
	// from the token, so the same token now passes
	require.NoError(t, database.DB.Model(&models.User{}).Where("id = ?", 1).
		Update("membership_status", models.MembershipApproved).Error)

	resp = doJSON(t, app, "GET", "/api/basket", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBannedMemberCannotOrder(t *testing.T) {
	app := setupApp(t)
	register(t, app, "Pau", "pau@example.com", "secret-password")
	require.NoError(t, database.DB.Model(&models.User{}).Where("id = ?", 1).Updates(map[string]interface{}{
		"membership_status": models.MembershipApproved, "banned": true,
	}).Error)

	token := login(t, app, "pau@example.com", "secret-password")
	resp := doJSON(t, app, "GET", "/api/basket", nil, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRegisterFailsClosedOnDatabaseError(t *testing.T) {
	app := setupApp(t)

	// a broken duplicate-email check must surface as an error, not
	// read as "no duplicate" and fall through to the insert
	require.NoError(t, database.DB.Migrator().DropTable(&models.User{}))

	resp := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"name": "Pau", "email": "pau@example.com", "password": "secret-password",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/register-super-admin", fiber.Map{
		"name": "Root", "email": "root@example.com", "password": "super-secret-pw",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestSuperAdminBootstrapOnlyOnce(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/register-super-admin", fiber.Map{
		"name": "Root", "email": "root@example.com", "password": "super-secret-pw",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "superadmin", body["role"])

	resp = doJSON(t, app, "POST", "/api/auth/register-super-admin", fiber.Map{
		"name": "Root 2", "email": "root2@example.com", "password": "super-secret-pw",
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
