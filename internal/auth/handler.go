package auth

import (
	"strings"

	"club-backend/internal/config"
	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
// New members start as pending until an admin approves them.
func RegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 8 characters")
		}

		var count int64
		if err := database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check email")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Email is already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			MemberNumber:     "MEM-" + strings.ToUpper(uuid.NewString()[:8]),
			Name:             body.Name,
			Email:            body.Email,
			PasswordHash:     string(hash),
			Role:             models.RoleMember,
			MembershipStatus: models.MembershipPending,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":                user.ID,
			"member_number":     user.MemberNumber,
			"email":             user.Email,
			"membership_status": user.MembershipStatus,
		})
	}
}

// POST /api/auth/register-super-admin
// First-boot bootstrap; refuses once a superadmin exists.
func RegisterSuperAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}

		var count int64
		if err := database.DB.Model(&models.User{}).
			Where("role = ?", models.RoleSuperAdmin).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check for a superadmin")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "A superadmin already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			MemberNumber:     "MEM-" + strings.ToUpper(uuid.NewString()[:8]),
			Name:             body.Name,
			Email:            body.Email,
			PasswordHash:     string(hash),
			Role:             models.RoleSuperAdmin,
			MembershipStatus: models.MembershipApproved,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":                user.ID,
				"member_number":     user.MemberNumber,
				"name":              user.Name,
				"email":             user.Email,
				"role":              user.Role,
				"membership_status": user.MembershipStatus,
				"banned":            user.Banned,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}

		resp := fiber.Map{
			"id":                user.ID,
			"member_number":     user.MemberNumber,
			"name":              user.Name,
			"email":             user.Email,
			"role":              user.Role,
			"membership_status": user.MembershipStatus,
			"banned":            user.Banned,
		}
		if user.MembershipExpiresAt != nil {
			resp["membership_expires_at"] = user.MembershipExpiresAt.Format("2006-01-02")
		}

		return c.JSON(resp)
	}
}
