package membership

import (
	"time"

	"club-backend/internal/database"
	"club-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MemberResponse struct {
	ID               uint                    `json:"id"`
	MemberNumber     string                  `json:"member_number"`
	Name             string                  `json:"name"`
	Email            string                  `json:"email"`
	Role             models.UserRole         `json:"role"`
	MembershipStatus models.MembershipStatus `json:"membership_status"`
	ExpiresAt        *string                 `json:"membership_expires_at"`
	Banned           bool                    `json:"banned"`
	BanReason        string                  `json:"ban_reason,omitempty"`
	CreatedAt        string                  `json:"created_at"`
}

func toMemberResponse(u *models.User) MemberResponse {
	resp := MemberResponse{
		ID:               u.ID,
		MemberNumber:     u.MemberNumber,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		MembershipStatus: u.MembershipStatus,
		Banned:           u.Banned,
		BanReason:        u.BanReason,
		CreatedAt:        u.CreatedAt.Format("2006-01-02"),
	}
	if u.MembershipExpiresAt != nil {
		s := u.MembershipExpiresAt.Format("2006-01-02")
		resp.ExpiresAt = &s
	}
	return resp
}

func loadMember(c *fiber.Ctx) (*models.User, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "id is invalid")
	}
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Member not found")
	}
	return &user, nil
}

// GET /api/admin/members?status=pending
func ListMembersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{})

		if status := c.Query("status"); status != "" {
			switch models.MembershipStatus(status) {
			case models.MembershipPending, models.MembershipApproved,
				models.MembershipExpired, models.MembershipRenewed:
				dbq = dbq.Where("membership_status = ?", status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "status is invalid")
			}
		}
		if c.Query("banned") == "true" {
			dbq = dbq.Where("banned = ?", true)
		}

		var users []models.User
		if err := dbq.Order("created_at desc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list members")
		}

		resp := make([]MemberResponse, 0, len(users))
		for i := range users {
			resp = append(resp, toMemberResponse(&users[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/admin/members/:id/approve
// pending -> approved, membership runs one year from approval.
func ApproveMemberHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadMember(c)
		if err != nil {
			return err
		}

		if user.MembershipStatus != models.MembershipPending {
			return fiber.NewError(fiber.StatusBadRequest, "Member is not pending approval")
		}

		expires := time.Now().AddDate(1, 0, 0)
		user.MembershipStatus = models.MembershipApproved
		user.MembershipExpiresAt = &expires

		if err := database.DB.Save(user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not approve member")
		}

		return c.JSON(toMemberResponse(user))
	}
}

// POST /api/admin/members/:id/renew
// Extends an approved or expired membership by one year.
func RenewMemberHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadMember(c)
		if err != nil {
			return err
		}

		switch user.MembershipStatus {
		case models.MembershipApproved, models.MembershipExpired, models.MembershipRenewed:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Member cannot be renewed before approval")
		}

		base := time.Now()
		if user.MembershipExpiresAt != nil && user.MembershipExpiresAt.After(base) {
			base = *user.MembershipExpiresAt
		}
		expires := base.AddDate(1, 0, 0)

		user.MembershipStatus = models.MembershipRenewed
		user.MembershipExpiresAt = &expires

		if err := database.DB.Save(user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not renew member")
		}

		return c.JSON(toMemberResponse(user))
	}
}

type BanRequest struct {
	Reason string `json:"reason"`
}

// POST /api/admin/members/:id/ban
func BanMemberHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadMember(c)
		if err != nil {
			return err
		}

		var body BanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Reason == "" {
			return fiber.NewError(fiber.StatusBadRequest, "reason is required")
		}
		if user.Role != models.RoleMember {
			return fiber.NewError(fiber.StatusBadRequest, "Only plain members can be banned")
		}

		now := time.Now()
		user.Banned = true
		user.BanReason = body.Reason
		user.BannedAt = &now

		if err := database.DB.Save(user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not ban member")
		}

		return c.JSON(toMemberResponse(user))
	}
}

// POST /api/admin/members/:id/unban
func UnbanMemberHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadMember(c)
		if err != nil {
			return err
		}

		user.Banned = false
		user.BanReason = ""
		user.BannedAt = nil

		if err := database.DB.Save(user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not unban member")
		}

		return c.JSON(toMemberResponse(user))
	}
}

type SetRoleRequest struct {
	Role models.UserRole `json:"role"`
}

// POST /api/admin/members/:id/role (superadmin only)
// Grants or revokes the admin role; the superadmin role itself is
// never assignable through the API.
func SetRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadMember(c)
		if err != nil {
			return err
		}

		var body SetRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		switch body.Role {
		case models.RoleMember, models.RoleAdmin:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "role must be member or admin")
		}
		if user.Role == models.RoleSuperAdmin {
			return fiber.NewError(fiber.StatusBadRequest, "Cannot change the superadmin's role")
		}

		user.Role = body.Role
		if err := database.DB.Save(user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not change role")
		}

		return c.JSON(toMemberResponse(user))
	}
}
