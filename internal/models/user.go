package models

import "time"

type UserRole string

const (
	RoleMember     UserRole = "member"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipApproved MembershipStatus = "approved"
	MembershipExpired  MembershipStatus = "expired"
	MembershipRenewed  MembershipStatus = "renewed"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	MemberNumber string `gorm:"size:40;uniqueIndex;not null"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null;default:'member'"`

	MembershipStatus    MembershipStatus `gorm:"size:20;not null;default:'pending'"`
	MembershipExpiresAt *time.Time

	Banned    bool   `gorm:"not null;default:false"`
	BanReason string `gorm:"size:255"`
	BannedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanOrder: only approved (or renewed) members in good standing may
// use the basket/checkout routes. Admins manage, they don't order.
func (u *User) CanOrder() bool {
	if u.Banned {
		return false
	}
	return u.MembershipStatus == MembershipApproved || u.MembershipStatus == MembershipRenewed
}
