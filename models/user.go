package models

import "time"

const UserTable = "lib_users"
const RoleTable = "lib_roles"

// Role names are fixed; rows are seeded at migration time.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleUser       = "User"
)

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Role string `gorm:"uniqueIndex;size:50;not null" json:"role"`
}

type User struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Username        string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email           string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password        string `gorm:"size:255;not null" json:"-"`
	IsEmailVerified bool   `gorm:"not null;default:false" json:"isEmailVerified"`
	Gender          string `gorm:"size:20" json:"gender"`
	Phone           string `gorm:"size:30" json:"phone"`
	Address         string `gorm:"size:255" json:"address"`
	Photo           string `gorm:"size:255" json:"photo"`

	RoleID uint `gorm:"index;not null" json:"-"`
	Role   Role `gorm:"foreignKey:RoleID" json:"role"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Role) TableName() string { return RoleTable }
func (User) TableName() string { return UserTable }

func (u *User) RoleName() string { return u.Role.Role }

func (u *User) IsAdmin() bool {
	return u.Role.Role == RoleAdmin || u.Role.Role == RoleSuperAdmin
}
