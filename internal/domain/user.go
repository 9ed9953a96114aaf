package domain

import (
	"time"
)

type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       string    `json:"roleId"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Version      int32     `json:"-"`
}

// FullName 返回用于展示与邮件问候的姓名。
func (u *User) FullName() string {
	return u.LastName + u.FirstName
}

// TeamSummary 与 RoleSummary 用于列表接口中的冗余展示字段。
type TeamSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RoleSummary struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

type UserDetail struct {
	*User
	Role  *RoleSummary  `json:"role"`
	Teams []TeamSummary `json:"teams"`
}
