package domain

import (
	"time"
)

// 系统实际使用的三种角色。角色名建模为开放字符串，
// 权限检查只依赖 roles 表中的记录，而不是这里的常量。
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleStaff   = "Staff"
)

type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Version     int32     `json:"-"`
}

// Identity 是认证中间件在每个请求上重新解析出来的身份信息。
// 其中的角色和权限来自数据库中的最新记录，而不是令牌中的声明。
type Identity struct {
	UserID      string
	Email       string
	RoleName    string
	Permissions []string
}
