package repository

import (
	"database/sql"

	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

// Repository 是各业务集合的持久化契约。记录不存在统一返回
// sql.ErrNoRows，由 handler 层决定对外呈现方式。
// handler 依赖该接口而非具体实现，测试中注入内存实现。
type Repository interface {
	// users
	CreateUser(user *domain.User) error
	GetUserByID(id string) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	GetAllUsers() ([]*domain.User, error)
	UpdateUser(user *domain.User) error
	DeleteUser(id string) error
	CheckEmailIfExists(email string) (bool, error)

	// roles
	CreateRole(role *domain.Role) error
	GetRoleByID(id string) (*domain.Role, error)
	GetRoleByName(name string) (*domain.Role, error)
	GetAllRoles() ([]*domain.Role, error)

	// teams
	CreateTeam(team *domain.Team) error
	GetTeamByID(id string) (*domain.Team, error)
	GetAllTeams() ([]*domain.Team, error)
	UpdateTeam(team *domain.Team) error
	DeleteTeam(id string) error

	// user teams
	AddUserToTeam(link *domain.UserTeam) error
	RemoveUserFromTeam(userID, teamID string) error
	GetUserTeams(userID string) ([]*domain.UserTeam, error)
	GetTeamMembers(teamID string) ([]*domain.UserTeam, error)

	// shift types
	CreateShiftType(st *domain.ShiftType) error
	GetShiftTypeByID(id string) (*domain.ShiftType, error)
	GetAllShiftTypes() ([]*domain.ShiftType, error)
	UpdateShiftType(st *domain.ShiftType) error
	DeleteShiftType(id string) error

	// shifts
	CreateShift(shift *domain.Shift) error
	GetShiftByID(id string) (*domain.Shift, error)
	GetAllShifts() ([]*domain.Shift, error)
	GetShiftsByUser(userID string) ([]*domain.Shift, error)
	UpdateShift(shift *domain.Shift) error
	DeleteShift(id string) error

	// timesheets
	CreateTimesheet(ts *domain.Timesheet) error
	GetTimesheetByID(id string) (*domain.Timesheet, error)
	GetAllTimesheets() ([]*domain.Timesheet, error)
	UpdateTimesheet(ts *domain.Timesheet) error
	DeleteTimesheet(id string) error

	// notifications
	CreateNotification(n *domain.Notification) error
	GetNotificationByID(id string) (*domain.Notification, error)
	GetNotificationsByUser(userID string) ([]*domain.Notification, error)
	UpdateNotification(n *domain.Notification) error
	MarkAllNotificationsRead(userID string) error
	CountUnreadNotifications(userID string) (int, error)
}

// Postgres 是 Repository 的数据库实现。
type Postgres struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewPostgres(cfg *config.Config, dbpool *sql.DB) *Postgres {
	return &Postgres{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
