package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/utils"
)

// EnsureRole 按名称获取角色，不存在则创建。
func EnsureRole(repo repository.Repository, name, description string) (*domain.Role, error) {
	role, err := repo.GetRoleByName(name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	role = &domain.Role{Name: name, Description: description}
	if err := repo.CreateRole(role); err != nil {
		return nil, err
	}
	return role, nil
}

// SeedUsers 插入 n 个随机员工，统一使用 Staff 角色和同一个初始密码。
func SeedUsers(repo repository.Repository, n int, password, emailDomain string) int {
	role, err := EnsureRole(repo, domain.RoleStaff, "普通员工")
	if err != nil {
		slog.Error("无法获取 Staff 角色", "error", err)
		return 0
	}

	inserted := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(password, emailDomain, role.ID)
		if err != nil {
			slog.Error("无法生成随机用户", "error", err)
			continue
		}

		if err := repo.CreateUser(user); err != nil {
			slog.Error("无法插入用户", "error", err)
			continue
		}
		inserted++
	}

	return inserted
}

var demoShiftTypes = []*domain.ShiftType{
	{Name: "早班", StartTime: "09:00", EndTime: "17:30", BreakDuration: 30, Color: "#4caf50", IsActive: true},
	{Name: "晚班", StartTime: "17:00", EndTime: "23:30", BreakDuration: 30, Color: "#3f51b5", IsActive: true},
	{Name: "全天班", StartTime: "09:00", EndTime: "21:00", BreakDuration: 90, Color: "#ff9800", IsActive: true},
}

// SeedShiftTypes 插入演示用的班次模板。
func SeedShiftTypes(repo repository.Repository) int {
	inserted := 0
	for _, st := range demoShiftTypes {
		record := *st
		if err := repo.CreateShiftType(&record); err != nil {
			slog.Error("无法插入班次类型", "name", st.Name, "error", err)
			continue
		}
		inserted++
	}
	return inserted
}

// SeedTeams 插入 n 个团队，负责人从现有用户中随机挑选，
// 每个团队随机拉入若干成员。
func SeedTeams(repo repository.Repository, n int) int {
	users, err := repo.GetAllUsers()
	if err != nil || len(users) == 0 {
		slog.Error("没有可用的用户，请先插入用户", "error", err)
		return 0
	}

	inserted := 0
	for i := 0; i < n; i++ {
		manager := users[rand.Intn(len(users))]
		team := &domain.Team{
			Name:        fmt.Sprintf("第 %d 小组", i+1),
			Description: "演示数据",
			ManagerID:   manager.ID,
			IsActive:    true,
		}
		if err := repo.CreateTeam(team); err != nil {
			slog.Error("无法插入团队", "error", err)
			continue
		}

		for _, user := range users {
			if rand.Intn(3) != 0 {
				continue
			}
			link := &domain.UserTeam{UserID: user.ID, TeamID: team.ID, JoinedAt: time.Now()}
			if err := repo.AddUserToTeam(link); err != nil {
				slog.Error("无法插入团队成员", "error", err)
			}
		}
		inserted++
	}

	return inserted
}

// SeedRota 为每个用户在接下来 days 天内随机排班，
// 同一员工同一天至多一个班次。
func SeedRota(repo repository.Repository, days int) int {
	users, err := repo.GetAllUsers()
	if err != nil || len(users) == 0 {
		slog.Error("没有可用的用户，请先插入用户", "error", err)
		return 0
	}
	teams, err := repo.GetAllTeams()
	if err != nil || len(teams) == 0 {
		slog.Error("没有可用的团队，请先插入团队", "error", err)
		return 0
	}
	shiftTypes, err := repo.GetAllShiftTypes()
	if err != nil || len(shiftTypes) == 0 {
		slog.Error("没有可用的班次类型，请先插入班次类型", "error", err)
		return 0
	}

	inserted := 0
	for _, user := range users {
		for day := 0; day < days; day++ {
			// 大约三分之二的天数有排班
			if rand.Intn(3) == 0 {
				continue
			}

			shift := &domain.Shift{
				UserID:      user.ID,
				TeamID:      teams[rand.Intn(len(teams))].ID,
				ShiftTypeID: shiftTypes[rand.Intn(len(shiftTypes))].ID,
				ShiftDate:   time.Now().AddDate(0, 0, day).Format("2006-01-02"),
				Status:      domain.ShiftScheduled,
			}
			if err := repo.CreateShift(shift); err != nil {
				slog.Error("无法插入排班", "error", err)
				continue
			}
			inserted++
		}
	}

	return inserted
}
