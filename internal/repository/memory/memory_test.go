package memory

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func TestUserRoundTrip(t *testing.T) {
	repo := New()

	user := &domain.User{
		FirstName: "三",
		LastName:  "张",
		Email:     "zhangsan@example.com",
		RoleID:    "r1",
		IsActive:  true,
	}
	require.NoError(t, repo.CreateUser(user))
	require.NotEmpty(t, user.ID)

	got, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.CreatedAt, got.CreatedAt)

	// 每次更新后 updatedAt 必须严格前进，id 和 createdAt 保持不变
	prev := got.UpdatedAt
	for i := 0; i < 3; i++ {
		got.PhoneNumber = "1380000000" + string(rune('0'+i))
		require.NoError(t, repo.UpdateUser(got))
		assert.True(t, got.UpdatedAt.After(prev))
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.CreatedAt, got.CreatedAt)
		prev = got.UpdatedAt
	}
}

func TestUpdateChecksVersion(t *testing.T) {
	repo := New()

	team := &domain.Team{Name: "前台组", IsActive: true}
	require.NoError(t, repo.CreateTeam(team))

	stale := *team
	team.Description = "第一次更新"
	require.NoError(t, repo.UpdateTeam(team))

	// 带着旧 version 的更新应当失败，与数据库乐观锁行为一致
	stale.Description = "过期的更新"
	assert.ErrorIs(t, repo.UpdateTeam(&stale), sql.ErrNoRows)
}

func TestNotFoundIsErrNoRows(t *testing.T) {
	repo := New()

	_, err := repo.GetUserByID("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = repo.GetNotificationByID("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.ErrorIs(t, repo.RemoveUserFromTeam("u1", "t1"), sql.ErrNoRows)
}

func TestDeleteTeamCascadesLinks(t *testing.T) {
	repo := New()

	user := &domain.User{Email: "a@example.com", IsActive: true}
	require.NoError(t, repo.CreateUser(user))
	team := &domain.Team{Name: "夜班组", IsActive: true}
	require.NoError(t, repo.CreateTeam(team))

	require.NoError(t, repo.AddUserToTeam(&domain.UserTeam{UserID: user.ID, TeamID: team.ID}))
	require.NoError(t, repo.DeleteTeam(team.ID))

	links, err := repo.GetUserTeams(user.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	repo := New()

	st := &domain.ShiftType{Name: "早班", StartTime: "09:00", EndTime: "17:00", IsActive: true}
	require.NoError(t, repo.CreateShiftType(st))

	got, err := repo.GetShiftTypeByID(st.ID)
	require.NoError(t, err)
	got.Name = "被调用方修改"

	again, err := repo.GetShiftTypeByID(st.ID)
	require.NoError(t, err)
	assert.Equal(t, "早班", again.Name)
}
