package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/repository/memory"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "password123"

type publishedMessage struct {
	Queue string
	Body  []byte
}

type stubPublisher struct {
	published []publishedMessage
	fail      bool
}

func (p *stubPublisher) Publish(_ context.Context, queue string, body []byte) error {
	if p.fail {
		return errors.New("队列不可用")
	}
	p.published = append(p.published, publishedMessage{Queue: queue, Body: body})
	return nil
}

type testEnv struct {
	handler *Handler
	repo    repository.Repository
	pub     *stubPublisher

	adminRoleID   string
	managerRoleID string
	staffRoleID   string

	adminID   string
	managerID string
	staffID   string
	staff2ID  string
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.RabbitMQ.PublishTimeout = 1
	cfg.NewUser.PasswordLength = 12
	cfg.InitialAdmin.Email = "root@example.com"

	repo := memory.New()
	pub := &stubPublisher{}

	h, err := NewHandler(cfg, repo, pub, nil)
	require.NoError(t, err)
	h.RegisterRoutes()

	env := &testEnv{handler: h, repo: repo, pub: pub}

	for _, role := range []struct {
		name string
		dst  *string
	}{
		{domain.RoleAdmin, &env.adminRoleID},
		{domain.RoleManager, &env.managerRoleID},
		{domain.RoleStaff, &env.staffRoleID},
	} {
		record := &domain.Role{Name: role.name}
		require.NoError(t, repo.CreateRole(record))
		*role.dst = record.ID
	}

	env.adminID = env.createUser(t, "admin@example.com", env.adminRoleID)
	env.managerID = env.createUser(t, "manager@example.com", env.managerRoleID)
	env.staffID = env.createUser(t, "staff@example.com", env.staffRoleID)
	env.staff2ID = env.createUser(t, "staff2@example.com", env.staffRoleID)

	return env
}

func (e *testEnv) createUser(t *testing.T, email, roleID string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		FirstName:    "三",
		LastName:     "张",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       roleID,
		IsActive:     true,
	}
	require.NoError(t, e.repo.CreateUser(user))
	return user.ID
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *testResponse {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.Mux.ServeHTTP(rec, req)

	resp := &testResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(resp))
	return resp
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.True(t, resp.Success, resp.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (e *testEnv) createShiftType(t *testing.T, token string) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/shift-types", token, map[string]any{
		"name":          "早班",
		"startTime":     "09:00",
		"endTime":       "17:30",
		"breakDuration": 30,
	})
	require.True(t, resp.Success, resp.Message)

	var st domain.ShiftType
	require.NoError(t, json.Unmarshal(resp.Data, &st))
	return st.ID
}

func (e *testEnv) createTeam(t *testing.T, token string) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/teams", token, map[string]any{
		"name":      "前台组",
		"managerId": e.managerID,
	})
	require.True(t, resp.Success, resp.Message)

	var team domain.Team
	require.NoError(t, json.Unmarshal(resp.Data, &team))
	return team.ID
}

func (e *testEnv) createShift(t *testing.T, token, userID, teamID, shiftTypeID, date string) *testResponse {
	t.Helper()

	return e.do(t, http.MethodPost, "/rota", token, map[string]any{
		"userId":      userID,
		"teamId":      teamID,
		"shiftTypeId": shiftTypeID,
		"shiftDate":   date,
	})
}

func shiftIDFrom(t *testing.T, resp *testResponse) string {
	t.Helper()

	var detail domain.ShiftDetail
	require.NoError(t, json.Unmarshal(resp.Data, &detail))
	return detail.ID
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	// 未知邮箱、密码错误、账号停用，响应信息必须完全一致
	unknown := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": testPassword,
	})
	wrongPassword := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "staff@example.com", "password": "wrong-password",
	})

	staff, err := env.repo.GetUserByID(env.staffID)
	require.NoError(t, err)
	staff.IsActive = false
	require.NoError(t, env.repo.UpdateUser(staff))

	inactive := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "staff@example.com", "password": testPassword,
	})

	assert.False(t, unknown.Success)
	assert.Equal(t, unknown.Message, wrongPassword.Message)
	assert.Equal(t, unknown.Message, inactive.Message)
}

func TestAuthReResolvesRoleFromStore(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "staff@example.com")

	// Staff 无权创建用户
	resp := env.do(t, http.MethodPost, "/users", token, map[string]any{
		"firstName": "四", "lastName": "李", "email": "lisi@example.com", "roleId": env.staffRoleID,
	})
	assert.False(t, resp.Success)
	assert.Equal(t, "权限不足", resp.Message)

	// 提升为 Admin 后，旧 token 立即获得新角色的权限
	staff, err := env.repo.GetUserByID(env.staffID)
	require.NoError(t, err)
	staff.RoleID = env.adminRoleID
	require.NoError(t, env.repo.UpdateUser(staff))

	resp = env.do(t, http.MethodPost, "/users", token, map[string]any{
		"firstName": "四", "lastName": "李", "email": "lisi@example.com", "roleId": env.staffRoleID,
	})
	assert.True(t, resp.Success, resp.Message)

	// 停用账号后旧 token 立即失效
	staff.IsActive = false
	require.NoError(t, env.repo.UpdateUser(staff))

	resp = env.do(t, http.MethodGet, "/my-info", token, nil)
	assert.False(t, resp.Success)
}

func TestCreateShiftRejectsSameDayConflict(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "manager@example.com")

	teamID := env.createTeam(t, env.login(t, "admin@example.com"))
	stID := env.createShiftType(t, env.login(t, "admin@example.com"))

	first := env.createShift(t, token, env.staffID, teamID, stID, "2026-09-01")
	require.True(t, first.Success, first.Message)

	// 同一员工同一天再排班必须失败，换一天或换一个人都可以
	conflict := env.createShift(t, token, env.staffID, teamID, stID, "2026-09-01")
	assert.False(t, conflict.Success)
	assert.Equal(t, domain.ErrSchedulingConflict.Error(), conflict.Message)

	otherDay := env.createShift(t, token, env.staffID, teamID, stID, "2026-09-02")
	assert.True(t, otherDay.Success, otherDay.Message)

	otherUser := env.createShift(t, token, env.staff2ID, teamID, stID, "2026-09-01")
	assert.True(t, otherUser.Success, otherUser.Message)

	// 把 9/2 的排班改到 9/1 同样冲突
	moved := env.do(t, http.MethodPatch, "/rota/"+shiftIDFrom(t, otherDay), token, map[string]any{
		"shiftDate": "2026-09-01",
	})
	assert.False(t, moved.Success)
	assert.Equal(t, domain.ErrSchedulingConflict.Error(), moved.Message)

	// 不改日期的更新不会把自己算作冲突
	notes := env.do(t, http.MethodPatch, "/rota/"+shiftIDFrom(t, first), token, map[string]any{
		"notes": "带新人",
	})
	assert.True(t, notes.Success, notes.Message)
}

func TestCreateShiftValidatesReferences(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")
	teamID := env.createTeam(t, adminToken)
	stID := env.createShiftType(t, adminToken)

	resp := env.createShift(t, adminToken, "missing-user", teamID, stID, "2026-09-01")
	assert.False(t, resp.Success)
	assert.Equal(t, domain.ErrReferenceNotFound.Error(), resp.Message)

	resp = env.createShift(t, adminToken, env.staffID, teamID, "missing-shift-type", "2026-09-01")
	assert.False(t, resp.Success)
	assert.Equal(t, domain.ErrReferenceNotFound.Error(), resp.Message)
}

func TestClockInOwnership(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")
	teamID := env.createTeam(t, adminToken)
	stID := env.createShiftType(t, adminToken)

	resp := env.createShift(t, adminToken, env.staffID, teamID, stID, "2026-09-01")
	require.True(t, resp.Success, resp.Message)
	shiftID := shiftIDFrom(t, resp)

	// 其他 Staff 不能替别人打卡
	other := env.do(t, http.MethodPatch, "/rota/"+shiftID+"/clock-in", env.login(t, "staff2@example.com"), nil)
	assert.False(t, other.Success)
	assert.Equal(t, domain.ErrOwnershipViolation.Error(), other.Message)

	// 本人打卡后状态推进到 in_progress
	own := env.do(t, http.MethodPatch, "/rota/"+shiftID+"/clock-in", env.login(t, "staff@example.com"), nil)
	require.True(t, own.Success, own.Message)

	shift, err := env.repo.GetShiftByID(shiftID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftInProgress, shift.Status)
	assert.NotNil(t, shift.ActualStartTime)

	// Manager 可以代打下班卡
	out := env.do(t, http.MethodPatch, "/rota/"+shiftID+"/clock-out", env.login(t, "manager@example.com"), map[string]any{
		"breakDuration": 30,
	})
	require.True(t, out.Success, out.Message)

	shift, err = env.repo.GetShiftByID(shiftID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftCompleted, shift.Status)
	assert.NotNil(t, shift.ActualEndTime)
}

func TestClockOutWithoutBodyRecordsZeroBreak(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")
	teamID := env.createTeam(t, adminToken)
	stID := env.createShiftType(t, adminToken)

	created := env.createShift(t, adminToken, env.staffID, teamID, stID, "2026-09-01")
	require.True(t, created.Success, created.Message)
	shiftID := shiftIDFrom(t, created)

	staffToken := env.login(t, "staff@example.com")
	in := env.do(t, http.MethodPatch, "/rota/"+shiftID+"/clock-in", staffToken, nil)
	require.True(t, in.Success, in.Message)

	// 不带请求体下班打卡，休息时长应记为 0 而不是缺失
	out := env.do(t, http.MethodPatch, "/rota/"+shiftID+"/clock-out", staffToken, nil)
	require.True(t, out.Success, out.Message)

	shift, err := env.repo.GetShiftByID(shiftID)
	require.NoError(t, err)
	require.NotNil(t, shift.ActualBreakDuration)
	assert.Equal(t, int32(0), *shift.ActualBreakDuration)
}

func TestUpdateShiftSkipsConflictCheckWhenNotRescheduled(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")
	teamID := env.createTeam(t, adminToken)
	stID := env.createShiftType(t, adminToken)

	first := env.createShift(t, adminToken, env.staffID, teamID, stID, "2026-09-01")
	require.True(t, first.Success, first.Message)
	second := env.createShift(t, adminToken, env.staffID, teamID, stID, "2026-09-02")
	require.True(t, second.Success, second.Message)

	// 直接在存储层把第二条改成同一天，模拟并发写入留下的重复数据
	dup, err := env.repo.GetShiftByID(shiftIDFrom(t, second))
	require.NoError(t, err)
	dup.ShiftDate = "2026-09-01"
	require.NoError(t, env.repo.UpdateShift(dup))

	// 只改备注不触发冲突检查，不应被既有的重复数据挡住
	notes := env.do(t, http.MethodPatch, "/rota/"+shiftIDFrom(t, first), adminToken, map[string]any{
		"notes": "带新人",
	})
	assert.True(t, notes.Success, notes.Message)

	// 改期仍然会查冲突
	moved := env.do(t, http.MethodPatch, "/rota/"+shiftIDFrom(t, first), adminToken, map[string]any{
		"shiftDate": "2026-09-02",
	})
	require.True(t, moved.Success, moved.Message)
	back := env.do(t, http.MethodPatch, "/rota/"+shiftIDFrom(t, first), adminToken, map[string]any{
		"shiftDate": "2026-09-01",
	})
	assert.False(t, back.Success)
	assert.Equal(t, domain.ErrSchedulingConflict.Error(), back.Message)
}

func TestCreateNotificationAcceptsOpenType(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")

	// 通知类型是开放字符串，内置之外的类型同样允许创建和分发
	created := env.do(t, http.MethodPost, "/notifications", adminToken, map[string]any{
		"userId":  env.staffID,
		"type":    "system_maintenance",
		"title":   "系统维护",
		"message": "周六凌晨升级，期间无法打卡",
	})
	require.True(t, created.Success, created.Message)

	require.Len(t, env.pub.published, 1)

	var dispatch domain.NotificationDispatch
	require.NoError(t, json.Unmarshal(env.pub.published[0].Body, &dispatch))
	assert.Equal(t, "system_maintenance", dispatch.Type)
}

func TestTimesheetApprovalFlow(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")
	teamID := env.createTeam(t, adminToken)
	stID := env.createShiftType(t, adminToken)

	created := env.createShift(t, adminToken, env.staffID, teamID, stID, "2026-09-01")
	require.True(t, created.Success, created.Message)
	shiftID := shiftIDFrom(t, created)

	staffToken := env.login(t, "staff@example.com")

	// 别人的班次不能提交工时
	foreign := env.do(t, http.MethodPost, "/timesheets", env.login(t, "staff2@example.com"), map[string]any{
		"shiftId": shiftID, "workDate": "2026-09-01",
	})
	assert.False(t, foreign.Success)
	assert.Equal(t, domain.ErrOwnershipViolation.Error(), foreign.Message)

	submitted := env.do(t, http.MethodPost, "/timesheets", staffToken, map[string]any{
		"shiftId":       shiftID,
		"workDate":      "2026-09-01",
		"clockIn":       "2026-09-01T09:00:00Z",
		"clockOut":      "2026-09-01T19:00:00Z",
		"breakDuration": 0,
	})
	require.True(t, submitted.Success, submitted.Message)

	var detail domain.TimesheetDetail
	require.NoError(t, json.Unmarshal(submitted.Data, &detail))
	assert.Equal(t, domain.TimesheetSubmitted, detail.Status)
	assert.Equal(t, 8.0, detail.RegularHours)
	assert.Equal(t, 2.0, detail.OvertimeHours)

	managerToken := env.login(t, "manager@example.com")
	path := "/timesheets/" + detail.ID

	// Staff 无权审批
	denied := env.do(t, http.MethodPatch, path+"/approve", staffToken, map[string]any{"approved": true})
	assert.False(t, denied.Success)
	assert.Equal(t, "权限不足", denied.Message)

	// 驳回后允许修改并重新审批
	rejected := env.do(t, http.MethodPatch, path+"/approve", managerToken, map[string]any{"approved": false, "notes": "打卡时间有误"})
	require.True(t, rejected.Success, rejected.Message)

	ts, err := env.repo.GetTimesheetByID(detail.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TimesheetRejected, ts.Status)

	approved := env.do(t, http.MethodPatch, path+"/approve", managerToken, map[string]any{"approved": true})
	require.True(t, approved.Success, approved.Message)

	ts, err = env.repo.GetTimesheetByID(detail.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TimesheetApproved, ts.Status)
	require.NotNil(t, ts.ApprovedBy)
	assert.Equal(t, env.managerID, *ts.ApprovedBy)
	assert.NotNil(t, ts.ApprovedAt)

	// approved 是终态：不允许重复审批、修改、删除
	again := env.do(t, http.MethodPatch, path+"/approve", managerToken, map[string]any{"approved": false})
	assert.False(t, again.Success)
	assert.Equal(t, domain.ErrInvalidTransition.Error(), again.Message)

	update := env.do(t, http.MethodPatch, path, staffToken, map[string]any{"notes": "改一下"})
	assert.False(t, update.Success)
	assert.Equal(t, domain.ErrImmutableRecord.Error(), update.Message)

	deleted := env.do(t, http.MethodDelete, path, staffToken, nil)
	assert.False(t, deleted.Success)
	assert.Equal(t, domain.ErrImmutableRecord.Error(), deleted.Message)
}

func TestStaffOnlySeesOwnTimesheets(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")
	teamID := env.createTeam(t, adminToken)
	stID := env.createShiftType(t, adminToken)

	for i, userID := range []string{env.staffID, env.staff2ID} {
		created := env.createShift(t, adminToken, userID, teamID, stID, "2026-09-01")
		require.True(t, created.Success, created.Message)

		email := []string{"staff@example.com", "staff2@example.com"}[i]
		resp := env.do(t, http.MethodPost, "/timesheets", env.login(t, email), map[string]any{
			"shiftId": shiftIDFrom(t, created), "workDate": "2026-09-01",
		})
		require.True(t, resp.Success, resp.Message)
	}

	var details []domain.TimesheetDetail

	mine := env.do(t, http.MethodGet, "/timesheets", env.login(t, "staff@example.com"), nil)
	require.True(t, mine.Success, mine.Message)
	require.NoError(t, json.Unmarshal(mine.Data, &details))
	require.Len(t, details, 1)
	assert.Equal(t, env.staffID, details[0].UserID)

	all := env.do(t, http.MethodGet, "/timesheets", adminToken, nil)
	require.True(t, all.Success, all.Message)
	require.NoError(t, json.Unmarshal(all.Data, &details))
	assert.Len(t, details, 2)
}

func TestNotificationOwnershipIsMasked(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")

	created := env.do(t, http.MethodPost, "/notifications", adminToken, map[string]any{
		"userId":  env.staff2ID,
		"type":    domain.NotificationUrgentShift,
		"title":   "紧急排班",
		"message": "今晚需要加班支援",
	})
	require.True(t, created.Success, created.Message)

	var n domain.Notification
	require.NoError(t, json.Unmarshal(created.Data, &n))

	// 别人的通知和不存在的通知必须返回一模一样的信息
	staffToken := env.login(t, "staff@example.com")
	foreign := env.do(t, http.MethodGet, "/notifications/"+n.ID, staffToken, nil)
	missing := env.do(t, http.MethodGet, "/notifications/no-such-id", staffToken, nil)
	assert.False(t, foreign.Success)
	assert.Equal(t, missing.Message, foreign.Message)

	// 本人可以读取并标记已读
	staff2Token := env.login(t, "staff2@example.com")
	own := env.do(t, http.MethodGet, "/notifications/"+n.ID, staff2Token, nil)
	assert.True(t, own.Success, own.Message)

	count := env.do(t, http.MethodGet, "/notifications/unread-count", staff2Token, nil)
	require.True(t, count.Success)
	assert.JSONEq(t, `{"count":1}`, string(count.Data))

	read := env.do(t, http.MethodPatch, "/notifications/"+n.ID+"/read", staff2Token, nil)
	require.True(t, read.Success, read.Message)

	count = env.do(t, http.MethodGet, "/notifications/unread-count", staff2Token, nil)
	require.True(t, count.Success)
	assert.JSONEq(t, `{"count":0}`, string(count.Data))
}

func TestDispatchFailureDoesNotFailOperation(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")
	teamID := env.createTeam(t, adminToken)
	stID := env.createShiftType(t, adminToken)

	// 队列不可用时排班创建依旧成功，通知记录也已落库
	env.pub.fail = true
	created := env.createShift(t, adminToken, env.staffID, teamID, stID, "2026-09-01")
	assert.True(t, created.Success, created.Message)

	notifications, err := env.repo.GetNotificationsByUser(env.staffID)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestShiftCreationDispatchesNotification(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")
	teamID := env.createTeam(t, adminToken)
	stID := env.createShiftType(t, adminToken)

	created := env.createShift(t, adminToken, env.staffID, teamID, stID, "2026-09-01")
	require.True(t, created.Success, created.Message)

	require.Len(t, env.pub.published, 1)
	assert.Equal(t, "notification_queue", env.pub.published[0].Queue)

	var dispatch domain.NotificationDispatch
	require.NoError(t, json.Unmarshal(env.pub.published[0].Body, &dispatch))
	assert.Equal(t, domain.NotificationScheduleChange, dispatch.Type)
	assert.Equal(t, "staff@example.com", dispatch.RecipientEmail)
}

func TestTeamMembership(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")
	teamID := env.createTeam(t, adminToken)

	added := env.do(t, http.MethodPost, fmt.Sprintf("/teams/%s/members", teamID), adminToken, map[string]any{
		"userId": env.staffID,
	})
	require.True(t, added.Success, added.Message)

	// 重复添加和移除非成员都有明确的失败信息
	dup := env.do(t, http.MethodPost, fmt.Sprintf("/teams/%s/members", teamID), adminToken, map[string]any{
		"userId": env.staffID,
	})
	assert.False(t, dup.Success)
	assert.Equal(t, domain.ErrAlreadyMember.Error(), dup.Message)

	notMember := env.do(t, http.MethodDelete, fmt.Sprintf("/teams/%s/members/%s", teamID, env.staff2ID), adminToken, nil)
	assert.False(t, notMember.Success)
	assert.Equal(t, domain.ErrNotAMember.Error(), notMember.Message)

	// 删除团队级联删除成员关系，但成员用户不受影响
	deleted := env.do(t, http.MethodDelete, "/teams/"+teamID, adminToken, nil)
	require.True(t, deleted.Success, deleted.Message)

	links, err := env.repo.GetUserTeams(env.staffID)
	require.NoError(t, err)
	assert.Empty(t, links)

	_, err = env.repo.GetUserByID(env.staffID)
	assert.NoError(t, err)
}

func TestCreateUserSendsWelcomeMail(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin@example.com")

	created := env.do(t, http.MethodPost, "/users", adminToken, map[string]any{
		"firstName": "五",
		"lastName":  "王",
		"email":     "wangwu@example.com",
		"roleId":    env.staffRoleID,
	})
	require.True(t, created.Success, created.Message)

	require.Len(t, env.pub.published, 1)
	assert.Equal(t, "email_queue", env.pub.published[0].Queue)

	var mail domain.MailMessage
	require.NoError(t, json.Unmarshal(env.pub.published[0].Body, &mail))
	assert.Equal(t, "create_user", mail.Type)
	assert.Equal(t, "wangwu@example.com", mail.To)
}

func TestPreventOperateInitialAdmin(t *testing.T) {
	env := newTestEnv(t)
	rootID := env.createUser(t, "root@example.com", env.adminRoleID)
	adminToken := env.login(t, "admin@example.com")

	resp := env.do(t, http.MethodDelete, "/users/"+rootID, adminToken, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "禁止操作初始管理员", resp.Message)

	_, err := env.repo.GetUserByID(rootID)
	assert.NoError(t, err)
}
