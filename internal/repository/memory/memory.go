// Package memory 提供 repository.Repository 的内存实现，
// 行为与数据库实现保持一致：记录不存在返回 sql.ErrNoRows，
// 创建时分配 uuid 并打上 createdAt/updatedAt。
// 所有写操作在同一把互斥锁下串行执行。
package memory

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

type Repository struct {
	mu sync.RWMutex

	users         map[string]*domain.User
	roles         map[string]*domain.Role
	teams         map[string]*domain.Team
	userTeams     map[string]*domain.UserTeam
	shiftTypes    map[string]*domain.ShiftType
	shifts        map[string]*domain.Shift
	timesheets    map[string]*domain.Timesheet
	notifications map[string]*domain.Notification

	lastStamp time.Time
}

func New() *Repository {
	return &Repository{
		users:         make(map[string]*domain.User),
		roles:         make(map[string]*domain.Role),
		teams:         make(map[string]*domain.Team),
		userTeams:     make(map[string]*domain.UserTeam),
		shiftTypes:    make(map[string]*domain.ShiftType),
		shifts:        make(map[string]*domain.Shift),
		timesheets:    make(map[string]*domain.Timesheet),
		notifications: make(map[string]*domain.Notification),
	}
}

// now 返回严格递增的时间戳，保证同一条记录的 updatedAt
// 在连续两次更新之间一定前进，与数据库 now() 的行为对齐。
func (r *Repository) now() time.Time {
	t := time.Now()
	if !t.After(r.lastStamp) {
		t = r.lastStamp.Add(time.Nanosecond)
	}
	r.lastStamp = t
	return t
}

/**********************************************
 * users
 **********************************************/

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *Repository) CreateUser(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = uuid.NewString()
	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Version = 1

	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *Repository) GetUserByID(id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyUser(user), nil
}

func (r *Repository) GetUserByEmail(email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *Repository) GetAllUsers() ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, copyUser(user))
	}
	return users, nil
}

func (r *Repository) UpdateUser(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok || stored.Version != user.Version {
		return sql.ErrNoRows
	}

	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = r.now()
	user.Version = stored.Version + 1

	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *Repository) DeleteUser(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	for linkID, link := range r.userTeams {
		if link.UserID == id {
			delete(r.userTeams, linkID)
		}
	}
	return nil
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

/**********************************************
 * roles
 **********************************************/

func copyRole(role *domain.Role) *domain.Role {
	c := *role
	c.Permissions = append([]string(nil), role.Permissions...)
	return &c
}

func (r *Repository) CreateRole(role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	role.ID = uuid.NewString()
	now := r.now()
	role.CreatedAt = now
	role.UpdatedAt = now
	role.Version = 1

	r.roles[role.ID] = copyRole(role)
	return nil
}

func (r *Repository) GetRoleByID(id string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyRole(role), nil
}

func (r *Repository) GetRoleByName(name string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range r.roles {
		if role.Name == name {
			return copyRole(role), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *Repository) GetAllRoles() ([]*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, copyRole(role))
	}
	return roles, nil
}

/**********************************************
 * teams
 **********************************************/

func copyTeam(team *domain.Team) *domain.Team {
	c := *team
	return &c
}

func (r *Repository) CreateTeam(team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	team.ID = uuid.NewString()
	now := r.now()
	team.CreatedAt = now
	team.UpdatedAt = now
	team.Version = 1

	r.teams[team.ID] = copyTeam(team)
	return nil
}

func (r *Repository) GetTeamByID(id string) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyTeam(team), nil
}

func (r *Repository) GetAllTeams() ([]*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make([]*domain.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, copyTeam(team))
	}
	return teams, nil
}

func (r *Repository) UpdateTeam(team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.teams[team.ID]
	if !ok || stored.Version != team.Version {
		return sql.ErrNoRows
	}

	team.CreatedAt = stored.CreatedAt
	team.UpdatedAt = r.now()
	team.Version = stored.Version + 1

	r.teams[team.ID] = copyTeam(team)
	return nil
}

func (r *Repository) DeleteTeam(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for linkID, link := range r.userTeams {
		if link.TeamID == id {
			delete(r.userTeams, linkID)
		}
	}
	delete(r.teams, id)
	return nil
}

/**********************************************
 * user teams
 **********************************************/

func copyUserTeam(link *domain.UserTeam) *domain.UserTeam {
	c := *link
	return &c
}

func (r *Repository) AddUserToTeam(link *domain.UserTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link.ID = uuid.NewString()
	now := r.now()
	link.JoinedAt = now
	link.CreatedAt = now
	link.UpdatedAt = now

	r.userTeams[link.ID] = copyUserTeam(link)
	return nil
}

func (r *Repository) RemoveUserFromTeam(userID, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for linkID, link := range r.userTeams {
		if link.UserID == userID && link.TeamID == teamID {
			delete(r.userTeams, linkID)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *Repository) GetUserTeams(userID string) ([]*domain.UserTeam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]*domain.UserTeam, 0)
	for _, link := range r.userTeams {
		if link.UserID == userID {
			links = append(links, copyUserTeam(link))
		}
	}
	return links, nil
}

func (r *Repository) GetTeamMembers(teamID string) ([]*domain.UserTeam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]*domain.UserTeam, 0)
	for _, link := range r.userTeams {
		if link.TeamID == teamID {
			links = append(links, copyUserTeam(link))
		}
	}
	return links, nil
}

/**********************************************
 * shift types
 **********************************************/

func copyShiftType(st *domain.ShiftType) *domain.ShiftType {
	c := *st
	return &c
}

func (r *Repository) CreateShiftType(st *domain.ShiftType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st.ID = uuid.NewString()
	now := r.now()
	st.CreatedAt = now
	st.UpdatedAt = now
	st.Version = 1

	r.shiftTypes[st.ID] = copyShiftType(st)
	return nil
}

func (r *Repository) GetShiftTypeByID(id string) (*domain.ShiftType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.shiftTypes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyShiftType(st), nil
}

func (r *Repository) GetAllShiftTypes() ([]*domain.ShiftType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sts := make([]*domain.ShiftType, 0, len(r.shiftTypes))
	for _, st := range r.shiftTypes {
		sts = append(sts, copyShiftType(st))
	}
	return sts, nil
}

func (r *Repository) UpdateShiftType(st *domain.ShiftType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.shiftTypes[st.ID]
	if !ok || stored.Version != st.Version {
		return sql.ErrNoRows
	}

	st.CreatedAt = stored.CreatedAt
	st.UpdatedAt = r.now()
	st.Version = stored.Version + 1

	r.shiftTypes[st.ID] = copyShiftType(st)
	return nil
}

func (r *Repository) DeleteShiftType(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.shiftTypes, id)
	return nil
}

/**********************************************
 * shifts
 **********************************************/

func copyShift(shift *domain.Shift) *domain.Shift {
	c := *shift
	if shift.ActualStartTime != nil {
		t := *shift.ActualStartTime
		c.ActualStartTime = &t
	}
	if shift.ActualEndTime != nil {
		t := *shift.ActualEndTime
		c.ActualEndTime = &t
	}
	if shift.ActualBreakDuration != nil {
		d := *shift.ActualBreakDuration
		c.ActualBreakDuration = &d
	}
	return &c
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	shift.ID = uuid.NewString()
	now := r.now()
	shift.CreatedAt = now
	shift.UpdatedAt = now
	shift.Version = 1

	r.shifts[shift.ID] = copyShift(shift)
	return nil
}

func (r *Repository) GetShiftByID(id string) (*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shift, ok := r.shifts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyShift(shift), nil
}

func (r *Repository) GetAllShifts() ([]*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shifts := make([]*domain.Shift, 0, len(r.shifts))
	for _, shift := range r.shifts {
		shifts = append(shifts, copyShift(shift))
	}
	return shifts, nil
}

func (r *Repository) GetShiftsByUser(userID string) ([]*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shifts := make([]*domain.Shift, 0)
	for _, shift := range r.shifts {
		if shift.UserID == userID {
			shifts = append(shifts, copyShift(shift))
		}
	}
	return shifts, nil
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.shifts[shift.ID]
	if !ok || stored.Version != shift.Version {
		return sql.ErrNoRows
	}

	shift.CreatedAt = stored.CreatedAt
	shift.UpdatedAt = r.now()
	shift.Version = stored.Version + 1

	r.shifts[shift.ID] = copyShift(shift)
	return nil
}

func (r *Repository) DeleteShift(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.shifts, id)
	return nil
}

/**********************************************
 * timesheets
 **********************************************/

func copyTimesheet(ts *domain.Timesheet) *domain.Timesheet {
	c := *ts
	if ts.ClockIn != nil {
		t := *ts.ClockIn
		c.ClockIn = &t
	}
	if ts.ClockOut != nil {
		t := *ts.ClockOut
		c.ClockOut = &t
	}
	if ts.ApprovedBy != nil {
		s := *ts.ApprovedBy
		c.ApprovedBy = &s
	}
	if ts.ApprovedAt != nil {
		t := *ts.ApprovedAt
		c.ApprovedAt = &t
	}
	return &c
}

func (r *Repository) CreateTimesheet(ts *domain.Timesheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts.ID = uuid.NewString()
	now := r.now()
	ts.CreatedAt = now
	ts.UpdatedAt = now
	ts.Version = 1

	r.timesheets[ts.ID] = copyTimesheet(ts)
	return nil
}

func (r *Repository) GetTimesheetByID(id string) (*domain.Timesheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ts, ok := r.timesheets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyTimesheet(ts), nil
}

func (r *Repository) GetAllTimesheets() ([]*domain.Timesheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	timesheets := make([]*domain.Timesheet, 0, len(r.timesheets))
	for _, ts := range r.timesheets {
		timesheets = append(timesheets, copyTimesheet(ts))
	}
	return timesheets, nil
}

func (r *Repository) UpdateTimesheet(ts *domain.Timesheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.timesheets[ts.ID]
	if !ok || stored.Version != ts.Version {
		return sql.ErrNoRows
	}

	ts.CreatedAt = stored.CreatedAt
	ts.UpdatedAt = r.now()
	ts.Version = stored.Version + 1

	r.timesheets[ts.ID] = copyTimesheet(ts)
	return nil
}

func (r *Repository) DeleteTimesheet(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.timesheets, id)
	return nil
}

/**********************************************
 * notifications
 **********************************************/

func copyNotification(n *domain.Notification) *domain.Notification {
	c := *n
	c.Metadata = make(map[string]any, len(n.Metadata))
	for k, v := range n.Metadata {
		c.Metadata[k] = v
	}
	if n.ScheduledAt != nil {
		t := *n.ScheduledAt
		c.ScheduledAt = &t
	}
	return &c
}

func (r *Repository) CreateNotification(n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = uuid.NewString()
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}
	now := r.now()
	n.CreatedAt = now
	n.UpdatedAt = now
	n.Version = 1

	r.notifications[n.ID] = copyNotification(n)
	return nil
}

func (r *Repository) GetNotificationByID(id string) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyNotification(n), nil
}

func (r *Repository) GetNotificationsByUser(userID string) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notifications := make([]*domain.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			notifications = append(notifications, copyNotification(n))
		}
	}
	return notifications, nil
}

func (r *Repository) UpdateNotification(n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.notifications[n.ID]
	if !ok || stored.Version != n.Version {
		return sql.ErrNoRows
	}

	n.CreatedAt = stored.CreatedAt
	n.UpdatedAt = r.now()
	n.Version = stored.Version + 1

	r.notifications[n.ID] = copyNotification(n)
	return nil
}

func (r *Repository) MarkAllNotificationsRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.UpdatedAt = r.now()
			n.Version++
		}
	}
	return nil
}

func (r *Repository) CountUnreadNotifications(userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
