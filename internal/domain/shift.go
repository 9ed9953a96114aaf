package domain

import (
	"time"
)

type ShiftStatus string

const (
	ShiftScheduled  ShiftStatus = "scheduled"
	ShiftInProgress ShiftStatus = "in_progress"
	ShiftCompleted  ShiftStatus = "completed"
	ShiftMissed     ShiftStatus = "missed"
)

// Shift 是一条排班记录：某个员工在某个日历日按某个班次模板上班。
// ShiftDate 为 "YYYY-MM-DD" 格式，ISO 日期字符串的字典序与时间序一致，
// 因此日期筛选直接用字符串比较。
type Shift struct {
	ID                  string      `json:"id"`
	UserID              string      `json:"userId"`
	TeamID              string      `json:"teamId"`
	ShiftTypeID         string      `json:"shiftTypeId"`
	ShiftDate           string      `json:"shiftDate"`
	ActualStartTime     *time.Time  `json:"actualStartTime,omitempty"`
	ActualEndTime       *time.Time  `json:"actualEndTime,omitempty"`
	ActualBreakDuration *int32      `json:"actualBreakDuration,omitempty"`
	Status              ShiftStatus `json:"status"`
	Notes               string      `json:"notes"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
	Version             int32       `json:"-"`
}

type UserSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// ShiftDetail 是列表与详情接口返回的冗余视图，
// 关联记录已被删除时对应字段为 null。
type ShiftDetail struct {
	*Shift
	User      *UserSummary      `json:"user"`
	Team      *TeamSummary      `json:"team"`
	ShiftType *ShiftTypeSummary `json:"shiftType"`
}
