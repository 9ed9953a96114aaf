package domain

import (
	"time"
)

type TimesheetStatus string

const (
	TimesheetPending   TimesheetStatus = "pending"
	TimesheetSubmitted TimesheetStatus = "submitted"
	TimesheetApproved  TimesheetStatus = "approved"
	TimesheetRejected  TimesheetStatus = "rejected"
)

// Timesheet 是员工针对某个班次提交的实际工时记录。
// 状态一旦变为 approved，记录即不可修改、不可删除。
type Timesheet struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	ShiftID       string          `json:"shiftId"`
	WorkDate      string          `json:"workDate"`
	ClockIn       *time.Time      `json:"clockIn,omitempty"`
	ClockOut      *time.Time      `json:"clockOut,omitempty"`
	BreakDuration int32           `json:"breakDuration"`
	RegularHours  float64         `json:"regularHours"`
	OvertimeHours float64         `json:"overtimeHours"`
	Status        TimesheetStatus `json:"status"`
	ApprovedBy    *string         `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Version       int32           `json:"-"`
}

type TimesheetShiftSummary struct {
	ShiftDate string            `json:"shiftDate"`
	ShiftType *ShiftTypeSummary `json:"shiftType"`
}

type TimesheetDetail struct {
	*Timesheet
	User     *UserSummary           `json:"user"`
	Shift    *TimesheetShiftSummary `json:"shift"`
	Approver *UserSummary           `json:"approver"`
}
