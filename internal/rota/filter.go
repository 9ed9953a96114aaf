package rota

import (
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

// ShiftFilter 中的各条件取合取，零值字段不参与筛选。
// 日期边界直接按字符串比较，ISO 日期的字典序与时间序一致。
type ShiftFilter struct {
	StartDate string
	EndDate   string
	UserID    string
	TeamID    string
	Status    string
}

func (f ShiftFilter) Match(shift *domain.Shift) bool {
	if f.StartDate != "" && shift.ShiftDate < f.StartDate {
		return false
	}
	if f.EndDate != "" && shift.ShiftDate > f.EndDate {
		return false
	}
	if f.UserID != "" && shift.UserID != f.UserID {
		return false
	}
	if f.TeamID != "" && shift.TeamID != f.TeamID {
		return false
	}
	if f.Status != "" && string(shift.Status) != f.Status {
		return false
	}
	return true
}

func FilterShifts(shifts []*domain.Shift, f ShiftFilter) []*domain.Shift {
	matched := make([]*domain.Shift, 0)
	for _, shift := range shifts {
		if f.Match(shift) {
			matched = append(matched, shift)
		}
	}
	return matched
}

type TimesheetFilter struct {
	StartDate string
	EndDate   string
	UserID    string
	Status    string
}

func (f TimesheetFilter) Match(ts *domain.Timesheet) bool {
	if f.StartDate != "" && ts.WorkDate < f.StartDate {
		return false
	}
	if f.EndDate != "" && ts.WorkDate > f.EndDate {
		return false
	}
	if f.UserID != "" && ts.UserID != f.UserID {
		return false
	}
	if f.Status != "" && string(ts.Status) != f.Status {
		return false
	}
	return true
}

func FilterTimesheets(timesheets []*domain.Timesheet, f TimesheetFilter) []*domain.Timesheet {
	matched := make([]*domain.Timesheet, 0)
	for _, ts := range timesheets {
		if f.Match(ts) {
			matched = append(matched, ts)
		}
	}
	return matched
}
