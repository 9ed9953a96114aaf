package rota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func TestFilterShifts(t *testing.T) {
	shifts := []*domain.Shift{
		{ID: "s1", UserID: "u1", TeamID: "t1", ShiftDate: "2025-03-09", Status: domain.ShiftScheduled},
		{ID: "s2", UserID: "u1", TeamID: "t1", ShiftDate: "2025-03-10", Status: domain.ShiftCompleted},
		{ID: "s3", UserID: "u2", TeamID: "t2", ShiftDate: "2025-03-11", Status: domain.ShiftScheduled},
	}

	t.Run("空筛选返回全部", func(t *testing.T) {
		assert.Len(t, FilterShifts(shifts, ShiftFilter{}), 3)
	})

	t.Run("日期范围为闭区间", func(t *testing.T) {
		matched := FilterShifts(shifts, ShiftFilter{StartDate: "2025-03-10", EndDate: "2025-03-11"})
		assert.Len(t, matched, 2)
		assert.Equal(t, "s2", matched[0].ID)
		assert.Equal(t, "s3", matched[1].ID)
	})

	t.Run("多个条件取合取", func(t *testing.T) {
		matched := FilterShifts(shifts, ShiftFilter{
			StartDate: "2025-03-09",
			EndDate:   "2025-03-11",
			UserID:    "u1",
			Status:    string(domain.ShiftScheduled),
		})
		assert.Len(t, matched, 1)
		assert.Equal(t, "s1", matched[0].ID)
	})

	t.Run("按团队筛选", func(t *testing.T) {
		matched := FilterShifts(shifts, ShiftFilter{TeamID: "t2"})
		assert.Len(t, matched, 1)
		assert.Equal(t, "s3", matched[0].ID)
	})
}

func TestFilterTimesheets(t *testing.T) {
	timesheets := []*domain.Timesheet{
		{ID: "ts1", UserID: "u1", WorkDate: "2025-03-09", Status: domain.TimesheetSubmitted},
		{ID: "ts2", UserID: "u1", WorkDate: "2025-03-10", Status: domain.TimesheetApproved},
		{ID: "ts3", UserID: "u2", WorkDate: "2025-03-10", Status: domain.TimesheetSubmitted},
	}

	matched := FilterTimesheets(timesheets, TimesheetFilter{
		UserID: "u1",
		Status: string(domain.TimesheetSubmitted),
	})
	assert.Len(t, matched, 1)
	assert.Equal(t, "ts1", matched[0].ID)

	matched = FilterTimesheets(timesheets, TimesheetFilter{StartDate: "2025-03-10"})
	assert.Len(t, matched, 2)
}

func TestCanReview(t *testing.T) {
	assert.True(t, CanReview(domain.TimesheetSubmitted))
	assert.True(t, CanReview(domain.TimesheetRejected))
	assert.False(t, CanReview(domain.TimesheetApproved))
	assert.False(t, CanReview(domain.TimesheetPending))
}

func TestReviewStatus(t *testing.T) {
	assert.Equal(t, domain.TimesheetApproved, ReviewStatus(true))
	assert.Equal(t, domain.TimesheetRejected, ReviewStatus(false))
}

func TestMutable(t *testing.T) {
	assert.False(t, Mutable(domain.TimesheetApproved))
	assert.True(t, Mutable(domain.TimesheetSubmitted))
	assert.True(t, Mutable(domain.TimesheetRejected))
}
