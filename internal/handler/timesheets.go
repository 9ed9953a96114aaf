package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/rota"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/utils"
)

func (h *Handler) GetAllTimesheets(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)

	query := r.URL.Query()
	filter := rota.TimesheetFilter{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		UserID:    query.Get("userId"),
		Status:    query.Get("status"),
	}

	if filter.StartDate != "" {
		if err := utils.ValidateShiftDate(filter.StartDate); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}
	if filter.EndDate != "" {
		if err := utils.ValidateShiftDate(filter.EndDate); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	// Staff 只能看到自己的工时记录，无论传什么筛选条件
	if identity.RoleName == domain.RoleStaff {
		filter.UserID = identity.UserID
	}

	timesheets, err := h.repository.GetAllTimesheets()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	details := []*domain.TimesheetDetail{}
	for _, ts := range rota.FilterTimesheets(timesheets, filter) {
		detail, err := h.timesheetDetail(ts)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		details = append(details, detail)
	}

	h.successResponse(w, r, "获取工时列表成功", details)
}

func (h *Handler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)

	var req struct {
		ShiftID       string     `json:"shiftId" validate:"required"`
		WorkDate      string     `json:"workDate" validate:"required"`
		ClockIn       *time.Time `json:"clockIn"`
		ClockOut      *time.Time `json:"clockOut"`
		BreakDuration int32      `json:"breakDuration" validate:"gte=0"`
		Notes         string     `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShiftDate(req.WorkDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 工时记录只能由班次本人提交，包括管理员在内
	shift, err := h.repository.GetShiftByID(req.ShiftID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrReferenceNotFound.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if shift.UserID != identity.UserID {
		h.errorResponse(w, r, domain.ErrOwnershipViolation.Error())
		return
	}

	regular, overtime := rota.ComputeHours(req.ClockIn, req.ClockOut, req.BreakDuration)

	ts := &domain.Timesheet{
		UserID:        identity.UserID,
		ShiftID:       req.ShiftID,
		WorkDate:      req.WorkDate,
		ClockIn:       req.ClockIn,
		ClockOut:      req.ClockOut,
		BreakDuration: req.BreakDuration,
		RegularHours:  regular,
		OvertimeHours: overtime,
		Status:        domain.TimesheetSubmitted,
		Notes:         req.Notes,
	}

	if err := h.repository.CreateTimesheet(ts); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	detail, err := h.timesheetDetail(ts)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "工时记录提交成功", detail)
}

func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	if identity.RoleName == domain.RoleStaff && ts.UserID != identity.UserID {
		h.errorResponse(w, r, domain.ErrOwnershipViolation.Error())
		return
	}

	detail, err := h.timesheetDetail(ts)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工时记录成功", detail)
}

func (h *Handler) UpdateTimesheet(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	if identity.RoleName == domain.RoleStaff && ts.UserID != identity.UserID {
		h.errorResponse(w, r, domain.ErrOwnershipViolation.Error())
		return
	}

	// approved 是终态，不允许任何修改
	if !rota.Mutable(ts.Status) {
		h.errorResponse(w, r, domain.ErrImmutableRecord.Error())
		return
	}

	var req struct {
		ClockIn       *time.Time `json:"clockIn"`
		ClockOut      *time.Time `json:"clockOut"`
		BreakDuration *int32     `json:"breakDuration" validate:"omitempty,gte=0"`
		Status        *string    `json:"status" validate:"omitempty,oneof=pending submitted"`
		Notes         *string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.ClockIn != nil {
		ts.ClockIn = req.ClockIn
	}
	if req.ClockOut != nil {
		ts.ClockOut = req.ClockOut
	}
	if req.BreakDuration != nil {
		ts.BreakDuration = *req.BreakDuration
	}
	if req.Status != nil {
		ts.Status = domain.TimesheetStatus(*req.Status)
	}
	if req.Notes != nil {
		ts.Notes = *req.Notes
	}

	// 打卡时间或休息时长变化后工时重新计算
	ts.RegularHours, ts.OvertimeHours = rota.ComputeHours(ts.ClockIn, ts.ClockOut, ts.BreakDuration)

	if err := h.repository.UpdateTimesheet(ts); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新工时记录失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	detail, err := h.timesheetDetail(ts)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新工时记录成功", detail)
}

func (h *Handler) ApproveTimesheet(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	var req struct {
		Approved *bool   `json:"approved" validate:"required"`
		Notes    *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 只有 submitted 和 rejected 状态允许审批，approved 不允许重复审批
	if !rota.CanReview(ts.Status) {
		h.errorResponse(w, r, domain.ErrInvalidTransition.Error())
		return
	}

	now := time.Now()
	ts.Status = rota.ReviewStatus(*req.Approved)
	ts.ApprovedBy = &identity.UserID
	ts.ApprovedAt = &now
	if req.Notes != nil {
		ts.Notes = *req.Notes
	}

	if err := h.repository.UpdateTimesheet(ts); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "审批失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if *req.Approved {
		h.notify(ts.UserID, domain.NotificationTimesheetApproved, "工时审批通过",
			fmt.Sprintf("您 %s 的工时记录已审批通过", ts.WorkDate),
			map[string]any{"timesheetId": ts.ID, "workDate": ts.WorkDate})
	} else {
		h.notify(ts.UserID, domain.NotificationTimesheetRejected, "工时审批驳回",
			fmt.Sprintf("您 %s 的工时记录被驳回，可修改后重新提交", ts.WorkDate),
			map[string]any{"timesheetId": ts.ID, "workDate": ts.WorkDate})
	}

	detail, err := h.timesheetDetail(ts)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "审批完成", detail)
}

func (h *Handler) DeleteTimesheet(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	if identity.RoleName == domain.RoleStaff && ts.UserID != identity.UserID {
		h.errorResponse(w, r, domain.ErrOwnershipViolation.Error())
		return
	}

	if !rota.Mutable(ts.Status) {
		h.errorResponse(w, r, domain.ErrImmutableRecord.Error())
		return
	}

	if err := h.repository.DeleteTimesheet(ts.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除工时记录成功", nil)
}
