package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/rota"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/utils"
)

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := rota.ShiftFilter{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		UserID:    query.Get("userId"),
		TeamID:    query.Get("teamId"),
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

	shifts, err := h.repository.GetAllShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	details := []*domain.ShiftDetail{}
	for _, shift := range rota.FilterShifts(shifts, filter) {
		detail, err := h.shiftDetail(shift)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		details = append(details, detail)
	}

	h.successResponse(w, r, "获取排班列表成功", details)
}

// validateShiftReferences 校验排班引用的用户、团队、班次类型都存在。
func (h *Handler) validateShiftReferences(userID, teamID, shiftTypeID string) error {
	if _, err := h.repository.GetUserByID(userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrReferenceNotFound
		}
		return err
	}
	if _, err := h.repository.GetTeamByID(teamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrReferenceNotFound
		}
		return err
	}
	if _, err := h.repository.GetShiftTypeByID(shiftTypeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrReferenceNotFound
		}
		return err
	}
	return nil
}

// checkShiftConflict 检查同一员工当天是否已有其他排班。
func (h *Handler) checkShiftConflict(userID, shiftDate, excludeID string) error {
	shifts, err := h.repository.GetShiftsByUser(userID)
	if err != nil {
		return err
	}
	if len(rota.ConflictingShifts(shifts, userID, shiftDate, excludeID)) > 0 {
		return domain.ErrSchedulingConflict
	}
	return nil
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"userId" validate:"required"`
		TeamID      string `json:"teamId" validate:"required"`
		ShiftTypeID string `json:"shiftTypeId" validate:"required"`
		ShiftDate   string `json:"shiftDate" validate:"required"`
		Notes       string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShiftDate(req.ShiftDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.validateShiftReferences(req.UserID, req.TeamID, req.ShiftTypeID); err != nil {
		switch {
		case errors.Is(err, domain.ErrReferenceNotFound):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.checkShiftConflict(req.UserID, req.ShiftDate, ""); err != nil {
		switch {
		case errors.Is(err, domain.ErrSchedulingConflict):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	shift := &domain.Shift{
		UserID:      req.UserID,
		TeamID:      req.TeamID,
		ShiftTypeID: req.ShiftTypeID,
		ShiftDate:   req.ShiftDate,
		Status:      domain.ShiftScheduled,
		Notes:       req.Notes,
	}

	if err := h.repository.CreateShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notify(shift.UserID, domain.NotificationScheduleChange, "新排班通知",
		fmt.Sprintf("您在 %s 有新的排班", shift.ShiftDate),
		map[string]any{"shiftId": shift.ID, "shiftDate": shift.ShiftDate})

	detail, err := h.shiftDetail(shift)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班创建成功", detail)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	detail, err := h.shiftDetail(shift)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班成功", detail)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      *string `json:"userId"`
		TeamID      *string `json:"teamId"`
		ShiftTypeID *string `json:"shiftTypeId"`
		ShiftDate   *string `json:"shiftDate"`
		Status      *string `json:"status" validate:"omitempty,oneof=scheduled in_progress completed missed"`
		Notes       *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	rescheduled := false
	reassigned := false

	if req.UserID != nil {
		if *req.UserID != shift.UserID {
			reassigned = true
		}
		shift.UserID = *req.UserID
	}
	if req.TeamID != nil {
		shift.TeamID = *req.TeamID
	}
	if req.ShiftTypeID != nil {
		if *req.ShiftTypeID != shift.ShiftTypeID {
			rescheduled = true
		}
		shift.ShiftTypeID = *req.ShiftTypeID
	}
	if req.ShiftDate != nil {
		if err := utils.ValidateShiftDate(*req.ShiftDate); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if *req.ShiftDate != shift.ShiftDate {
			rescheduled = true
		}
		shift.ShiftDate = *req.ShiftDate
	}
	if req.Status != nil {
		shift.Status = domain.ShiftStatus(*req.Status)
	}
	if req.Notes != nil {
		shift.Notes = *req.Notes
	}

	if err := h.validateShiftReferences(shift.UserID, shift.TeamID, shift.ShiftTypeID); err != nil {
		switch {
		case errors.Is(err, domain.ErrReferenceNotFound):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 只有换人或改期才需要查冲突，排除记录自身；
	// 只改备注之类的更新不应被已有的重复数据挡住
	if reassigned || rescheduled {
		if err := h.checkShiftConflict(shift.UserID, shift.ShiftDate, shift.ID); err != nil {
			switch {
			case errors.Is(err, domain.ErrSchedulingConflict):
				h.errorResponse(w, r, err.Error())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新排班失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if rescheduled {
		h.notify(shift.UserID, domain.NotificationScheduleChange, "排班变更通知",
			fmt.Sprintf("您在 %s 的排班已调整", shift.ShiftDate),
			map[string]any{"shiftId": shift.ID, "shiftDate": shift.ShiftDate})
	}

	detail, err := h.shiftDetail(shift)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新排班成功", detail)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if err := h.repository.DeleteShift(shift.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notify(shift.UserID, domain.NotificationShiftCancellation, "排班取消通知",
		fmt.Sprintf("您在 %s 的排班已取消", shift.ShiftDate),
		map[string]any{"shiftId": shift.ID, "shiftDate": shift.ShiftDate})

	h.successResponse(w, r, "删除排班成功", nil)
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	// Staff 只能为自己的排班打卡，Admin 和 Manager 可以代打
	if identity.RoleName == domain.RoleStaff && shift.UserID != identity.UserID {
		h.errorResponse(w, r, domain.ErrOwnershipViolation.Error())
		return
	}

	now := time.Now()
	shift.ActualStartTime = &now
	shift.Status = domain.ShiftInProgress

	if err := h.repository.UpdateShift(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "打卡失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "上班打卡成功", shift)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if identity.RoleName == domain.RoleStaff && shift.UserID != identity.UserID {
		h.errorResponse(w, r, domain.ErrOwnershipViolation.Error())
		return
	}

	var req struct {
		BreakDuration *int32 `json:"breakDuration" validate:"omitempty,gte=0"`
	}

	// 下班打卡允许空请求体
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	now := time.Now()
	shift.ActualEndTime = &now
	shift.Status = domain.ShiftCompleted

	// 未提供休息时长时记为 0，而不是缺失
	breakDuration := int32(0)
	if req.BreakDuration != nil {
		breakDuration = *req.BreakDuration
	}
	shift.ActualBreakDuration = &breakDuration

	if err := h.repository.UpdateShift(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "打卡失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "下班打卡成功", shift)
}
