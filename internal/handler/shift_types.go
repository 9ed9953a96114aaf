package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/utils"
)

func (h *Handler) GetAllShiftTypes(w http.ResponseWriter, r *http.Request) {
	shiftTypes, err := h.repository.GetAllShiftTypes()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次类型列表成功", shiftTypes)
}

func (h *Handler) CreateShiftType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name" validate:"required"`
		StartTime     string `json:"startTime" validate:"required"`
		EndTime       string `json:"endTime" validate:"required"`
		BreakDuration int32  `json:"breakDuration" validate:"gte=0"`
		Color         string `json:"color"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateClockTime(req.StartTime); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateClockTime(req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := &domain.ShiftType{
		Name:          req.Name,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		BreakDuration: req.BreakDuration,
		Color:         req.Color,
		IsActive:      true,
	}

	if err := h.repository.CreateShiftType(st); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "班次类型创建成功", st)
}

func (h *Handler) GetShiftType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)
	h.successResponse(w, r, "获取班次类型成功", st)
}

func (h *Handler) UpdateShiftType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          *string `json:"name"`
		StartTime     *string `json:"startTime"`
		EndTime       *string `json:"endTime"`
		BreakDuration *int32  `json:"breakDuration" validate:"omitempty,gte=0"`
		Color         *string `json:"color"`
		IsActive      *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.StartTime != nil {
		if err := utils.ValidateClockTime(*req.StartTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
		st.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if err := utils.ValidateClockTime(*req.EndTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
		st.EndTime = *req.EndTime
	}
	if req.BreakDuration != nil {
		st.BreakDuration = *req.BreakDuration
	}
	if req.Color != nil {
		st.Color = *req.Color
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateShiftType(st); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新班次类型失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新班次类型成功", st)
}

func (h *Handler) DeleteShiftType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	if err := h.repository.DeleteShiftType(st.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次类型成功", nil)
}
