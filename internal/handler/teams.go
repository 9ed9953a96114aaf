package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func (h *Handler) GetAllTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.repository.GetAllTeams()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取团队列表成功", teams)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		ManagerID   string `json:"managerId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 负责人必须是已存在的用户
	if _, err := h.repository.GetUserByID(req.ManagerID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrReferenceNotFound.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	team := &domain.Team{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
		IsActive:    true,
	}

	if err := h.repository.CreateTeam(team); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "teams_name_key":
				h.badRequest(w, r, errors.New("团队名称已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "团队创建成功", team)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(TeamCtx).(*domain.Team)

	// 团队详情带上成员列表
	links, err := h.repository.GetTeamMembers(team.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	members := []*domain.UserSummary{}
	for _, link := range links {
		member, err := h.userSummary(link.UserID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if member != nil {
			members = append(members, member)
		}
	}

	h.successResponse(w, r, "获取团队信息成功", map[string]any{
		"team":    team,
		"members": members,
	})
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ManagerID   *string `json:"managerId"`
		IsActive    *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	team := r.Context().Value(TeamCtx).(*domain.Team)

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.ManagerID != nil {
		if _, err := h.repository.GetUserByID(*req.ManagerID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, domain.ErrReferenceNotFound.Error())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		team.ManagerID = *req.ManagerID
	}
	if req.IsActive != nil {
		team.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateTeam(team); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新团队信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新团队信息成功", team)
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(TeamCtx).(*domain.Team)

	// 删除团队会一并删除成员关系，但不影响成员用户本身
	if err := h.repository.DeleteTeam(team.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除团队成功", nil)
}

func (h *Handler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(TeamCtx).(*domain.Team)

	var req struct {
		UserID string `json:"userId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.repository.GetUserByID(req.UserID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrReferenceNotFound.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 同一用户在同一团队至多一条成员记录
	links, err := h.repository.GetUserTeams(req.UserID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	for _, link := range links {
		if link.TeamID == team.ID {
			h.errorResponse(w, r, domain.ErrAlreadyMember.Error())
			return
		}
	}

	link := &domain.UserTeam{
		UserID:   req.UserID,
		TeamID:   team.ID,
		JoinedAt: time.Now(),
	}
	if err := h.repository.AddUserToTeam(link); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "添加团队成员成功", link)
}

func (h *Handler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(TeamCtx).(*domain.Team)
	userID := chi.URLParam(r, "userID")

	if err := h.repository.RemoveUserFromTeam(userID, team.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrNotAMember.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "移除团队成员成功", nil)
}
