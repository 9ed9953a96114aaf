package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/queue"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	isActive := query.Get("isActive")
	roleID := query.Get("roleId")
	teamID := query.Get("teamId")
	search := strings.ToLower(query.Get("search"))

	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 按团队筛选时先取成员关系，转成集合方便判断
	var teamMembers map[string]bool
	if teamID != "" {
		links, err := h.repository.GetTeamMembers(teamID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		teamMembers = make(map[string]bool, len(links))
		for _, link := range links {
			teamMembers[link.UserID] = true
		}
	}

	details := []*domain.UserDetail{}
	for _, user := range users {
		if isActive != "" && (isActive == "true") != user.IsActive {
			continue
		}
		if roleID != "" && user.RoleID != roleID {
			continue
		}
		if teamMembers != nil && !teamMembers[user.ID] {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(user.FullName()), search) &&
			!strings.Contains(strings.ToLower(user.Email), search) {
			continue
		}

		detail, err := h.userDetail(user)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		details = append(details, detail)
	}

	h.successResponse(w, r, "获取用户列表成功", details)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName   string   `json:"firstName" validate:"required"`
		LastName    string   `json:"lastName" validate:"required"`
		Email       string   `json:"email" validate:"required,email"`
		RoleID      string   `json:"roleId" validate:"required"`
		PhoneNumber string   `json:"phoneNumber"`
		TeamIDs     []string `json:"teamIds"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 邮箱唯一性先在应用层检查一次，数据库约束作为兜底
	exists, err := h.repository.CheckEmailIfExists(req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if exists {
		h.badRequest(w, r, errors.New("邮箱已存在"))
		return
	}

	// 校验角色和团队都存在
	if _, err := h.repository.GetRoleByID(req.RoleID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrReferenceNotFound.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	for _, teamID := range req.TeamIDs {
		if _, err := h.repository.GetTeamByID(teamID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, domain.ErrReferenceNotFound.Error())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	}

	// 生成随机密码
	password := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)

	// 对密码进行哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 插入用户到数据库中
	user := &domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       req.RoleID,
		PhoneNumber:  req.PhoneNumber,
		IsActive:     true,
	}

	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "users_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	for _, teamID := range req.TeamIDs {
		if err := h.repository.AddUserToTeam(&domain.UserTeam{UserID: user.ID, TeamID: teamID, JoinedAt: time.Now()}); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	// 准备邮件
	mailMessage := domain.MailMessage{
		Type: "create_user",
		To:   user.Email,
		Data: domain.CreateUserMailData{
			FullName: user.FullName(),
			Email:    user.Email,
			Password: password,
		},
	}

	// 对邮件进行序列化
	emailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 将邮件发送到消息队列
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.publisher.Publish(ctx, queue.EmailQueue, emailData); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	detail, err := h.userDetail(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "用户创建成功", detail)
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	detail, err := h.userDetail(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取用户信息成功", detail)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName   *string `json:"firstName"`
		LastName    *string `json:"lastName"`
		Email       *string `json:"email" validate:"omitempty,email"`
		RoleID      *string `json:"roleId"`
		PhoneNumber *string `json:"phoneNumber"`
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

	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.RoleID != nil {
		if _, err := h.repository.GetRoleByID(*req.RoleID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, domain.ErrReferenceNotFound.Error())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		user.RoleID = *req.RoleID
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "users_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新用户信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新用户信息成功", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if err := h.repository.DeleteUser(user.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除用户成功", nil)
}

func (h *Handler) UpdateUserPassword(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	var req struct {
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 对密码进行哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user.PasswordHash = string(hashedPassword)
	if err := h.repository.UpdateUser(user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "修改密码成功", nil)
}
