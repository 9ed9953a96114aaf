package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func (h *Handler) GetMyNotifications(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)

	query := r.URL.Query()
	isRead := query.Get("isRead")
	notificationType := query.Get("type")

	notifications, err := h.repository.GetNotificationsByUser(identity.UserID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	matched := []*domain.Notification{}
	for _, n := range notifications {
		if isRead != "" && (isRead == "true") != n.IsRead {
			continue
		}
		if notificationType != "" && n.Type != notificationType {
			continue
		}
		matched = append(matched, n)
	}

	// 最新的通知排在前面
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	h.successResponse(w, r, "获取通知列表成功", matched)
}

func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)

	count, err := h.repository.CountUnreadNotifications(identity.UserID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取未读数量成功", map[string]int{"count": count})
}

func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string         `json:"userId" validate:"required"`
		// 类型是开放字符串，未知类型由 notifier 决定如何处理
		Type        string         `json:"type" validate:"required"`
		Title       string         `json:"title" validate:"required"`
		Message     string         `json:"message" validate:"required"`
		Metadata    map[string]any `json:"metadata"`
		ScheduledAt *time.Time     `json:"scheduledAt"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	recipient, err := h.repository.GetUserByID(req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, domain.ErrReferenceNotFound.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	n := &domain.Notification{
		UserID:      req.UserID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Metadata:    req.Metadata,
		IsRead:      false,
		ScheduledAt: req.ScheduledAt,
		SentAt:      time.Now(),
	}

	if err := h.repository.CreateNotification(n); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 分发失败不影响通知创建的结果
	h.dispatchNotification(n, recipient)

	h.successResponse(w, r, "通知创建成功", n)
}

func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	n := r.Context().Value(NotificationCtx).(*domain.Notification)
	h.successResponse(w, r, "获取通知成功", n)
}

func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	n := r.Context().Value(NotificationCtx).(*domain.Notification)

	n.IsRead = true
	if err := h.repository.UpdateNotification(n); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "标记已读失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "标记已读成功", n)
}

func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(IdentityCtxKey).(*domain.Identity)

	if err := h.repository.MarkAllNotificationsRead(identity.UserID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "全部标记已读成功", nil)
}
