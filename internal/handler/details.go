package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/queue"
)

// 本文件中的 detail 系列方法把关联 ID 展开成冗余视图。
// 关联记录已被删除时对应字段返回 null，而不是报错。

func (h *Handler) userSummary(userID string) (*domain.UserSummary, error) {
	user, err := h.repository.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.UserSummary{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}, nil
}

func (h *Handler) userDetail(user *domain.User) (*domain.UserDetail, error) {
	detail := &domain.UserDetail{
		User:  user,
		Teams: []domain.TeamSummary{},
	}

	role, err := h.repository.GetRoleByID(user.RoleID)
	if err == nil {
		detail.Role = &domain.RoleSummary{
			Name:        role.Name,
			Permissions: role.Permissions,
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	links, err := h.repository.GetUserTeams(user.ID)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		team, err := h.repository.GetTeamByID(link.TeamID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		detail.Teams = append(detail.Teams, domain.TeamSummary{ID: team.ID, Name: team.Name})
	}

	return detail, nil
}

func (h *Handler) shiftDetail(shift *domain.Shift) (*domain.ShiftDetail, error) {
	detail := &domain.ShiftDetail{Shift: shift}

	user, err := h.userSummary(shift.UserID)
	if err != nil {
		return nil, err
	}
	detail.User = user

	team, err := h.repository.GetTeamByID(shift.TeamID)
	if err == nil {
		detail.Team = &domain.TeamSummary{ID: team.ID, Name: team.Name}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	st, err := h.repository.GetShiftTypeByID(shift.ShiftTypeID)
	if err == nil {
		detail.ShiftType = &domain.ShiftTypeSummary{
			Name:          st.Name,
			StartTime:     st.StartTime,
			EndTime:       st.EndTime,
			BreakDuration: st.BreakDuration,
			Color:         st.Color,
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return detail, nil
}

func (h *Handler) timesheetDetail(ts *domain.Timesheet) (*domain.TimesheetDetail, error) {
	detail := &domain.TimesheetDetail{Timesheet: ts}

	user, err := h.userSummary(ts.UserID)
	if err != nil {
		return nil, err
	}
	detail.User = user

	shift, err := h.repository.GetShiftByID(ts.ShiftID)
	if err == nil {
		summary := &domain.TimesheetShiftSummary{ShiftDate: shift.ShiftDate}
		st, err := h.repository.GetShiftTypeByID(shift.ShiftTypeID)
		if err == nil {
			summary.ShiftType = &domain.ShiftTypeSummary{
				Name:          st.Name,
				StartTime:     st.StartTime,
				EndTime:       st.EndTime,
				BreakDuration: st.BreakDuration,
				Color:         st.Color,
			}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		detail.Shift = summary
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if ts.ApprovedBy != nil {
		approver, err := h.userSummary(*ts.ApprovedBy)
		if err != nil {
			return nil, err
		}
		detail.Approver = approver
	}

	return detail, nil
}

// notify 创建一条通知并投递分发消息。通知是主操作的附带效果，
// 任何一步失败都只记录日志，不影响主操作的结果。
func (h *Handler) notify(userID, notificationType, title, message string, metadata map[string]any) {
	recipient, err := h.repository.GetUserByID(userID)
	if err != nil {
		slog.Error("通知接收人不存在，跳过通知", "userID", userID, "error", err)
		return
	}

	n := &domain.Notification{
		UserID:   userID,
		Type:     notificationType,
		Title:    title,
		Message:  message,
		Metadata: metadata,
		IsRead:   false,
		SentAt:   time.Now(),
	}
	if err := h.repository.CreateNotification(n); err != nil {
		slog.Error("通知创建失败", "userID", userID, "type", notificationType, "error", err)
		return
	}

	h.dispatchNotification(n, recipient)
}

// dispatchNotification 把分发消息投递到 notification_queue。
// 投递失败只记录日志，通知记录本身已经落库。
func (h *Handler) dispatchNotification(n *domain.Notification, recipient *domain.User) {
	dispatch := domain.NotificationDispatch{
		NotificationID: n.ID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		RecipientName:  recipient.FullName(),
		RecipientEmail: recipient.Email,
		Metadata:       n.Metadata,
	}

	body, err := json.Marshal(dispatch)
	if err != nil {
		slog.Error("通知分发消息序列化失败", "notificationID", n.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.publisher.Publish(ctx, queue.NotificationQueue, body); err != nil {
		slog.Error("通知分发消息投递失败", "notificationID", n.ID, "error", err)
	}
}
