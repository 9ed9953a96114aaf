package domain

import (
	"time"
)

// 通知类型决定 notifier 将通知分发到哪个外部渠道。
const (
	NotificationShiftReminder     = "shift_reminder"
	NotificationScheduleChange    = "schedule_change"
	NotificationTimesheetApproved = "timesheet_approved"
	NotificationTimesheetRejected = "timesheet_rejected"
	NotificationUrgentShift       = "urgent_shift"
	NotificationShiftCancellation = "shift_cancellation"
)

type Notification struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata"`
	IsRead      bool           `json:"isRead"`
	ScheduledAt *time.Time     `json:"scheduledAt,omitempty"`
	SentAt      time.Time      `json:"sentAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Version     int32          `json:"-"`
}

// NotificationDispatch 是发往 notification_queue 的分发消息，
// notifier 根据 Type 选择外部渠道。
type NotificationDispatch struct {
	NotificationID string         `json:"notificationId"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	RecipientName  string         `json:"recipientName"`
	RecipientEmail string         `json:"recipientEmail"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
