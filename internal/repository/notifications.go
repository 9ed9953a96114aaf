package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

// metadata 以 JSONB 存储，读写时经过 json 编解码。

func (r *Postgres) CreateNotification(n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	n.ID = uuid.NewString()
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}

	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notifications (id, user_id, type, title, message, metadata, is_read, scheduled_at, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at, version
	`

	args := []any{n.ID, n.UserID, n.Type, n.Title, n.Message, metadata, n.IsRead, n.ScheduledAt, n.SentAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&n.CreatedAt, &n.UpdatedAt, &n.Version); err != nil {
		return err
	}

	return nil
}

func (r *Postgres) GetNotificationByID(id string) (*domain.Notification, error) {
	query := `
		SELECT user_id, type, title, message, metadata, is_read, scheduled_at, sent_at, created_at, updated_at, version
		FROM notifications WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	n := &domain.Notification{
		ID: id,
	}

	var metadata []byte
	dst := []any{&n.UserID, &n.Type, &n.Title, &n.Message, &metadata, &n.IsRead, &n.ScheduledAt, &n.SentAt, &n.CreatedAt, &n.UpdatedAt, &n.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
		return nil, err
	}

	return n, nil
}

func (r *Postgres) GetNotificationsByUser(userID string) ([]*domain.Notification, error) {
	query := `
		SELECT id, type, title, message, metadata, is_read, scheduled_at, sent_at, created_at, updated_at, version
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n := &domain.Notification{
			UserID: userID,
		}
		var metadata []byte
		dst := []any{&n.ID, &n.Type, &n.Title, &n.Message, &metadata, &n.IsRead, &n.ScheduledAt, &n.SentAt, &n.CreatedAt, &n.UpdatedAt, &n.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *Postgres) UpdateNotification(n *domain.Notification) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE notifications
		SET
			title = $1,
			message = $2,
			metadata = $3,
			is_read = $4,
			scheduled_at = $5,
			updated_at = now(),
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{n.Title, n.Message, metadata, n.IsRead, n.ScheduledAt, n.ID, n.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&n.UpdatedAt, &n.Version); err != nil {
		return err
	}

	return nil
}

// MarkAllNotificationsRead 一条语句完成批量已读，避免逐条更新。
func (r *Postgres) MarkAllNotificationsRead(userID string) error {
	query := `
		UPDATE notifications
		SET is_read = true, updated_at = now(), version = version + 1
		WHERE user_id = $1 AND is_read = false
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}

	return nil
}

func (r *Postgres) CountUnreadNotifications(userID string) (int, error) {
	query := `
		SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = false
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	count := 0
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
