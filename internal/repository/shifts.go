package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func (r *Postgres) CreateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shift.ID = uuid.NewString()

	query := `
		INSERT INTO shifts (id, user_id, team_id, shift_type_id, shift_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at, version
	`

	args := []any{shift.ID, shift.UserID, shift.TeamID, shift.ShiftTypeID, shift.ShiftDate, shift.Status, shift.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.CreatedAt, &shift.UpdatedAt, &shift.Version); err != nil {
		return err
	}

	return nil
}

func (r *Postgres) GetShiftByID(id string) (*domain.Shift, error) {
	query := `
		SELECT user_id, team_id, shift_type_id, shift_date, actual_start_time, actual_end_time, actual_break_duration, status, notes, created_at, updated_at, version
		FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shift := &domain.Shift{
		ID: id,
	}

	dst := []any{&shift.UserID, &shift.TeamID, &shift.ShiftTypeID, &shift.ShiftDate, &shift.ActualStartTime, &shift.ActualEndTime, &shift.ActualBreakDuration, &shift.Status, &shift.Notes, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return shift, nil
}

func (r *Postgres) GetAllShifts() ([]*domain.Shift, error) {
	query := `
		SELECT id, user_id, team_id, shift_type_id, shift_date, actual_start_time, actual_end_time, actual_break_duration, status, notes, created_at, updated_at, version
		FROM shifts
		ORDER BY shift_date, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{}
		dst := []any{&shift.ID, &shift.UserID, &shift.TeamID, &shift.ShiftTypeID, &shift.ShiftDate, &shift.ActualStartTime, &shift.ActualEndTime, &shift.ActualBreakDuration, &shift.Status, &shift.Notes, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Postgres) GetShiftsByUser(userID string) ([]*domain.Shift, error) {
	query := `
		SELECT id, team_id, shift_type_id, shift_date, actual_start_time, actual_end_time, actual_break_duration, status, notes, created_at, updated_at, version
		FROM shifts WHERE user_id = $1
		ORDER BY shift_date, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{
			UserID: userID,
		}
		dst := []any{&shift.ID, &shift.TeamID, &shift.ShiftTypeID, &shift.ShiftDate, &shift.ActualStartTime, &shift.ActualEndTime, &shift.ActualBreakDuration, &shift.Status, &shift.Notes, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Postgres) UpdateShift(shift *domain.Shift) error {
	query := `
		UPDATE shifts
		SET
			user_id = $1,
			team_id = $2,
			shift_type_id = $3,
			shift_date = $4,
			actual_start_time = $5,
			actual_end_time = $6,
			actual_break_duration = $7,
			status = $8,
			notes = $9,
			updated_at = now(),
			version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{shift.UserID, shift.TeamID, shift.ShiftTypeID, shift.ShiftDate, shift.ActualStartTime, shift.ActualEndTime, shift.ActualBreakDuration, shift.Status, shift.Notes, shift.ID, shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.UpdatedAt, &shift.Version); err != nil {
		return err
	}

	return nil
}

// DeleteShift 为硬删除，不检查是否有工时表仍引用该班次，
// 悬空引用在读取时表现为关联字段为 null。
func (r *Postgres) DeleteShift(id string) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
