package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func (r *Postgres) CreateTimesheet(ts *domain.Timesheet) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	ts.ID = uuid.NewString()

	query := `
		INSERT INTO timesheets (id, user_id, shift_id, work_date, clock_in, clock_out, break_duration, regular_hours, overtime_hours, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at, version
	`

	args := []any{ts.ID, ts.UserID, ts.ShiftID, ts.WorkDate, ts.ClockIn, ts.ClockOut, ts.BreakDuration, ts.RegularHours, ts.OvertimeHours, ts.Status, ts.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ts.CreatedAt, &ts.UpdatedAt, &ts.Version); err != nil {
		return err
	}

	return nil
}

func (r *Postgres) GetTimesheetByID(id string) (*domain.Timesheet, error) {
	query := `
		SELECT user_id, shift_id, work_date, clock_in, clock_out, break_duration, regular_hours, overtime_hours, status, approved_by, approved_at, notes, created_at, updated_at, version
		FROM timesheets WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	ts := &domain.Timesheet{
		ID: id,
	}

	dst := []any{&ts.UserID, &ts.ShiftID, &ts.WorkDate, &ts.ClockIn, &ts.ClockOut, &ts.BreakDuration, &ts.RegularHours, &ts.OvertimeHours, &ts.Status, &ts.ApprovedBy, &ts.ApprovedAt, &ts.Notes, &ts.CreatedAt, &ts.UpdatedAt, &ts.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return ts, nil
}

func (r *Postgres) GetAllTimesheets() ([]*domain.Timesheet, error) {
	query := `
		SELECT id, user_id, shift_id, work_date, clock_in, clock_out, break_duration, regular_hours, overtime_hours, status, approved_by, approved_at, notes, created_at, updated_at, version
		FROM timesheets
		ORDER BY work_date, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timesheets := make([]*domain.Timesheet, 0)
	for rows.Next() {
		ts := &domain.Timesheet{}
		dst := []any{&ts.ID, &ts.UserID, &ts.ShiftID, &ts.WorkDate, &ts.ClockIn, &ts.ClockOut, &ts.BreakDuration, &ts.RegularHours, &ts.OvertimeHours, &ts.Status, &ts.ApprovedBy, &ts.ApprovedAt, &ts.Notes, &ts.CreatedAt, &ts.UpdatedAt, &ts.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		timesheets = append(timesheets, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return timesheets, nil
}

func (r *Postgres) UpdateTimesheet(ts *domain.Timesheet) error {
	query := `
		UPDATE timesheets
		SET
			work_date = $1,
			clock_in = $2,
			clock_out = $3,
			break_duration = $4,
			regular_hours = $5,
			overtime_hours = $6,
			status = $7,
			approved_by = $8,
			approved_at = $9,
			notes = $10,
			updated_at = now(),
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{ts.WorkDate, ts.ClockIn, ts.ClockOut, ts.BreakDuration, ts.RegularHours, ts.OvertimeHours, ts.Status, ts.ApprovedBy, ts.ApprovedAt, ts.Notes, ts.ID, ts.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ts.UpdatedAt, &ts.Version); err != nil {
		return err
	}

	return nil
}

func (r *Postgres) DeleteTimesheet(id string) error {
	query := `
		DELETE FROM timesheets WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
