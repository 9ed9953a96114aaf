package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func (r *Postgres) CreateShiftType(st *domain.ShiftType) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	st.ID = uuid.NewString()

	query := `
		INSERT INTO shift_types (id, name, start_time, end_time, break_duration, color, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at, version
	`

	args := []any{st.ID, st.Name, st.StartTime, st.EndTime, st.BreakDuration, st.Color, st.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.CreatedAt, &st.UpdatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Postgres) GetShiftTypeByID(id string) (*domain.ShiftType, error) {
	query := `
		SELECT name, start_time, end_time, break_duration, color, is_active, created_at, updated_at, version
		FROM shift_types WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	st := &domain.ShiftType{
		ID: id,
	}

	dst := []any{&st.Name, &st.StartTime, &st.EndTime, &st.BreakDuration, &st.Color, &st.IsActive, &st.CreatedAt, &st.UpdatedAt, &st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return st, nil
}

func (r *Postgres) GetAllShiftTypes() ([]*domain.ShiftType, error) {
	query := `
		SELECT id, name, start_time, end_time, break_duration, color, is_active, created_at, updated_at, version
		FROM shift_types
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sts := make([]*domain.ShiftType, 0)
	for rows.Next() {
		st := &domain.ShiftType{}
		dst := []any{&st.ID, &st.Name, &st.StartTime, &st.EndTime, &st.BreakDuration, &st.Color, &st.IsActive, &st.CreatedAt, &st.UpdatedAt, &st.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		sts = append(sts, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sts, nil
}

func (r *Postgres) UpdateShiftType(st *domain.ShiftType) error {
	query := `
		UPDATE shift_types
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			break_duration = $4,
			color = $5,
			is_active = $6,
			updated_at = now(),
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{st.Name, st.StartTime, st.EndTime, st.BreakDuration, st.Color, st.IsActive, st.ID, st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.UpdatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Postgres) DeleteShiftType(id string) error {
	query := `
		DELETE FROM shift_types WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
