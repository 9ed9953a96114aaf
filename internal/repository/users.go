package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func (r *Postgres) CreateUser(user *domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user.ID = uuid.NewString()

	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, role_id, phone_number, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at, version
	`

	args := []any{user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.RoleID, user.PhoneNumber, user.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.CreatedAt, &user.UpdatedAt, &user.Version); err != nil {
		return err
	}

	return nil
}

func (r *Postgres) GetUserByID(id string) (*domain.User, error) {
	query := `
		SELECT first_name, last_name, email, password_hash, role_id, phone_number, is_active, created_at, updated_at, version
		FROM users WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		ID: id,
	}

	dst := []any{&user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.RoleID, &user.PhoneNumber, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Postgres) GetUserByEmail(email string) (*domain.User, error) {
	query := `
		SELECT id, first_name, last_name, password_hash, role_id, phone_number, is_active, created_at, updated_at, version
		FROM users WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		Email: email,
	}

	dst := []any{&user.ID, &user.FirstName, &user.LastName, &user.PasswordHash, &user.RoleID, &user.PhoneNumber, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Postgres) GetAllUsers() ([]*domain.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role_id, phone_number, is_active, created_at, updated_at, version
		FROM users
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		dst := []any{&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.RoleID, &user.PhoneNumber, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Postgres) UpdateUser(user *domain.User) error {
	query := `
		UPDATE users
		SET
			first_name = $1,
			last_name = $2,
			email = $3,
			password_hash = $4,
			role_id = $5,
			phone_number = $6,
			is_active = $7,
			updated_at = now(),
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{user.FirstName, user.LastName, user.Email, user.PasswordHash, user.RoleID, user.PhoneNumber, user.IsActive, user.ID, user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.UpdatedAt, &user.Version); err != nil {
		return err
	}

	return nil
}

// DeleteUser 删除用户的同时清理其所有团队关联，保持引用整洁。
func (r *Postgres) DeleteUser(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_teams WHERE user_id = $1`, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Postgres) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
