package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

// permissions 以 JSONB 存储，读写时经过 json 编解码。

func (r *Postgres) CreateRole(role *domain.Role) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	role.ID = uuid.NewString()

	permissions, err := json.Marshal(role.Permissions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO roles (id, name, description, permissions)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, role.ID, role.Name, role.Description, permissions).Scan(&role.CreatedAt, &role.UpdatedAt, &role.Version); err != nil {
		return err
	}

	return nil
}

func (r *Postgres) GetRoleByID(id string) (*domain.Role, error) {
	query := `
		SELECT name, description, permissions, created_at, updated_at, version
		FROM roles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	role := &domain.Role{
		ID: id,
	}

	var permissions []byte
	dst := []any{&role.Name, &role.Description, &permissions, &role.CreatedAt, &role.UpdatedAt, &role.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(permissions, &role.Permissions); err != nil {
		return nil, err
	}

	return role, nil
}

func (r *Postgres) GetRoleByName(name string) (*domain.Role, error) {
	query := `
		SELECT id, description, permissions, created_at, updated_at, version
		FROM roles WHERE name = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	role := &domain.Role{
		Name: name,
	}

	var permissions []byte
	dst := []any{&role.ID, &role.Description, &permissions, &role.CreatedAt, &role.UpdatedAt, &role.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(permissions, &role.Permissions); err != nil {
		return nil, err
	}

	return role, nil
}

func (r *Postgres) GetAllRoles() ([]*domain.Role, error) {
	query := `
		SELECT id, name, description, permissions, created_at, updated_at, version
		FROM roles
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0)
	for rows.Next() {
		role := &domain.Role{}
		var permissions []byte
		dst := []any{&role.ID, &role.Name, &role.Description, &permissions, &role.CreatedAt, &role.UpdatedAt, &role.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(permissions, &role.Permissions); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}
