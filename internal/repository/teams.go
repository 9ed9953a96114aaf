package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func (r *Postgres) CreateTeam(team *domain.Team) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	team.ID = uuid.NewString()

	query := `
		INSERT INTO teams (id, name, description, manager_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at, version
	`

	args := []any{team.ID, team.Name, team.Description, team.ManagerID, team.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&team.CreatedAt, &team.UpdatedAt, &team.Version); err != nil {
		return err
	}

	return nil
}

func (r *Postgres) GetTeamByID(id string) (*domain.Team, error) {
	query := `
		SELECT name, description, manager_id, is_active, created_at, updated_at, version
		FROM teams WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	team := &domain.Team{
		ID: id,
	}

	dst := []any{&team.Name, &team.Description, &team.ManagerID, &team.IsActive, &team.CreatedAt, &team.UpdatedAt, &team.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return team, nil
}

func (r *Postgres) GetAllTeams() ([]*domain.Team, error) {
	query := `
		SELECT id, name, description, manager_id, is_active, created_at, updated_at, version
		FROM teams
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*domain.Team, 0)
	for rows.Next() {
		team := &domain.Team{}
		dst := []any{&team.ID, &team.Name, &team.Description, &team.ManagerID, &team.IsActive, &team.CreatedAt, &team.UpdatedAt, &team.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *Postgres) UpdateTeam(team *domain.Team) error {
	query := `
		UPDATE teams
		SET
			name = $1,
			description = $2,
			manager_id = $3,
			is_active = $4,
			updated_at = now(),
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{team.Name, team.Description, team.ManagerID, team.IsActive, team.ID, team.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&team.UpdatedAt, &team.Version); err != nil {
		return err
	}

	return nil
}

// DeleteTeam 先级联删除团队的全部成员关联，再删除团队本身，
// 两步在同一事务中完成，不会留下孤儿 user_teams 记录。
func (r *Postgres) DeleteTeam(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_teams WHERE team_id = $1`, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Postgres) AddUserToTeam(link *domain.UserTeam) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	link.ID = uuid.NewString()

	query := `
		INSERT INTO user_teams (id, user_id, team_id, joined_at)
		VALUES ($1, $2, $3, now())
		RETURNING joined_at, created_at, updated_at
	`

	if err := r.dbpool.QueryRowContext(ctx, query, link.ID, link.UserID, link.TeamID).Scan(&link.JoinedAt, &link.CreatedAt, &link.UpdatedAt); err != nil {
		return err
	}

	return nil
}

// RemoveUserFromTeam 在关联不存在时返回 sql.ErrNoRows。
func (r *Postgres) RemoveUserFromTeam(userID, teamID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM user_teams WHERE user_id = $1 AND team_id = $2
	`

	result, err := r.dbpool.ExecContext(ctx, query, userID, teamID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *Postgres) GetUserTeams(userID string) ([]*domain.UserTeam, error) {
	query := `
		SELECT id, team_id, joined_at, created_at, updated_at
		FROM user_teams WHERE user_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*domain.UserTeam, 0)
	for rows.Next() {
		link := &domain.UserTeam{
			UserID: userID,
		}
		dst := []any{&link.ID, &link.TeamID, &link.JoinedAt, &link.CreatedAt, &link.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return links, nil
}

func (r *Postgres) GetTeamMembers(teamID string) ([]*domain.UserTeam, error) {
	query := `
		SELECT id, user_id, joined_at, created_at, updated_at
		FROM user_teams WHERE team_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*domain.UserTeam, 0)
	for rows.Next() {
		link := &domain.UserTeam{
			TeamID: teamID,
		}
		dst := []any{&link.ID, &link.UserID, &link.JoinedAt, &link.CreatedAt, &link.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return links, nil
}
