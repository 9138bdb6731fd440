package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	ierrors "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/errors"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users"
)

type UserRepo struct{ db *DB }

var _ users.Repo = (*UserRepo)(nil)

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const (
	userColumns = `id, email, name, role, password_hash, active, created_at, COALESCE(last_login, to_timestamp(0))`

	qUserUpsert = `
INSERT INTO users(id, email, name, role, password_hash, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email,
    name = EXCLUDED.name,
    role = EXCLUDED.role,
    password_hash = EXCLUDED.password_hash,
    active = EXCLUDED.active;
`
	qUserDelete       = `DELETE FROM users WHERE id = $1;`
	qUserSetLastLogin = `UPDATE users SET last_login = $2 WHERE id = $1;`
)

func (r *UserRepo) Upsert(ctx context.Context, user *users.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Pool.Exec(ctx, qUserUpsert,
		user.ID, user.Email, user.Name, string(user.Role), user.PasswordHash, user.Active, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qUserDelete, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1;`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1;`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*users.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u users.User
	var role string
	err := r.db.Pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ierrors.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Role = permissions.Role(role)
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2;`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]*users.User, 0)
	for rows.Next() {
		var u users.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.LastLogin); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = permissions.Role(role)
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *UserRepo) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qUserSetLastLogin, id, at); err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	return nil
}
