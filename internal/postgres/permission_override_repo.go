package postgres

import (
	"context"
	"fmt"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
)

// PermissionOverrideRepo is the dynamic tier of permission resolution: rows
// in role_permissions override the static default table per role.
type PermissionOverrideRepo struct{ db *DB }

var _ permissions.OverrideSource = (*PermissionOverrideRepo)(nil)

func NewPermissionOverrideRepo(db *DB) *PermissionOverrideRepo {
	return &PermissionOverrideRepo{db: db}
}

const qOverrides = `SELECT capability, allowed FROM role_permissions WHERE role = $1;`

func (r *PermissionOverrideRepo) Overrides(ctx context.Context, role permissions.Role) (map[permissions.Capability]bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qOverrides, string(role))
	if err != nil {
		return nil, fmt.Errorf("query role permissions: %w", err)
	}
	defer rows.Close()

	out := make(map[permissions.Capability]bool)
	for rows.Next() {
		var capability string
		var allowed bool
		if err := rows.Scan(&capability, &allowed); err != nil {
			return nil, fmt.Errorf("scan role permission: %w", err)
		}
		out[permissions.Capability(capability)] = allowed
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query role permissions: %w", err)
	}
	return out, nil
}
