package postgres

import (
	"context"
	"fmt"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/features"
)

// FeatureRepo serves active modules and enabled feature flags from their
// database tables.
type FeatureRepo struct{ db *DB }

var _ features.ModuleSource = (*FeatureRepo)(nil)
var _ features.FlagSource = (*FeatureRepo)(nil)

func NewFeatureRepo(db *DB) *FeatureRepo { return &FeatureRepo{db: db} }

const (
	qModules = `SELECT key, active FROM modules;`
	qFlags   = `SELECT key, enabled FROM feature_flags;`
)

func (r *FeatureRepo) ActiveModules(ctx context.Context) (map[string]bool, error) {
	return r.boolMap(ctx, qModules)
}

func (r *FeatureRepo) EnabledFlags(ctx context.Context) (map[string]bool, error) {
	return r.boolMap(ctx, qFlags)
}

func (r *FeatureRepo) boolMap(ctx context.Context, query string) (map[string]bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var key string
		var value bool
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	return out, nil
}
