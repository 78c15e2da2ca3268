package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ems-service/internal/domain"
	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

// RoleRepository is the registry of the fixed roles. Roles are written once at
// bootstrap and read-only afterwards.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	IDByName(ctx context.Context, role domain.Role) (int16, error)
	Count(ctx context.Context) (int64, error)
}

type roleRepository struct {
	db DBTX
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(db DBTX) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role domain.Role) error {
	const query = `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	_, err := r.db.Exec(ctx, query, role.Name())
	return err
}

func (r *roleRepository) IDByName(ctx context.Context, role domain.Role) (int16, error) {
	const query = `SELECT id FROM roles WHERE name=$1`
	var id int16
	if err := r.db.QueryRow(ctx, query, role.Name()).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFound("role", map[string]any{"name": role.Name()})
		}
		return 0, err
	}
	return id, nil
}

func (r *roleRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM roles`
	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
