package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ems-service/internal/domain"
)

// UserRepository defines persistence access for login accounts and their role
// memberships. Lookups are exact-match on the unique fields.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User, roleIDs []int16) error
	Update(ctx context.Context, user *domain.User) error
	ReplaceRoles(ctx context.Context, userID int64, roleIDs []int16) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
        u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
        u.enabled, u.created_at, u.updated_at,
        COALESCE(ARRAY_AGG(r.name) FILTER (WHERE r.name IS NOT NULL), '{}')`

const userJoins = `
        FROM users u
        LEFT JOIN user_roles ur ON ur.user_id = u.id
        LEFT JOIN roles r ON r.id = ur.role_id`

func (r *userRepository) Create(ctx context.Context, user *domain.User, roleIDs []int16) error {
	const query = `
        INSERT INTO users (username, email, password_hash, first_name, last_name, enabled)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Enabled,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "username or email already in use")
	}

	return r.insertRoles(ctx, user.ID, roleIDs)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET username=$1, email=$2, password_hash=$3, first_name=$4,
               last_name=$5, enabled=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Enabled,
		user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "username or email already in use")
	}
	return nil
}

func (r *userRepository) ReplaceRoles(ctx context.Context, userID int64, roleIDs []int16) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_roles WHERE user_id=$1`, userID); err != nil {
		return err
	}
	return r.insertRoles(ctx, userID, roleIDs)
}

func (r *userRepository) insertRoles(ctx context.Context, userID int64, roleIDs []int16) error {
	for _, roleID := range roleIDs {
		const query = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := r.db.Exec(ctx, query, userID, roleID); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT` + userColumns + userJoins + ` WHERE u.id=$1 GROUP BY u.id`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT` + userColumns + userJoins + ` WHERE u.username=$1 GROUP BY u.id`
	return r.scanOne(r.db.QueryRow(ctx, query, username))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT` + userColumns + userJoins + ` WHERE u.email=$1 GROUP BY u.id`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	return exists, err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	return exists, err
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT` + userColumns + userJoins + ` GROUP BY u.id ORDER BY u.id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var roleNames []string
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Enabled,
		&user.CreatedAt,
		&user.UpdatedAt,
		&roleNames,
	); err != nil {
		return nil, err
	}
	roles, _, _ := domain.ParseRoleSet(roleNames)
	user.Roles = roles
	return &user, nil
}
