package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, letting the
// same repository code run against the pool or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles every repository bound to one DBTX.
type Repositories struct {
	Users       UserRepository
	Roles       RoleRepository
	Employees   EmployeeRepository
	Departments DepartmentRepository
}

// NewRepositories binds all repositories to the given handle.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Users:       NewUserRepository(db),
		Roles:       NewRoleRepository(db),
		Employees:   NewEmployeeRepository(db),
		Departments: NewDepartmentRepository(db),
	}
}

// TxRunner executes a callback with repositories bound to a single
// transaction. Commit happens only when the callback returns nil; any error
// rolls the whole unit back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}

type pgxTxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the connection pool.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &pgxTxRunner{pool: pool}
}

func (r *pgxTxRunner) WithinTx(ctx context.Context, fn func(Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SQLSTATEs surfaced as conflicts. The database is the final arbiter of
// uniqueness and referential rules under concurrency; pre-checks in services
// only improve error messages.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapWriteError surfaces unique-index violations as conflicts so racing
// creates lose cleanly instead of bubbling a raw driver error.
func mapWriteError(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.NewConflict(conflictMessage, map[string]any{"constraint": pgErr.ConstraintName})
	}
	return err
}

// mapDeleteError surfaces restrict-style FK violations as conflicts, e.g.
// deleting a department that still has employees.
func mapDeleteError(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return apperrors.NewConflict(conflictMessage, map[string]any{"constraint": pgErr.ConstraintName})
	}
	return err
}
