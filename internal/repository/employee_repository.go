package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ems-service/internal/domain"
)

// EmployeeRepository manages employee persistence. The department name is
// resolved through a read-time join, never stored on the row.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	LinkUser(ctx context.Context, employeeID, userID int64) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	CountByDepartment(ctx context.Context, departmentID int64) (int64, error)
}

type employeeRepository struct {
	db DBTX
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(db DBTX) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (first_name, last_name, email, department_id, user_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Email,
		employee.DepartmentID,
		employee.UserID,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
	return mapWriteError(err, "employee email or user link already in use")
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees SET first_name=$1, last_name=$2, email=$3,
               department_id=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Email,
		employee.DepartmentID,
		employee.ID,
	).Scan(&employee.UpdatedAt)
	return mapWriteError(err, "employee email already in use")
}

func (r *employeeRepository) LinkUser(ctx context.Context, employeeID, userID int64) error {
	const query = `UPDATE employees SET user_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, userID, employeeID)
	if err != nil {
		return mapWriteError(err, "user already linked to another employee")
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const employeeSelect = `
        SELECT e.id, e.first_name, e.last_name, e.email, e.department_id,
               e.user_id, e.created_at, e.updated_at, d.name
        FROM employees e
        LEFT JOIN departments d ON d.id = e.department_id`

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.db.QueryRow(ctx, employeeSelect+` WHERE e.id=$1`, id).Scan(
		&employee.ID,
		&employee.FirstName,
		&employee.LastName,
		&employee.Email,
		&employee.DepartmentID,
		&employee.UserID,
		&employee.CreatedAt,
		&employee.UpdatedAt,
		&employee.DepartmentName,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.Query(ctx, employeeSelect+` ORDER BY e.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.FirstName,
			&employee.LastName,
			&employee.Email,
			&employee.DepartmentID,
			&employee.UserID,
			&employee.CreatedAt,
			&employee.UpdatedAt,
			&employee.DepartmentName,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}

func (r *employeeRepository) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM employees WHERE department_id=$1`
	var count int64
	if err := r.db.QueryRow(ctx, query, departmentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
