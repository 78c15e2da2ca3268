package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ems-service/internal/auth"
	"github.com/spec-kit/ems-service/internal/config"
	"github.com/spec-kit/ems-service/internal/domain"
	"github.com/spec-kit/ems-service/internal/events"
	"github.com/spec-kit/ems-service/internal/repository"
	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

// EmployeeService manages directory records and the optional bundled creation
// of a login account.
type EmployeeService struct {
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	tx          repository.TxRunner
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// NewEmployeeService constructs the service.
func NewEmployeeService(cfg config.AuthConfig, repos repository.Repositories, tx repository.TxRunner, dispatcher events.Dispatcher) *EmployeeService {
	return &EmployeeService{
		employees:   repos.Employees,
		departments: repos.Departments,
		users:       repos.Users,
		tx:          tx,
		dispatcher:  dispatcher,
		bcryptCost:  cfg.BcryptCost,
	}
}

// CreateEmployeeInput carries employee fields plus the optional credentials
// that bundle a User account with the record.
type CreateEmployeeInput struct {
	FirstName    string
	LastName     string
	Email        string
	DepartmentID *int64
	Username     string
	Password     string
	Roles        []string
}

// UpdateEmployeeInput overwrites name and email; a nil DepartmentID clears
// the department link rather than leaving it unchanged.
type UpdateEmployeeInput struct {
	FirstName    string
	LastName     string
	Email        string
	DepartmentID *int64
}

// Create persists a new employee, optionally together with a linked User.
// The user and employee writes share one transaction: a failure anywhere
// leaves nothing persisted.
func (s *EmployeeService) Create(ctx context.Context, in CreateEmployeeInput) (*domain.Employee, error) {
	if in.Username != "" {
		taken, err := s.users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if taken {
			return nil, apperrors.NewConflict("username already exists", map[string]any{"username": in.Username})
		}
	}
	registered, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if registered {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": in.Email})
	}

	var departmentName *string
	if in.DepartmentID != nil {
		dept, err := s.departments.GetByID(ctx, *in.DepartmentID)
		if err != nil {
			return nil, notFoundIfNoRows(err, "department", map[string]any{"id": *in.DepartmentID})
		}
		departmentName = &dept.Name
	}

	employee := &domain.Employee{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		DepartmentID: in.DepartmentID,
	}

	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if in.Username != "" && in.Password != "" {
			roleIDs, err := resolveRoles(ctx, repos.Roles, in.Roles)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(in.Password, s.bcryptCost)
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			roleSet, _, _ := domain.ParseRoleSet(in.Roles)
			if roleSet.IsEmpty() {
				roleSet = domain.NewRoleSet(domain.RoleEmployee)
			}
			user := &domain.User{
				Username:     in.Username,
				Email:        in.Email,
				PasswordHash: hash,
				FirstName:    in.FirstName,
				LastName:     in.LastName,
				Enabled:      true,
				Roles:        roleSet,
			}
			if err := repos.Users.Create(ctx, user, roleIDs); err != nil {
				return err
			}
			employee.UserID = &user.ID
		}
		return repos.Employees.Create(ctx, employee)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	employee.DepartmentName = departmentName
	s.publish(ctx, events.EventEmployeeCreated, events.EmployeePayload{
		EmployeeID:   employee.ID,
		Email:        employee.Email,
		DepartmentID: employee.DepartmentID,
		UserID:       employee.UserID,
	})
	return employee, nil
}

// Get fetches a single employee.
func (s *EmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "employee", map[string]any{"id": id})
	}
	return employee, nil
}

// List returns all employees.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	result, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Update overwrites name and email unconditionally and replaces or clears the
// department link depending on whether a department id was supplied.
func (s *EmployeeService) Update(ctx context.Context, id int64, in UpdateEmployeeInput) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "employee", map[string]any{"id": id})
	}

	var departmentName *string
	if in.DepartmentID != nil {
		dept, err := s.departments.GetByID(ctx, *in.DepartmentID)
		if err != nil {
			return nil, notFoundIfNoRows(err, "department", map[string]any{"id": *in.DepartmentID})
		}
		departmentName = &dept.Name
	}

	employee.FirstName = in.FirstName
	employee.LastName = in.LastName
	employee.Email = in.Email
	employee.DepartmentID = in.DepartmentID
	employee.DepartmentName = departmentName

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// Delete removes the employee. The linked User, if any, is left in place.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return notFoundIfNoRows(err, "employee", map[string]any{"id": id})
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventEmployeeDeleted, events.EmployeePayload{
		EmployeeID: employee.ID,
		Email:      employee.Email,
		UserID:     employee.UserID,
	})
	return nil
}

func (s *EmployeeService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// resolveRoles maps requested role names to registry ids, defaulting to
// EMPLOYEE when no roles were requested. Unknown names fail before any write.
func resolveRoles(ctx context.Context, registry repository.RoleRepository, names []string) ([]int16, error) {
	roleSet, unknown, ok := domain.ParseRoleSet(names)
	if !ok {
		return nil, apperrors.NewNotFound("role", map[string]any{"name": unknown})
	}
	if roleSet.IsEmpty() {
		roleSet = domain.NewRoleSet(domain.RoleEmployee)
	}

	roles := roleSet.Roles()
	roleIDs := make([]int16, 0, len(roles))
	for _, role := range roles {
		id, err := registry.IDByName(ctx, role)
		if err != nil {
			return nil, err
		}
		roleIDs = append(roleIDs, id)
	}
	return roleIDs, nil
}

func notFoundIfNoRows(err error, resource string, details map[string]any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}
