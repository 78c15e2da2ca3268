package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ems-service/internal/domain"
	"github.com/spec-kit/ems-service/internal/events"
	"github.com/spec-kit/ems-service/internal/repository"
	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

// DepartmentService manages departments. Name uniqueness is checked on create
// and rename; the unique index remains the final arbiter under races.
type DepartmentService struct {
	departments repository.DepartmentRepository
	employees   repository.EmployeeRepository
	dispatcher  events.Dispatcher
}

// NewDepartmentService constructs the service.
func NewDepartmentService(repos repository.Repositories, dispatcher events.Dispatcher) *DepartmentService {
	return &DepartmentService{
		departments: repos.Departments,
		employees:   repos.Employees,
		dispatcher:  dispatcher,
	}
}

// Create persists a new department with a unique name.
func (s *DepartmentService) Create(ctx context.Context, name, description string) (*domain.Department, error) {
	taken, err := s.departments.ExistsByName(ctx, name)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if taken {
		return nil, apperrors.NewConflict("department name already exists", map[string]any{"name": name})
	}

	dept := &domain.Department{Name: name, Description: description}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventDepartmentCreated, events.DepartmentPayload{
		DepartmentID: dept.ID,
		Name:         dept.Name,
	})
	return dept, nil
}

// Get fetches a single department with its derived employee count.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "department", map[string]any{"id": id})
	}
	return dept, nil
}

// List returns all departments.
func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	result, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Update renames a department, rejecting a name already held by another.
func (s *DepartmentService) Update(ctx context.Context, id int64, name, description string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "department", map[string]any{"id": id})
	}

	if name != dept.Name {
		taken, err := s.departments.ExistsByName(ctx, name)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if taken {
			return nil, apperrors.NewConflict("department name already exists", map[string]any{"name": name})
		}
	}

	dept.Name = name
	dept.Description = description
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// Delete removes a department unless employees are still linked to it.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return notFoundIfNoRows(err, "department", map[string]any{"id": id})
	}

	count, err := s.employees.CountByDepartment(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("cannot delete department with existing employees", map[string]any{
			"id":             id,
			"employee_count": count,
		})
	}

	if err := s.departments.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventDepartmentDeleted, events.DepartmentPayload{
		DepartmentID: dept.ID,
		Name:         dept.Name,
	})
	return nil
}

func (s *DepartmentService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
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
