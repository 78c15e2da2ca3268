package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ems-service/internal/config"
	"github.com/spec-kit/ems-service/internal/domain"
	"github.com/spec-kit/ems-service/internal/repository"
	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

type employeeServiceMocks struct {
	users       *MockUserRepository
	roles       *MockRoleRepository
	employees   *MockEmployeeRepository
	departments *MockDepartmentRepository
}

func newEmployeeService(t *testing.T) (*EmployeeService, employeeServiceMocks) {
	t.Helper()
	m := employeeServiceMocks{
		users:       new(MockUserRepository),
		roles:       new(MockRoleRepository),
		employees:   new(MockEmployeeRepository),
		departments: new(MockDepartmentRepository),
	}
	repos := repository.Repositories{
		Users:       m.users,
		Roles:       m.roles,
		Employees:   m.employees,
		Departments: m.departments,
	}
	cfg := config.AuthConfig{JWTSecret: "test-secret", BcryptCost: 4}
	svc := NewEmployeeService(cfg, repos, &stubTxRunner{repos: repos}, nil)
	return svc, m
}

func TestEmployeeCreateWithoutCredentials(t *testing.T) {
	svc, m := newEmployeeService(t)
	deptID := int64(3)

	m.users.On("ExistsByEmail", mock.Anything, "jdoe@example.com").Return(false, nil)
	m.departments.On("GetByID", mock.Anything, deptID).Return(&domain.Department{ID: deptID, Name: "Engineering"}, nil)
	m.employees.On("Create", mock.Anything, mock.AnythingOfType("*domain.Employee")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Employee).ID = 10
	}).Return(nil)

	employee, err := svc.Create(context.Background(), CreateEmployeeInput{
		FirstName:    "John",
		LastName:     "Doe",
		Email:        "jdoe@example.com",
		DepartmentID: &deptID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), employee.ID)
	assert.Nil(t, employee.UserID)
	require.NotNil(t, employee.DepartmentName)
	assert.Equal(t, "Engineering", *employee.DepartmentName)
	m.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	m.employees.AssertExpectations(t)
}

func TestEmployeeCreateWithBundledAccount(t *testing.T) {
	svc, m := newEmployeeService(t)

	m.users.On("ExistsByUsername", mock.Anything, "jdoe").Return(false, nil)
	m.users.On("ExistsByEmail", mock.Anything, "jdoe@example.com").Return(false, nil)
	m.roles.On("IDByName", mock.Anything, domain.RoleManager).Return(int16(2), nil)
	m.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User"), []int16{2}).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 5
	}).Return(nil)
	m.employees.On("Create", mock.Anything, mock.AnythingOfType("*domain.Employee")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Employee).ID = 10
	}).Return(nil)

	employee, err := svc.Create(context.Background(), CreateEmployeeInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "jdoe@example.com",
		Username:  "jdoe",
		Password:  "s3cret",
		Roles:     []string{"MANAGER"},
	})
	require.NoError(t, err)

	require.NotNil(t, employee.UserID)
	assert.Equal(t, int64(5), *employee.UserID)
	m.users.AssertExpectations(t)
	m.employees.AssertExpectations(t)
}

func TestEmployeeCreateDefaultsToEmployeeRole(t *testing.T) {
	svc, m := newEmployeeService(t)

	m.users.On("ExistsByUsername", mock.Anything, "jdoe").Return(false, nil)
	m.users.On("ExistsByEmail", mock.Anything, "jdoe@example.com").Return(false, nil)
	m.roles.On("IDByName", mock.Anything, domain.RoleEmployee).Return(int16(3), nil)
	m.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Roles.Has(domain.RoleEmployee) && !u.Roles.Has(domain.RoleAdmin)
	}), []int16{3}).Return(nil)
	m.employees.On("Create", mock.Anything, mock.AnythingOfType("*domain.Employee")).Return(nil)

	_, err := svc.Create(context.Background(), CreateEmployeeInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "jdoe@example.com",
		Username:  "jdoe",
		Password:  "s3cret",
	})
	require.NoError(t, err)
	m.users.AssertExpectations(t)
}

func TestEmployeeCreateUsernameConflict(t *testing.T) {
	svc, m := newEmployeeService(t)

	m.users.On("ExistsByUsername", mock.Anything, "jdoe").Return(true, nil)

	_, err := svc.Create(context.Background(), CreateEmployeeInput{
		Email:    "jdoe@example.com",
		Username: "jdoe",
		Password: "s3cret",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	m.employees.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEmployeeCreateUnknownDepartment(t *testing.T) {
	svc, m := newEmployeeService(t)
	deptID := int64(404)

	m.users.On("ExistsByEmail", mock.Anything, "jdoe@example.com").Return(false, nil)
	m.departments.On("GetByID", mock.Anything, deptID).Return(nil, pgx.ErrNoRows)

	_, err := svc.Create(context.Background(), CreateEmployeeInput{
		Email:        "jdoe@example.com",
		DepartmentID: &deptID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	m.employees.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEmployeeCreateUnknownRoleFailsBeforeWrites(t *testing.T) {
	svc, m := newEmployeeService(t)

	m.users.On("ExistsByUsername", mock.Anything, "jdoe").Return(false, nil)
	m.users.On("ExistsByEmail", mock.Anything, "jdoe@example.com").Return(false, nil)

	_, err := svc.Create(context.Background(), CreateEmployeeInput{
		Email:    "jdoe@example.com",
		Username: "jdoe",
		Password: "s3cret",
		Roles:    []string{"WIZARD"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	m.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	m.employees.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEmployeeUpdateClearsDepartmentWhenAbsent(t *testing.T) {
	svc, m := newEmployeeService(t)
	deptID := int64(3)

	m.employees.On("GetByID", mock.Anything, int64(10)).Return(&domain.Employee{
		ID:           10,
		FirstName:    "John",
		LastName:     "Doe",
		Email:        "jdoe@example.com",
		DepartmentID: &deptID,
	}, nil)
	m.employees.On("Update", mock.Anything, mock.MatchedBy(func(e *domain.Employee) bool {
		return e.DepartmentID == nil
	})).Return(nil)

	employee, err := svc.Update(context.Background(), 10, UpdateEmployeeInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "jdoe@example.com",
	})
	require.NoError(t, err)
	assert.Nil(t, employee.DepartmentID)
	m.employees.AssertExpectations(t)
}

func TestEmployeeUpdateNotFound(t *testing.T) {
	svc, m := newEmployeeService(t)

	m.employees.On("GetByID", mock.Anything, int64(404)).Return(nil, pgx.ErrNoRows)

	_, err := svc.Update(context.Background(), 404, UpdateEmployeeInput{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestEmployeeDeleteLeavesLinkedUser(t *testing.T) {
	svc, m := newEmployeeService(t)
	userID := int64(5)

	m.employees.On("GetByID", mock.Anything, int64(10)).Return(&domain.Employee{
		ID:     10,
		Email:  "jdoe@example.com",
		UserID: &userID,
	}, nil)
	m.employees.On("Delete", mock.Anything, int64(10)).Return(nil)

	err := svc.Delete(context.Background(), 10)
	require.NoError(t, err)
	m.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	m.employees.AssertExpectations(t)
}
