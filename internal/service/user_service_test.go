package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ems-service/internal/auth"
	"github.com/spec-kit/ems-service/internal/config"
	"github.com/spec-kit/ems-service/internal/domain"
	"github.com/spec-kit/ems-service/internal/repository"
	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

type userServiceMocks struct {
	users     *MockUserRepository
	roles     *MockRoleRepository
	employees *MockEmployeeRepository
}

func newUserService(t *testing.T) (*UserService, userServiceMocks) {
	t.Helper()
	m := userServiceMocks{
		users:     new(MockUserRepository),
		roles:     new(MockRoleRepository),
		employees: new(MockEmployeeRepository),
	}
	repos := repository.Repositories{
		Users:     m.users,
		Roles:     m.roles,
		Employees: m.employees,
	}
	cfg := config.AuthConfig{JWTSecret: "test-secret", BcryptCost: 4}
	svc := NewUserService(cfg, repos, &stubTxRunner{repos: repos}, nil)
	return svc, m
}

func TestUserCreateDefaultsToEmployeeRole(t *testing.T) {
	svc, m := newUserService(t)

	m.users.On("ExistsByUsername", mock.Anything, "jdoe").Return(false, nil)
	m.users.On("ExistsByEmail", mock.Anything, "jdoe@example.com").Return(false, nil)
	m.roles.On("IDByName", mock.Anything, domain.RoleEmployee).Return(int16(3), nil)
	m.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User"), []int16{3}).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 5
	}).Return(nil)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "s3cret",
		FirstName: "John",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), user.ID)
	assert.True(t, user.Enabled)
	assert.Equal(t, domain.NewRoleSet(domain.RoleEmployee), user.Roles)
	require.NoError(t, auth.ComparePassword(user.PasswordHash, "s3cret"))
	m.users.AssertExpectations(t)
}

func TestUserCreateLinksEmployee(t *testing.T) {
	svc, m := newUserService(t)
	employeeID := int64(10)

	m.users.On("ExistsByUsername", mock.Anything, "jdoe").Return(false, nil)
	m.users.On("ExistsByEmail", mock.Anything, "jdoe@example.com").Return(false, nil)
	m.roles.On("IDByName", mock.Anything, domain.RoleEmployee).Return(int16(3), nil)
	m.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User"), []int16{3}).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 5
	}).Return(nil)
	m.employees.On("LinkUser", mock.Anything, employeeID, int64(5)).Return(nil)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username:   "jdoe",
		Email:      "jdoe@example.com",
		Password:   "s3cret",
		EmployeeID: &employeeID,
	})
	require.NoError(t, err)
	m.employees.AssertExpectations(t)
}

func TestUserCreateLinkUnknownEmployee(t *testing.T) {
	svc, m := newUserService(t)
	employeeID := int64(404)

	m.users.On("ExistsByUsername", mock.Anything, "jdoe").Return(false, nil)
	m.users.On("ExistsByEmail", mock.Anything, "jdoe@example.com").Return(false, nil)
	m.roles.On("IDByName", mock.Anything, domain.RoleEmployee).Return(int16(3), nil)
	m.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User"), []int16{3}).Return(nil)
	m.employees.On("LinkUser", mock.Anything, employeeID, mock.AnythingOfType("int64")).Return(pgx.ErrNoRows)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username:   "jdoe",
		Email:      "jdoe@example.com",
		Password:   "s3cret",
		EmployeeID: &employeeID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestUserCreateUsernameTaken(t *testing.T) {
	svc, m := newUserService(t)

	m.users.On("ExistsByUsername", mock.Anything, "jdoe").Return(true, nil)

	_, err := svc.Create(context.Background(), CreateUserInput{Username: "jdoe", Email: "jdoe@example.com", Password: "s3cret"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	m.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserCreateUnknownRole(t *testing.T) {
	svc, m := newUserService(t)

	m.users.On("ExistsByUsername", mock.Anything, "jdoe").Return(false, nil)
	m.users.On("ExistsByEmail", mock.Anything, "jdoe@example.com").Return(false, nil)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
		Roles:    []string{"WIZARD"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	m.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserUpdatePartialRetainsFields(t *testing.T) {
	svc, m := newUserService(t)

	m.users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{
		ID:        5,
		Username:  "jdoe",
		FirstName: "John",
		LastName:  "Doe",
		Enabled:   true,
		Roles:     domain.NewRoleSet(domain.RoleEmployee),
	}, nil)
	m.users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	enabled := false
	user, err := svc.Update(context.Background(), 5, UpdateUserInput{Enabled: &enabled})
	require.NoError(t, err)

	assert.Equal(t, "John", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)
	assert.False(t, user.Enabled)
	assert.Equal(t, domain.NewRoleSet(domain.RoleEmployee), user.Roles)
	m.users.AssertNotCalled(t, "ReplaceRoles", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserUpdateReplacesRolesWhenSupplied(t *testing.T) {
	svc, m := newUserService(t)

	m.users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{
		ID:      5,
		Enabled: true,
		Roles:   domain.NewRoleSet(domain.RoleEmployee),
	}, nil)
	m.users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	m.roles.On("IDByName", mock.Anything, domain.RoleAdmin).Return(int16(1), nil)
	m.roles.On("IDByName", mock.Anything, domain.RoleManager).Return(int16(2), nil)
	m.users.On("ReplaceRoles", mock.Anything, int64(5), []int16{1, 2}).Return(nil)

	user, err := svc.Update(context.Background(), 5, UpdateUserInput{Roles: []string{"ADMIN", "MANAGER"}})
	require.NoError(t, err)

	assert.Equal(t, domain.NewRoleSet(domain.RoleAdmin, domain.RoleManager), user.Roles)
	m.users.AssertExpectations(t)
}

func TestUserDelete(t *testing.T) {
	svc, m := newUserService(t)

	m.users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)
	m.users.On("Delete", mock.Anything, int64(5)).Return(nil)

	err := svc.Delete(context.Background(), 5)
	require.NoError(t, err)
	m.users.AssertExpectations(t)
}

func TestUserDeleteNotFound(t *testing.T) {
	svc, m := newUserService(t)

	m.users.On("GetByID", mock.Anything, int64(404)).Return(nil, pgx.ErrNoRows)

	err := svc.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
