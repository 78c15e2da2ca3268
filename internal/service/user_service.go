package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ems-service/internal/auth"
	"github.com/spec-kit/ems-service/internal/config"
	"github.com/spec-kit/ems-service/internal/domain"
	"github.com/spec-kit/ems-service/internal/events"
	"github.com/spec-kit/ems-service/internal/repository"
	apperrors "github.com/spec-kit/ems-service/pkg/util"
)

// UserService manages login accounts independent of the employee directory.
type UserService struct {
	users      repository.UserRepository
	employees  repository.EmployeeRepository
	tx         repository.TxRunner
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, repos repository.Repositories, tx repository.TxRunner, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		users:      repos.Users,
		employees:  repos.Employees,
		tx:         tx,
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// CreateUserInput carries the fields for a new account. EmployeeID optionally
// links the account to an existing employee record.
type CreateUserInput struct {
	Username   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Roles      []string
	EmployeeID *int64
}

// UpdateUserInput applies a partial update: nil fields retain their prior
// value; roles are replaced only when at least one name is supplied.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Enabled   *bool
	Roles     []string
}

// Create persists a new user and its role memberships, optionally linking an
// existing employee, all within one transaction.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if taken {
		return nil, apperrors.NewConflict("username is already taken", map[string]any{"username": in.Username})
	}
	registered, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if registered {
		return nil, apperrors.NewConflict("email is already in use", map[string]any{"email": in.Email})
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	roleSet, unknown, ok := domain.ParseRoleSet(in.Roles)
	if !ok {
		return nil, apperrors.NewNotFound("role", map[string]any{"name": unknown})
	}
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

	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		roleIDs, err := resolveRoles(ctx, repos.Roles, in.Roles)
		if err != nil {
			return err
		}
		if err := repos.Users.Create(ctx, user, roleIDs); err != nil {
			return err
		}
		if in.EmployeeID != nil {
			if err := repos.Employees.LinkUser(ctx, *in.EmployeeID, user.ID); err != nil {
				return notFoundIfNoRows(err, "employee", map[string]any{"id": *in.EmployeeID})
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserCreated, events.UserPayload{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.Roles.Authorities(),
	})
	return user, nil
}

// Get fetches a single user.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "user", map[string]any{"id": id})
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	result, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Update applies the partial update, replacing role memberships only when
// roles were supplied.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "user", map[string]any{"id": id})
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Enabled != nil {
		user.Enabled = *in.Enabled
	}

	replaceRoles := len(in.Roles) > 0
	if replaceRoles {
		roleSet, unknown, ok := domain.ParseRoleSet(in.Roles)
		if !ok {
			return nil, apperrors.NewNotFound("role", map[string]any{"name": unknown})
		}
		user.Roles = roleSet
	}

	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		if replaceRoles {
			roleIDs, err := resolveRoles(ctx, repos.Roles, in.Roles)
			if err != nil {
				return err
			}
			return repos.Users.ReplaceRoles(ctx, user.ID, roleIDs)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes the user. An employee pointing at it loses its login link;
// the employee record itself is untouched.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return notFoundIfNoRows(err, "user", map[string]any{"id": id})
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
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
