package bootstrap

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ems-service/internal/auth"
	"github.com/spec-kit/ems-service/internal/config"
	"github.com/spec-kit/ems-service/internal/domain"
	"github.com/spec-kit/ems-service/internal/repository"
)

// Seeder populates the role registry and the default admin account on an
// empty store. Both steps are idempotent: a second run changes nothing.
type Seeder struct {
	tx         repository.TxRunner
	seedCfg    config.SeedConfig
	bcryptCost int
	logger     *zap.Logger
}

// NewSeeder constructs the seeder.
func NewSeeder(tx repository.TxRunner, seedCfg config.SeedConfig, authCfg config.AuthConfig, logger *zap.Logger) *Seeder {
	return &Seeder{
		tx:         tx,
		seedCfg:    seedCfg,
		bcryptCost: authCfg.BcryptCost,
		logger:     logger,
	}
}

// Run seeds roles when none exist, then the admin user when no users exist.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.seedCfg.Enabled {
		return nil
	}

	return s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		roleCount, err := repos.Roles.Count(ctx)
		if err != nil {
			return err
		}
		if roleCount == 0 {
			for _, role := range domain.AllRoles() {
				if err := repos.Roles.Create(ctx, role); err != nil {
					return err
				}
			}
			s.logger.Info("roles initialized", zap.Int("count", len(domain.AllRoles())))
		}

		userCount, err := repos.Users.Count(ctx)
		if err != nil {
			return err
		}
		if userCount > 0 {
			return nil
		}

		hash, err := auth.HashPassword(s.seedCfg.AdminPassword, s.bcryptCost)
		if err != nil {
			return err
		}
		adminID, err := repos.Roles.IDByName(ctx, domain.RoleAdmin)
		if err != nil {
			return err
		}

		admin := &domain.User{
			Username:     s.seedCfg.AdminUsername,
			Email:        s.seedCfg.AdminEmail,
			PasswordHash: hash,
			FirstName:    "System",
			LastName:     "Administrator",
			Enabled:      true,
			Roles:        domain.NewRoleSet(domain.RoleAdmin),
		}
		if err := repos.Users.Create(ctx, admin, []int16{adminID}); err != nil {
			return err
		}
		s.logger.Info("default admin user created", zap.String("username", admin.Username))
		return nil
	})
}
