package identity

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SeedCaller is the audit name stamped on seeded records
const SeedCaller = "seed"

// RoleSeed is one baseline role. A nil ID lets the repository side generate one.
type RoleSeed struct {
	Name string
	ID   uuid.UUID
}

// UserSeed is one baseline user and the roles it holds
type UserSeed struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	ID        uuid.UUID
	Roles     []string
}

// Seed is an immutable set of baseline roles and users. Accessors return
// copies, so a Seed can be shared freely.
type Seed struct {
	roles []RoleSeed
	users []UserSeed
}

// NewSeed copies roles and users into a Seed
func NewSeed(roles []RoleSeed, users []UserSeed) Seed {
	return Seed{roles: slices.Clone(roles), users: cloneUsers(users)}
}

// DefaultSeed is the baseline every installation starts from: an admin role
// and one administrator account with the given password.
func DefaultSeed(adminPassword string) Seed {
	return NewSeed(
		[]RoleSeed{{Name: "admin"}},
		[]UserSeed{{
			Email:     "admin@example.com",
			FirstName: "Admin",
			LastName:  "User",
			Password:  adminPassword,
			Roles:     []string{"admin"},
		}},
	)
}

func (s Seed) Roles() []RoleSeed { return slices.Clone(s.roles) }
func (s Seed) Users() []UserSeed { return cloneUsers(s.users) }

func cloneUsers(users []UserSeed) []UserSeed {
	out := slices.Clone(users)
	for i := range out {
		out[i].Roles = slices.Clone(out[i].Roles)
	}
	return out
}

// SeedReport counts what a seeding run created
type SeedReport struct {
	RolesCreated int
	UsersCreated int
	LinksCreated int
}

// Seeder applies a Seed. Running it again creates nothing: every record is
// looked up first, and an Add that loses a race to a concurrent run is
// treated as already present.
type Seeder struct {
	openUoW UnitOfWorkFactory
	seed    Seed
	logger  *zap.Logger
	opts    []appshared.ServiceOption
}

// NewSeeder creates a seeder for seed
func NewSeeder(openUoW UnitOfWorkFactory, seed Seed, logger *zap.Logger, opts ...appshared.ServiceOption) *Seeder {
	opts = append([]appshared.ServiceOption{appshared.WithCaller(appshared.FixedCaller(SeedCaller))}, opts...)
	return &Seeder{openUoW: openUoW, seed: seed, logger: logger, opts: opts}
}

// Run applies the seed in one unit of work and commits it
func (s *Seeder) Run(ctx context.Context) (SeedReport, error) {
	report, err := appshared.Run(ctx, s.openUoW, func(uow UnitOfWork) (SeedReport, error) {
		return s.apply(ctx, uow)
	})
	if err != nil {
		return SeedReport{}, err
	}
	s.logger.Info("Seed applied",
		zap.Int("roles_created", report.RolesCreated),
		zap.Int("users_created", report.UsersCreated),
		zap.Int("links_created", report.LinksCreated))
	return report, nil
}

// DryRun reports what Run would create and rolls everything back
func (s *Seeder) DryRun(ctx context.Context) (report SeedReport, err error) {
	uow, err := s.openUoW(ctx)
	if err != nil {
		return SeedReport{}, err
	}
	defer func() {
		err = errors.Join(err, uow.Close())
	}()
	return s.apply(ctx, uow)
}

func (s *Seeder) apply(ctx context.Context, uow UnitOfWork) (SeedReport, error) {
	var report SeedReport

	for _, rs := range s.seed.roles {
		created, err := s.ensureRole(ctx, uow, rs)
		if err != nil {
			return report, err
		}
		if created {
			report.RolesCreated++
		}
	}

	for _, us := range s.seed.users {
		user, created, err := s.ensureUser(ctx, uow, us)
		if err != nil {
			return report, err
		}
		if created {
			report.UsersCreated++
		}
		for _, name := range us.Roles {
			role, err := uow.Roles().FindByName(ctx, name)
			if err != nil {
				return report, err
			}
			if role == nil {
				return report, shared.NewDomainError(shared.ErrNotFound.Code, "Seeded user references unknown role "+name)
			}
			linked, err := linkRole(ctx, uow, user.ID, role.ID, s.opts...)
			if err != nil {
				return report, err
			}
			if linked {
				report.LinksCreated++
			}
		}
	}
	return report, nil
}

func (s *Seeder) ensureRole(ctx context.Context, uow UnitOfWork, rs RoleSeed) (bool, error) {
	existing, err := uow.Roles().FindByName(ctx, rs.Name)
	if err != nil || existing != nil {
		return false, err
	}
	role, err := identity.NewRole(rs.ID, rs.Name)
	if err != nil {
		return false, err
	}
	err = roles(uow, s.opts...).Add(ctx, role, unscoped)
	if errors.Is(err, shared.ErrConflict) {
		return false, nil
	}
	return err == nil, err
}

func (s *Seeder) ensureUser(ctx context.Context, uow UnitOfWork, us UserSeed) (*identity.User, bool, error) {
	existing, err := uow.Users().FindByEmail(ctx, us.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	user, err := identity.NewUser(us.ID, us.Email, us.FirstName, us.LastName, us.Password)
	if err != nil {
		return nil, false, err
	}
	err = users(uow, s.opts...).Add(ctx, user, unscoped)
	if errors.Is(err, shared.ErrConflict) {
		existing, err := uow.Users().FindByEmail(ctx, us.Email)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, shared.NewDomainError(shared.ErrConflict.Code, "Seeded user id is taken by another email")
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
