package services

import (
	"context"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/errors"
	"shift-tracker/internal/repository/sqlite"
	"shift-tracker/internal/validation"

	"github.com/rs/zerolog"
)

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	repo      sqlite.Repository
	clock     clock.Clock
	mapper    *domain.Mapper
	validator *validation.UserValidator
	log       zerolog.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(deps Dependencies) UserService {
	return &userServiceImpl{
		repo:      deps.Repo,
		clock:     deps.Clock,
		mapper:    domain.NewMapper(),
		validator: validation.NewUserValidatorWithConfig(deps.Config),
		log:       deps.Logger.With().Str("component", "users").Logger(),
	}
}

// CreateUser registers a user with a trimmed name
func (u *userServiceImpl) CreateUser(ctx context.Context, name string, role domain.Role) (*domain.User, error) {
	if err := u.validator.ValidateUserForCreation(name, string(role)); err != nil {
		return nil, errors.NewValidationError("invalid user", err)
	}
	cleanName, _ := u.validator.GetValidName(name)

	row := u.mapper.User.ToDatabase(domain.User{Name: cleanName, Role: role, CreatedAt: u.clock.Now()})
	if err := u.repo.CreateUser(ctx, &row); err != nil {
		return nil, err
	}

	user := u.mapper.User.FromDatabase(row)
	u.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return &user, nil
}

// GetUser retrieves a user by ID
func (u *userServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row, err := u.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user := u.mapper.User.FromDatabase(*row)
	return &user, nil
}

// ListUsers lists users, optionally restricted to roles
func (u *userServiceImpl) ListUsers(ctx context.Context, roles ...domain.Role) ([]*domain.User, error) {
	var rows []*sqlite.User
	var err error
	if len(roles) == 0 {
		rows, err = u.repo.ListUsers(ctx)
	} else {
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		rows, err = u.repo.ListUsersByRole(ctx, names...)
	}
	if err != nil {
		return nil, err
	}
	return u.mapper.User.FromDatabaseSlice(rows), nil
}
