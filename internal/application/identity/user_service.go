package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cotizador/backend/internal/domain/identity"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/cotizador/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateEmail is returned when the email is already registered
	ErrDuplicateEmail = shared.NewDomainError("ALREADY_EXISTS", "El email ya está registrado")
	// ErrDeleteSelf is returned when an admin tries to delete their own account
	ErrDeleteSelf = shared.NewDomainError("INVALID_STATE", "No puede eliminar su propio usuario")
)

// UserService handles user management operations
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new user service. tokenTTL bounds how long a
// user-wide revocation must be remembered.
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &UserService{
		userRepo:  userRepo,
		blacklist: blacklist,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// List returns every user ordered by name
func (s *UserService) List(ctx context.Context) ([]UserInfo, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	infos := make([]UserInfo, len(users))
	for i := range users {
		infos[i] = ToUserInfo(&users[i])
	}
	return infos, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	user, err := identity.NewUser(input.Name, input.Email, input.Password, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	info := ToUserInfo(user)
	return &info, nil
}

// Update changes a user's profile and, when given, their password
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && !sameEmail(input.Email, user.Email) {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
	}

	if err := user.Update(input.Name, input.Email, identity.Role(input.Role)); err != nil {
		return nil, err
	}
	if input.Password != "" {
		if err := user.SetPassword(input.Password); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if input.Password != "" {
		s.revokeTokens(ctx, user.ID)
	}

	info := ToUserInfo(user)
	return &info, nil
}

// Delete removes a user and revokes their tokens
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return ErrDeleteSelf
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeTokens(ctx, id)

	s.logger.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.String("by", actorID.String()))
	return nil
}

// ResetPassword sets a new password for the user with email
func (s *UserService) ResetPassword(ctx context.Context, email, password string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.revokeTokens(ctx, user.ID)

	s.logger.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// revokeTokens invalidates every token issued to the user so far
func (s *UserService) revokeTokens(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.tokenTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
