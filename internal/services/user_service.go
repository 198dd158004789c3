package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/perfhub/performance-hub-api/internal/constants"
	"github.com/perfhub/performance-hub-api/internal/models"
	"github.com/perfhub/performance-hub-api/internal/permissions"
	"github.com/perfhub/performance-hub-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrForbidden          = errors.New("not enough permissions")
	ErrCannotChangeRole   = errors.New("only admins can change role or active status")
	ErrSelfDeleteViaAdmin = errors.New("use the self-delete operation to remove your own account")
)

// UserService handles user account CRUD behind the access-control policy.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUserInput represents input for creating a user account.
type CreateUserInput struct {
	Email    string
	Password string
	Role     models.Role
	IsActive *bool
}

// UpdateUserInput represents a partial update to a user account. Nil fields
// are left untouched.
type UpdateUserInput struct {
	Email    *string
	Password *string
	Role     *models.Role
	IsActive *bool
}

// Get returns a user account if the principal may read it.
func (s *UserService) Get(p permissions.Principal, id uint64) (*models.User, error) {
	if !permissions.AllowsUser(p, permissions.ActionRead, id) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// List returns all user accounts; admin only.
func (s *UserService) List(p permissions.Principal, offset, limit int) ([]models.User, int64, error) {
	if permissions.ScopeFor(p.User.Role, permissions.ResourceUser, permissions.ActionList) != permissions.ScopeAny {
		return nil, 0, ErrForbidden
	}

	users, total, err := s.userRepo.List(offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// Create creates a user account; admin only. The email-uniqueness precheck
// runs before anything is written.
func (s *UserService) Create(p permissions.Principal, input CreateUserInput) (*models.User, error) {
	if permissions.ScopeFor(p.User.Role, permissions.ResourceUser, permissions.ActionCreate) != permissions.ScopeAny {
		return nil, ErrForbidden
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	role := input.Role
	if role == "" {
		role = models.RoleManager
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     true,
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Update applies a partial update to a user account. Non-admins may only
// update themselves and may not touch role or active status.
func (s *UserService) Update(p permissions.Principal, id uint64, input UpdateUserInput) (*models.User, error) {
	if !permissions.AllowsUser(p, permissions.ActionUpdate, id) {
		return nil, ErrForbidden
	}
	if !p.IsAdmin() && (input.Role != nil || input.IsActive != nil) {
		return nil, ErrCannotChangeRole
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email != user.Email {
			if existing, err := s.userRepo.FindByEmail(email); err == nil && existing.ID != user.ID {
				return nil, ErrEmailTaken
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashedPassword)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes a user account through the id-targeted admin path. Deleting
// your own account this way is rejected; only DeleteSelf may do that.
func (s *UserService) Delete(p permissions.Principal, id uint64) error {
	if p.IsAdmin() && id == p.User.ID {
		return ErrSelfDeleteViaAdmin
	}
	if !permissions.AllowsUser(p, permissions.ActionDelete, id) {
		return ErrForbidden
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// DeleteSelf removes the principal's own account. The linked team member
// record survives with its account link cleared.
func (s *UserService) DeleteSelf(p permissions.Principal) error {
	if err := s.userRepo.Delete(p.User.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
