// Package service implements the application's business logic on top of the
// repository layer. Services receive the acting user and consult the policy
// package for every authorization decision.
package service

import (
	"context"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/policy"
	"agora/internal/repository"
	"agora/internal/token"
	"agora/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

func NewUserService(userRepo repository.UserRepository, tokens *token.Manager) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

// Register creates a new customer account and returns it with a fresh
// session token. Role is never taken from the request; every new account
// starts as a customer.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Password: string(hashedPassword),
		Role:     models.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		observability.RecordAuthAttempt("register", "failure")
		return nil, "", err
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	observability.RecordAuthAttempt("register", "success")
	return user, signed, nil
}

// Login authenticates a username/password pair. The failure message never
// reveals whether the username exists.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		observability.RecordAuthAttempt("login", "failure")
		return nil, "", models.NewUnauthenticatedError("Invalid credentials")
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); cmpErr != nil {
		observability.RecordAuthAttempt("login", "failure")
		return nil, "", models.NewUnauthenticatedError("Invalid credentials")
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	observability.RecordAuthAttempt("login", "success")
	return user, signed, nil
}

func (s *UserService) ListUsers(ctx context.Context, actor *models.User, limit, offset int) ([]models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, models.NewUnauthorizedError("Admin privileges required")
	}
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, models.NewUnauthorizedError("Admin privileges required")
	}
	return s.userRepo.GetByID(ctx, id)
}

// UpdateRole changes the target account's role. Admin only.
func (s *UserService) UpdateRole(ctx context.Context, actor *models.User, targetID uint, role string) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, models.NewUnauthorizedError("Admin privileges required")
	}
	if !models.ValidRole(role) {
		return nil, models.NewValidationError("Role must be customer or admin")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account. Authored content survives; only the
// account row goes away.
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, targetID uint) error {
	if !policy.CanManageUsers(actor) {
		return models.NewUnauthorizedError("Admin privileges required")
	}
	return s.userRepo.Delete(ctx, targetID)
}
