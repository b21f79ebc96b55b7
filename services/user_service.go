package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"storefront-api/apperrors"
	"storefront-api/models"
	"storefront-api/repository"
)

// UserService covers registration, login and the admin user surface.
type UserService struct {
	users       repository.UserRepository
	jwtSecret   string
	jwtExpire   time.Duration
	adminSecret string
}

func NewUserService(users repository.UserRepository, jwtSecret string, jwtExpire time.Duration, adminSecret string) *UserService {
	return &UserService{
		users:       users,
		jwtSecret:   jwtSecret,
		jwtExpire:   jwtExpire,
		adminSecret: adminSecret,
	}
}

// AuthResult is returned by register and login: the user plus a signed
// token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a customer account. Email uniqueness is backed by
// the index, but we check first for a friendlier message.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, *apperrors.Error) {
	return s.register(ctx, req, models.RoleUser)
}

// RegisterAdmin creates an admin account when the shared admin secret
// matches.
func (s *UserService) RegisterAdmin(ctx context.Context, req *models.RegisterRequest) (*AuthResult, *apperrors.Error) {
	if req.AdminSecret != s.adminSecret {
		return nil, apperrors.Forbidden("Invalid admin secret")
	}
	return s.register(ctx, req, models.RoleAdmin)
}

func (s *UserService) register(ctx context.Context, req *models.RegisterRequest, role string) (*AuthResult, *apperrors.Error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("Name, email and password are required")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.Validation("Password must be at least 6 characters")
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Error registering user", err)
	}
	if existing != nil {
		return nil, apperrors.Validation("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Error registering user", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Internal("Error registering user", err)
	}

	token, appErr := s.signToken(user)
	if appErr != nil {
		return nil, appErr
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login checks credentials and issues a token. Wrong email and wrong
// password produce the same message.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, *apperrors.Error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Auth("Invalid email or password")
	}
	if err != nil {
		return nil, apperrors.Internal("Error logging in", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperrors.Auth("Invalid email or password")
	}

	token, appErr := s.signToken(user)
	if appErr != nil {
		return nil, appErr
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, *apperrors.Error) {
	uid, appErr := parseObjectID(id, "user")
	if appErr != nil {
		return nil, appErr
	}
	user, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Error fetching user", err)
	}
	return user, nil
}

// Update patches name, email and phone. Role changes go through
// Promote, not here.
func (s *UserService) Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, *apperrors.Error) {
	user, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		existing, err := s.users.FindByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Internal("Error updating user", err)
		}
		if existing != nil {
			return nil, apperrors.Validation("Email already registered")
		}
		user.Email = req.Email
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.Internal("Error updating user", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, *apperrors.Error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Error fetching users", err)
	}
	return users, nil
}

// DeleteByID removes an account. An admin cannot delete themselves.
func (s *UserService) DeleteByID(ctx context.Context, id, callerID string) (*models.User, *apperrors.Error) {
	if id == callerID {
		return nil, apperrors.Forbidden("You cannot delete your own account")
	}
	user, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if err := s.users.DeleteByID(ctx, user.ID); err != nil {
		return nil, apperrors.Internal("Error deleting user", err)
	}
	return user, nil
}

func (s *UserService) DeleteByEmail(ctx context.Context, email string) (*models.User, *apperrors.Error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Error deleting user", err)
	}
	if err := s.users.DeleteByEmail(ctx, email); err != nil {
		return nil, apperrors.Internal("Error deleting user", err)
	}
	return user, nil
}

// Promote elevates an existing account to admin when the shared admin
// secret matches. Already-admin accounts pass through unchanged.
func (s *UserService) Promote(ctx context.Context, id string, req *models.PromoteRequest) (*models.User, *apperrors.Error) {
	if req.AdminSecret != s.adminSecret {
		return nil, apperrors.Forbidden("Invalid admin secret")
	}

	user, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if user.Role == models.RoleAdmin {
		return user, nil
	}

	user.Role = models.RoleAdmin
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.Internal("Error promoting user", err)
	}
	return user, nil
}

func (s *UserService) signToken(user *models.User) (string, *apperrors.Error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"role":    user.Role,
		"exp":     time.Now().Add(s.jwtExpire).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperrors.Internal("Error generating token", err)
	}
	return signed, nil
}
