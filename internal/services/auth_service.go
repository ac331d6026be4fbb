package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/repository"
	"github.com/OsGift/focusflow-api/internal/utils"
)

// AuthService provides methods for user authentication and JWT operations
type AuthService struct {
	users     repository.UserRepository
	jwtSecret []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, jwtSecret []byte) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret}
}

// RegisterUser handles user registration
func (s *AuthService) RegisterUser(req models.UserRegisterRequest) (*models.UserResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	now := time.Now()
	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	return &models.UserResponse{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// LoginUser verifies credentials and issues a JWT
func (s *AuthService) LoginUser(req models.UserLoginRequest) (*models.LoginResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, errors.New("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &models.LoginResponse{
		Message: "Login successful",
		Token:   token,
		UserID:  user.ID.Hex(),
	}, nil
}

// UserByID loads a user for the auth middleware
func (s *AuthService) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}
