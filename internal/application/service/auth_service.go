package service

import (
	"context"

	"github.com/shopbill/shopbill-api/internal/domain/entity"
	"github.com/shopbill/shopbill-api/internal/domain/repository"
	"github.com/shopbill/shopbill-api/pkg/apperror"
	"github.com/shopbill/shopbill-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// LoginOutput represents the login output
type LoginOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login authenticates a user by login and password and returns a bearer token
func (s *AuthService) Login(ctx context.Context, login, password string) (*LoginOutput, error) {
	user, err := s.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Login, user.IsSuperuser)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{AccessToken: token, TokenType: "bearer"}, nil
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Login    string
	Email    string
	Phone    string
	Password string
}

// Register creates a new user account and returns a bearer token
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*LoginOutput, error) {
	existing, err := s.userRepo.GetByLogin(ctx, input.Login)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Login already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Login:    input.Login,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: hashed,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Login, user.IsSuperuser)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{AccessToken: token, TokenType: "bearer"}, nil
}

// ChangePassword verifies the old password and stores a new hash
func (s *AuthService) ChangePassword(ctx context.Context, user *entity.User, oldPassword, newPassword string) error {
	if !utils.CheckPasswordHash(oldPassword, user.Password) {
		return apperror.NewBadRequestError("Incorrect password")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

// CurrentUser loads and checks the user referenced by a validated token.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, apperror.ErrInactiveUser
	}
	return user, nil
}
