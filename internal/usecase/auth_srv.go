package usecase

import (
	"context"
	"errors"
	"fmt"

	"computer-booking/internal/data/entity"
	"computer-booking/internal/data/repository"
	"computer-booking/internal/dto/request"
	"computer-booking/internal/dto/response"
	"computer-booking/pkg/apperror"
	"computer-booking/pkg/clock"
	"computer-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
	// EnsureAdmin creates the administrator account if the username is free.
	EnsureAdmin(ctx context.Context, username, password string) error
}

type authService struct {
	repo   *repository.Repository
	tokens *utils.TokenManager
	clock  clock.Clock
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens *utils.TokenManager,
	clk clock.Clock,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		clock:  clk,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(utils.FormatValidationErrors(errs), utils.ValidationDetails(errs))
	}

	// 2. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	// 3. Save user; the unique index decides username races
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Fullname:     req.Fullname,
		Email:        req.Email,
		Role:         entity.RoleUser,
		GroupName:    entity.DefaultGroup,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, apperror.Validation("Username already exists", map[string]any{"Username": "Already taken"})
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &response.RegisterResponse{
		Message: "User registered successfully",
		UserID:  user.ID.String(),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(utils.FormatValidationErrors(errs), utils.ValidationDetails(errs))
	}

	// 2. Find user
	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	// 3. Check password; unknown user and wrong password look the same
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.log.Warn("Login failed", zap.String("username", req.Username))
		return nil, apperror.InvalidCredentials()
	}

	// 4. Banned accounts keep their data but cannot sign in
	if user.Banned {
		s.log.Warn("Login by banned user", zap.String("user_id", user.ID.String()))
		return nil, apperror.AccountBanned()
	}

	// 5. Issue token
	token, expiresAt, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      response.UserToResponse(user),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.Validation(utils.FormatValidationErrors(errs), utils.ValidationDetails(errs))
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if user == nil {
		return apperror.AuthRequired()
	}
	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperror.InvalidCredentials()
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.User.UpdatePassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		Username:     username,
		PasswordHash: hashed,
		Fullname:     "Administrator",
		Role:         entity.RoleAdmin,
		GroupName:    entity.DefaultGroup,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil
		}
		return fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info("Administrator account created", zap.String("username", username))
	return nil
}
