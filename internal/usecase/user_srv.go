package usecase

import (
	"context"
	"fmt"

	"computer-booking/internal/data/entity"
	"computer-booking/internal/data/repository"
	"computer-booking/internal/dto/response"
	"computer-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

// GetProfile returns the user with the quota the allocator would apply.
func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User")
	}

	group, err := s.repo.Group.FindByName(ctx, user.GroupName)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	live, err := s.repo.Booking.FindLiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	used := 0
	for _, b := range live {
		used += b.Slots()
	}

	maxBookings := entity.EffectiveMaxBookings(user, group)
	return &response.ProfileResponse{
		UserResponse:         response.UserToResponse(user),
		EffectiveMaxBookings: maxBookings,
		MaxSlots:             entity.MaxSlots(maxBookings),
		UsedSlots:            used,
	}, nil
}
