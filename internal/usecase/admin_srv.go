package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

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

// MaxAdminBookings caps the admin booking list.
const MaxAdminBookings = 500

// AdminService manages users, computers, group limits and bookings on behalf
// of administrators. Callers must already be authorised as admin.
type AdminService interface {
	ListUsers(ctx context.Context) ([]response.UserResponse, error)
	CreateUser(ctx context.Context, req *request.AdminCreateUserRequest) (*response.RegisterResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *request.AdminUpdateUserRequest) error
	BanUser(ctx context.Context, id uuid.UUID) error
	UnbanUser(ctx context.Context, id uuid.UUID) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	ListComputers(ctx context.Context) ([]response.ComputerResponse, error)
	CreateComputer(ctx context.Context, req *request.CreateComputerRequest) (*response.CreateComputerResponse, error)
	UpdateComputer(ctx context.Context, id uuid.UUID, req *request.UpdateComputerRequest) error
	DeleteComputer(ctx context.Context, id uuid.UUID) error

	ListGroups(ctx context.Context) ([]response.GroupResponse, error)
	UpsertGroup(ctx context.Context, req *request.UpsertGroupRequest) (resp *response.UpsertGroupResponse, created bool, err error)

	ListBookings(ctx context.Context, q request.AdminBookingQuery) ([]response.BookingResponse, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error

	GetSettings(ctx context.Context) (*response.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req *request.UpdateSettingsRequest) (*response.SettingsResponse, error)

	Stats(ctx context.Context) (*response.StatsResponse, error)
	UsageReport(ctx context.Context, q request.UsageReportQuery) (*response.UsageReportResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	clock  clock.Clock
	config utils.BookingConfig
	log    *zap.Logger
}

func NewAdminService(repo *repository.Repository, clk clock.Clock, config utils.BookingConfig, log *zap.Logger) AdminService {
	return &adminService{
		repo:   repo,
		clock:  clk,
		config: config,
		log:    log.With(zap.String("service", "admin")),
	}
}

func validationError(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.Validation(utils.FormatValidationErrors(errs), utils.ValidationDetails(errs))
	}
	return nil
}

// ==================== USERS ====================

func (s *adminService) ListUsers(ctx context.Context) ([]response.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return response.UsersToResponse(users), nil
}

func (s *adminService) CreateUser(ctx context.Context, req *request.AdminCreateUserRequest) (*response.RegisterResponse, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		Username:              req.Username,
		PasswordHash:          hashed,
		Fullname:              req.Fullname,
		Email:                 req.Email,
		Role:                  entity.RoleUser,
		GroupName:             entity.DefaultGroup,
		MaxConcurrentBookings: req.MaxConcurrentBookings,
	}
	if req.Role != "" {
		user.Role = entity.UserRole(req.Role)
	}
	if req.GroupName != "" {
		user.GroupName = req.GroupName
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, apperror.Validation("Username already exists", map[string]any{"Username": "Already taken"})
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return &response.RegisterResponse{
		Message: "User created successfully",
		UserID:  user.ID.String(),
	}, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uuid.UUID, req *request.AdminUpdateUserRequest) error {
	if err := validationError(req); err != nil {
		return err
	}

	var hashed string
	if req.Password != nil {
		var err error
		if hashed, err = utils.HashPassword(*req.Password); err != nil {
			return err
		}
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return apperror.NotFound("User")
		}

		if req.Fullname != nil {
			user.Fullname = *req.Fullname
		}
		if req.Email != nil {
			user.Email = req.Email
		}
		if req.Role != nil {
			user.Role = entity.UserRole(*req.Role)
		}
		if req.GroupName != nil {
			user.GroupName = *req.GroupName
		}
		if req.MaxConcurrentBookings != nil {
			user.MaxConcurrentBookings = req.MaxConcurrentBookings
		}
		if req.Banned != nil {
			user.Banned = *req.Banned
		}

		if _, err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		if hashed != "" {
			return tx.User.UpdatePassword(ctx, id, hashed)
		}
		return nil
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return err
		}
		return fmt.Errorf("update user %s: %w", id, err)
	}

	s.log.Info("User updated by admin", zap.String("user_id", id.String()))
	return nil
}

func (s *adminService) BanUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ban user: %w", err)
	}
	if user == nil {
		return apperror.NotFound("User")
	}
	if user.IsAdmin() {
		return apperror.Forbidden("Cannot ban admin user")
	}

	if _, err := s.repo.User.SetBanned(ctx, id, true); err != nil {
		return fmt.Errorf("ban user: %w", err)
	}

	s.log.Info("User banned", zap.String("user_id", id.String()))
	return nil
}

func (s *adminService) UnbanUser(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.User.SetBanned(ctx, id, false)
	if err != nil {
		return fmt.Errorf("unban user: %w", err)
	}
	if !found {
		return apperror.NotFound("User")
	}

	s.log.Info("User unbanned", zap.String("user_id", id.String()))
	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if user == nil {
		return apperror.NotFound("User")
	}
	if user.IsAdmin() {
		return apperror.Forbidden("Cannot delete admin user")
	}

	if _, err := s.repo.User.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info("User deleted", zap.String("user_id", id.String()), zap.String("username", user.Username))
	return nil
}

// ==================== COMPUTERS ====================

func (s *adminService) ListComputers(ctx context.Context) ([]response.ComputerResponse, error) {
	computers, err := s.repo.Computer.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list computers: %w", err)
	}

	out := make([]response.ComputerResponse, 0, len(computers))
	for _, c := range computers {
		out = append(out, response.ComputerToResponse(c))
	}
	return out, nil
}

func (s *adminService) CreateComputer(ctx context.Context, req *request.CreateComputerRequest) (*response.CreateComputerResponse, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}

	computer := &entity.Computer{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Status:      entity.ComputerStatusAvailable,
		IPAddress:   req.IPAddress,
		MACAddress:  req.MACAddress,
	}
	if req.Status != "" {
		computer.Status = entity.ComputerStatus(req.Status)
	}

	if err := s.repo.Computer.Create(ctx, computer); err != nil {
		if errors.Is(err, repository.ErrComputerNameTaken) {
			return nil, apperror.AlreadyExists("Computer name")
		}
		return nil, fmt.Errorf("create computer: %w", err)
	}

	s.log.Info("Computer created",
		zap.String("computer_id", computer.ID.String()),
		zap.String("name", computer.Name))

	return &response.CreateComputerResponse{
		Message:    "Computer created successfully",
		ComputerID: computer.ID.String(),
	}, nil
}

// UpdateComputer applies the present fields. Moving a computer out of
// available stops new bookings; existing ones are left alone.
func (s *adminService) UpdateComputer(ctx context.Context, id uuid.UUID, req *request.UpdateComputerRequest) error {
	if err := validationError(req); err != nil {
		return err
	}

	var status entity.ComputerStatus
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		computer, err := tx.Computer.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if computer == nil {
			return apperror.ComputerNotFound()
		}

		if req.Name != nil {
			computer.Name = *req.Name
		}
		if req.Description != nil {
			computer.Description = req.Description
		}
		if req.Location != nil {
			computer.Location = req.Location
		}
		if req.Status != nil {
			computer.Status = entity.ComputerStatus(*req.Status)
		}
		if req.IPAddress != nil {
			computer.IPAddress = req.IPAddress
		}
		if req.MACAddress != nil {
			computer.MACAddress = req.MACAddress
		}
		status = computer.Status

		if _, err := tx.Computer.Update(ctx, computer); err != nil {
			if errors.Is(err, repository.ErrComputerNameTaken) {
				return apperror.AlreadyExists("Computer name")
			}
			return err
		}
		return nil
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return err
		}
		return fmt.Errorf("update computer %s: %w", id, err)
	}

	s.log.Info("Computer updated",
		zap.String("computer_id", id.String()),
		zap.String("status", string(status)))
	return nil
}

func (s *adminService) DeleteComputer(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Computer.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete computer: %w", err)
	}
	if !found {
		return apperror.ComputerNotFound()
	}

	s.log.Info("Computer deleted", zap.String("computer_id", id.String()))
	return nil
}

// ==================== GROUPS ====================

func (s *adminService) ListGroups(ctx context.Context) ([]response.GroupResponse, error) {
	groups, err := s.repo.Group.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return response.GroupsToResponse(groups), nil
}

func (s *adminService) UpsertGroup(ctx context.Context, req *request.UpsertGroupRequest) (*response.UpsertGroupResponse, bool, error) {
	if err := validationError(req); err != nil {
		return nil, false, err
	}

	group, created, err := s.repo.Group.Upsert(ctx, req.GroupName, *req.MaxConcurrentBookings, req.NoShowMinutes)
	if err != nil {
		return nil, false, fmt.Errorf("upsert group: %w", err)
	}

	message := "Group updated successfully"
	if created {
		message = "Group created successfully"
	}
	s.log.Info(message,
		zap.String("group_name", group.GroupName),
		zap.Int("max_concurrent_bookings", group.MaxConcurrentBookings),
		zap.Int("no_show_minutes", group.NoShowMinutes))

	return &response.UpsertGroupResponse{
		Message: message,
		Group:   response.GroupToResponse(group),
	}, created, nil
}

// ==================== BOOKINGS ====================

func (s *adminService) ListBookings(ctx context.Context, q request.AdminBookingQuery) ([]response.BookingResponse, error) {
	status := entity.BookingStatus(q.Status)
	if status != "" && !status.Valid() {
		return nil, apperror.Validation("status must be one of pending, active, completed, cancelled",
			map[string]any{"status": q.Status})
	}

	limit := q.Limit
	if limit <= 0 || limit > MaxAdminBookings {
		limit = MaxAdminBookings
	}

	bookings, err := s.repo.Booking.ListRecent(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return response.BookingsToResponse(bookings), nil
}

func (s *adminService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Booking.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if !found {
		return apperror.BookingNotFound()
	}

	s.log.Info("Booking deleted by admin", zap.String("booking_id", id.String()))
	return nil
}

// ==================== SETTINGS ====================

func (s *adminService) GetSettings(ctx context.Context) (*response.SettingsResponse, error) {
	days, err := s.repo.Setting.GetInt(ctx, entity.SettingMaxAdvanceDays, s.config.MaxAdvanceDays)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &response.SettingsResponse{MaxAdvanceDays: days}, nil
}

func (s *adminService) UpdateSettings(ctx context.Context, req *request.UpdateSettingsRequest) (*response.SettingsResponse, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}

	if err := s.repo.Setting.Set(ctx, entity.SettingMaxAdvanceDays, strconv.Itoa(req.MaxAdvanceDays)); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	s.log.Info("Settings updated", zap.Int("max_advance_days", req.MaxAdvanceDays))
	return &response.SettingsResponse{MaxAdvanceDays: req.MaxAdvanceDays}, nil
}

// ==================== REPORTS ====================

// Stats counts today's bookings by the UTC calendar day.
func (s *adminService) Stats(ctx context.Context) (*response.StatsResponse, error) {
	now := s.clock.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.repo.Report.Stats(ctx, now, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	resp := response.StatsToResponse(stats)
	return &resp, nil
}

// UsageReport totals booked, used and unused hours per user. A session
// that is still unlocked counts as used until now.
func (s *adminService) UsageReport(ctx context.Context, q request.UsageReportQuery) (*response.UsageReportResponse, error) {
	var (
		from, to *time.Time
		rng      response.UsageRange
	)
	if q.From != "" {
		t, ok := utils.ParseTime(q.From)
		if !ok {
			return nil, apperror.Validation("from must be a date or ISO-8601 timestamp", map[string]any{"from": q.From})
		}
		from, rng.From = &t, &q.From
	}
	if q.To != "" {
		t, ok := utils.ParseTime(q.To)
		if !ok {
			return nil, apperror.Validation("to must be a date or ISO-8601 timestamp", map[string]any{"to": q.To})
		}
		to, rng.To = &t, &q.To
	}

	rows, err := s.repo.Report.UsageRows(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("usage report: %w", err)
	}

	resp := response.UsageToResponse(rng, entity.SummarizeUsage(rows, s.clock.Now()))
	return &resp, nil
}
