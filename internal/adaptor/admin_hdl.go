package adaptor

import (
	"net/http"

	"computer-booking/internal/dto/request"
	"computer-booking/internal/usecase"
	"computer-booking/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// ==================== USERS ====================

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list users")
		return
	}
	utils.ResponseSuccess(w, users)
}

// CreateUser handles POST /api/admin/users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.AdminCreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create user")
		return
	}
	utils.ResponseCreated(w, resp)
}

// UpdateUser handles PUT /api/admin/users/{id}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req request.AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateUser(r.Context(), id, &req); err != nil {
		handleServiceError(h.log, w, err, "update user")
		return
	}
	utils.ResponseMessage(w, "User updated successfully")
}

// BanUser handles POST /api/admin/users/{id}/ban
func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.BanUser(r.Context(), id); err != nil {
		handleServiceError(h.log, w, err, "ban user")
		return
	}
	utils.ResponseMessage(w, "User banned")
}

// UnbanUser handles POST /api/admin/users/{id}/unban
func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.UnbanUser(r.Context(), id); err != nil {
		handleServiceError(h.log, w, err, "unban user")
		return
	}
	utils.ResponseMessage(w, "User unbanned")
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		handleServiceError(h.log, w, err, "delete user")
		return
	}
	utils.ResponseMessage(w, "User deleted successfully")
}

// ==================== COMPUTERS ====================

// ListComputers handles GET /api/admin/computers
func (h *AdminHandler) ListComputers(w http.ResponseWriter, r *http.Request) {
	computers, err := h.service.ListComputers(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list computers")
		return
	}
	utils.ResponseSuccess(w, computers)
}

// CreateComputer handles POST /api/admin/computers
func (h *AdminHandler) CreateComputer(w http.ResponseWriter, r *http.Request) {
	var req request.CreateComputerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.CreateComputer(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create computer")
		return
	}
	utils.ResponseCreated(w, resp)
}

// UpdateComputer handles PUT /api/admin/computers/{id}
func (h *AdminHandler) UpdateComputer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateComputerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateComputer(r.Context(), id, &req); err != nil {
		handleServiceError(h.log, w, err, "update computer")
		return
	}
	utils.ResponseMessage(w, "Computer updated successfully")
}

// DeleteComputer handles DELETE /api/admin/computers/{id}
func (h *AdminHandler) DeleteComputer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteComputer(r.Context(), id); err != nil {
		handleServiceError(h.log, w, err, "delete computer")
		return
	}
	utils.ResponseMessage(w, "Computer deleted successfully")
}

// ==================== GROUPS ====================

// ListGroups handles GET /api/admin/groups
func (h *AdminHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list groups")
		return
	}
	utils.ResponseSuccess(w, groups)
}

// UpsertGroup handles POST /api/admin/groups. A new group answers 201.
func (h *AdminHandler) UpsertGroup(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, created, err := h.service.UpsertGroup(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "upsert group")
		return
	}
	if created {
		utils.ResponseCreated(w, resp)
		return
	}
	utils.ResponseSuccess(w, resp)
}

// ==================== BOOKINGS ====================

// ListBookings handles GET /api/admin/bookings?status=&limit=
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := request.AdminBookingQuery{
		Status: query.Get("status"),
		Limit:  utils.ParseInt(query.Get("limit"), usecase.MaxAdminBookings),
	}

	bookings, err := h.service.ListBookings(r.Context(), q)
	if err != nil {
		handleServiceError(h.log, w, err, "list all bookings")
		return
	}
	utils.ResponseSuccess(w, bookings)
}

// DeleteBooking handles DELETE /api/admin/bookings/{id}
func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteBooking(r.Context(), id); err != nil {
		handleServiceError(h.log, w, err, "delete booking")
		return
	}
	utils.ResponseMessage(w, "Booking deleted successfully")
}

// ==================== SETTINGS & REPORTS ====================

// GetSettings handles GET /api/admin/settings
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "get settings")
		return
	}
	utils.ResponseSuccess(w, settings)
}

// UpdateSettings handles PUT /api/admin/settings
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update settings")
		return
	}
	utils.ResponseSuccess(w, settings)
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "stats")
		return
	}
	utils.ResponseSuccess(w, stats)
}

// UsageReport handles GET /api/admin/reports/usage?from=&to=
func (h *AdminHandler) UsageReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	report, err := h.service.UsageReport(r.Context(), request.UsageReportQuery{
		From: query.Get("from"),
		To:   query.Get("to"),
	})
	if err != nil {
		handleServiceError(h.log, w, err, "usage report")
		return
	}
	utils.ResponseSuccess(w, report)
}
