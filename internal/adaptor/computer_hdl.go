package adaptor

import (
	"net/http"

	"computer-booking/internal/dto/request"
	"computer-booking/internal/usecase"
	"computer-booking/pkg/utils"

	"go.uber.org/zap"
)

type ComputerHandler struct {
	service usecase.ComputerService
	log     *zap.Logger
}

func NewComputerHandler(service usecase.ComputerService, log *zap.Logger) *ComputerHandler {
	return &ComputerHandler{
		service: service,
		log:     log.With(zap.String("handler", "computer")),
	}
}

// ListComputers handles GET /api/computers (protected)
func (h *ComputerHandler) ListComputers(w http.ResponseWriter, r *http.Request) {
	computers, err := h.service.ListComputers(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list computers")
		return
	}

	utils.ResponseSuccess(w, computers)
}

// GetComputer handles GET /api/computers/{id} (protected)
func (h *ComputerHandler) GetComputer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	computer, err := h.service.GetComputer(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get computer")
		return
	}

	utils.ResponseSuccess(w, computer)
}

// ListComputerBookings handles GET /api/computers/{id}/bookings (protected)
func (h *ComputerHandler) ListComputerBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	query := r.URL.Query()
	rng := request.BookingRangeQuery{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}

	bookings, err := h.service.ListComputerBookings(r.Context(), id, rng)
	if err != nil {
		handleServiceError(h.log, w, err, "list computer bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}

// CleanupExpired handles POST /api/computers/cleanup-expired (protected)
func (h *ComputerHandler) CleanupExpired(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CleanupExpired(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "cleanup expired bookings")
		return
	}

	utils.ResponseSuccess(w, result)
}
