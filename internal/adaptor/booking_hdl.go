package adaptor

import (
	"net/http"

	"computer-booking/internal/dto/request"
	"computer-booking/internal/usecase"
	"computer-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, booking)
}

// CancelBooking handles DELETE /api/bookings/{id} (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.CancelBooking(r.Context(), bookingID, userID); err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseMessage(w, "Booking cancelled successfully")
}

// ListBookings handles GET /api/bookings (protected)
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rng := request.BookingRangeQuery{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	page := request.NewPaginatedRequest(query.Get("page"), query.Get("per_page"))

	bookings, err := h.service.ListBookings(r.Context(), rng, page)
	if err != nil {
		handleServiceError(h.log, w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}

// ListMyBookings handles GET /api/bookings/my-bookings (protected)
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	page := request.NewPaginatedRequest(query.Get("page"), query.Get("per_page"))

	bookings, err := h.service.ListMyBookings(r.Context(), userID, page)
	if err != nil {
		handleServiceError(h.log, w, err, "list my bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}

// ListActiveBookings handles GET /api/bookings/active (protected)
func (h *BookingHandler) ListActiveBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListActiveBookings(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "list active bookings")
		return
	}

	utils.ResponseSuccess(w, bookings)
}
