package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"computer-booking/internal/usecase"
	"computer-booking/pkg/apperror"
	"computer-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Booking  *BookingHandler
	Client   *ClientHandler
	Computer *ComputerHandler
	Admin    *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Client:   NewClientHandler(service.Client, log),
		Computer: NewComputerHandler(service.Computer, log),
		Admin:    NewAdminHandler(service.Admin, log),
	}
}

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseError(w, http.StatusBadRequest, apperror.CodeValidation, "Invalid request body", nil)
		return false
	}
	return true
}

// pathUUID parses the named URL parameter and writes a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseError(w, http.StatusBadRequest, apperror.CodeValidation, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps service errors to responses. AppErrors carry
// their own status; anything else is an internal error.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error(operation+" failed",
				zap.Error(err),
				zap.String("operation", operation))
		} else {
			log.Warn(operation+" rejected",
				zap.String("code", appErr.Code),
				zap.String("message", appErr.Message),
				zap.String("operation", operation))
		}
		utils.ResponseError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}

	log.Error(operation+" failed",
		zap.Error(err),
		zap.String("operation", operation))
	utils.ResponseInternalError(w, "Internal server error")
}
