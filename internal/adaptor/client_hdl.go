package adaptor

import (
	"net/http"

	"computer-booking/internal/dto/request"
	"computer-booking/internal/usecase"
	"computer-booking/pkg/utils"

	"go.uber.org/zap"
)

// ClientHandler serves the lock client endpoints.
type ClientHandler struct {
	service usecase.ClientService
	log     *zap.Logger
}

func NewClientHandler(service usecase.ClientService, log *zap.Logger) *ClientHandler {
	return &ClientHandler{
		service: service,
		log:     log.With(zap.String("handler", "client")),
	}
}

// CheckUnlock handles POST /api/client/check-unlock
func (h *ClientHandler) CheckUnlock(w http.ResponseWriter, r *http.Request) {
	var req request.CheckUnlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.CheckUnlock(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "check unlock")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// Unlock handles POST /api/client/unlock
func (h *ClientHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req request.UnlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Unlock(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "unlock")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// Lock handles POST /api/client/lock
func (h *ClientHandler) Lock(w http.ResponseWriter, r *http.Request) {
	var req request.LockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Lock(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "lock")
		return
	}

	utils.ResponseSuccess(w, resp)
}
