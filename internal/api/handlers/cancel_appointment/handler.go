package cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/appointweb-booking/internal/api/handlers"
	"github.com/m04kA/appointweb-booking/internal/api/middleware"
	"github.com/m04kA/appointweb-booking/internal/service/appointments"
	"github.com/m04kA/appointweb-booking/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgAppointmentNotFound = "запись не найдена"
	msgBusinessNotFound    = "бизнес не найден"
	msgForbidden           = "доступ запрещен"
	msgCannotCancel        = "запись уже отменена"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/businesses/{businessId}/appointments/{appointmentId}/cancel
// Тело запроса необязательно: {"reason": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := handlers.PathParam(r, "businessId")
	appointmentID := handlers.PathParam(r, "appointmentId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req models.CancelRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /businesses/{id}/appointments/{id}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}
	req.BusinessID = businessID
	req.AppointmentID = appointmentID
	req.UserID = userID

	resp, err := h.service.Cancel(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		case errors.Is(err, appointments.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /businesses/{id}/appointments/{id}/cancel - Access denied: business_id=%s, user_id=%s", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, appointments.ErrCannotCancel):
			handlers.RespondConflict(w, msgCannotCancel)
		default:
			h.logger.Error("PATCH /businesses/{id}/appointments/{id}/cancel - Failed to cancel: id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /businesses/{id}/appointments/{id}/cancel - Cancelled: id=%s", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
