package delete_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/appointweb-booking/internal/api/handlers"
	"github.com/m04kA/appointweb-booking/internal/api/middleware"
	"github.com/m04kA/appointweb-booking/internal/service/appointments"
)

const (
	msgAppointmentNotFound = "запись не найдена"
	msgBusinessNotFound    = "бизнес не найден"
	msgForbidden           = "доступ запрещен"
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

// Handle DELETE /api/v1/businesses/{businessId}/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := handlers.PathParam(r, "businessId")
	appointmentID := handlers.PathParam(r, "appointmentId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	if err := h.service.Delete(r.Context(), businessID, appointmentID, userID); err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		case errors.Is(err, appointments.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/appointments/{id} - Access denied: business_id=%s, user_id=%s", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("DELETE /businesses/{id}/appointments/{id} - Failed to delete: id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/appointments/{id} - Deleted: id=%s", appointmentID)
	handlers.RespondNoContent(w)
}
