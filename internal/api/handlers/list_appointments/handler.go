package list_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/appointweb-booking/internal/api/handlers"
	"github.com/m04kA/appointweb-booking/internal/api/middleware"
	"github.com/m04kA/appointweb-booking/internal/service/appointments"
	"github.com/m04kA/appointweb-booking/internal/service/appointments/models"
)

const (
	msgInvalidDate             = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidIncludeCancelled = "некорректное значение includeCancelled"
	msgBusinessNotFound        = "бизнес не найден"
	msgForbidden               = "доступ запрещен"
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

// Handle GET /api/v1/businesses/{businessId}/appointments
// Query params: from (optional, YYYY-MM-DD, по умолчанию сегодня), includeCancelled (optional, bool)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := handlers.PathParam(r, "businessId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	req := &models.ListRequest{BusinessID: businessID, UserID: userID}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := handlers.ParseDate(fromStr)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/appointments - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.From = &from
	}

	if v := r.URL.Query().Get("includeCancelled"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidIncludeCancelled)
			return
		}
		req.IncludeCancelled = include
	}

	resp, err := h.service.ListUpcoming(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/appointments - Access denied: business_id=%s, user_id=%s", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /businesses/{id}/appointments - Failed to list appointments: business_id=%s, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
