package update_booking_form

import (
	"errors"
	"net/http"

	"github.com/m04kA/appointweb-booking/internal/api/handlers"
	"github.com/m04kA/appointweb-booking/internal/api/middleware"
	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/internal/service/business"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service BusinessService
	logger  Logger
}

func NewHandler(service BusinessService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/booking-form
// Тело запроса: {"requiredFields": {...}, "customFields": [...]}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := handlers.PathParam(r, "businessId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	// Поля неизвестного типа и options у не-select полей отклоняются при декодировании
	var form domain.BookingForm
	if err := handlers.DecodeJSON(r, &form); err != nil {
		h.logger.Warn("PUT /businesses/{id}/booking-form - Invalid request body: %v", err)
		if errors.Is(err, domain.ErrInvalidCustomField) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpdateBookingForm(r.Context(), businessID, userID, form)
	if err != nil {
		switch {
		case errors.Is(err, business.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, business.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, business.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/booking-form - Access denied: business_id=%s, user_id=%s", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("PUT /businesses/{id}/booking-form - Failed to update: business_id=%s, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/booking-form - Updated: business_id=%s", businessID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
