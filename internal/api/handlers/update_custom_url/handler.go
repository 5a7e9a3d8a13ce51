package update_custom_url

import (
	"errors"
	"net/http"

	"github.com/m04kA/appointweb-booking/internal/api/handlers"
	"github.com/m04kA/appointweb-booking/internal/api/middleware"
	"github.com/m04kA/appointweb-booking/internal/service/business"
	"github.com/m04kA/appointweb-booking/internal/service/business/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "доступ запрещен"
	msgCustomURLTaken     = "этот адрес уже занят"
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

// Handle PUT /api/v1/businesses/{businessId}/custom-url
// Тело запроса: {"customUrl": "bellas-salon"}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := handlers.PathParam(r, "businessId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req models.UpdateCustomURLRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/custom-url - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.BusinessID = businessID
	req.UserID = userID

	resp, err := h.service.UpdateCustomURL(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, business.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, business.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, business.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/custom-url - Access denied: business_id=%s, user_id=%s", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, business.ErrCustomURLTaken):
			handlers.RespondConflict(w, msgCustomURLTaken)
		default:
			h.logger.Error("PUT /businesses/{id}/custom-url - Failed to update custom url: business_id=%s, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/custom-url - Custom url updated: business_id=%s, url=%s", businessID, resp.CustomURL)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
