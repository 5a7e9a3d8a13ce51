package create_service

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

// Handle POST /api/v1/businesses/{businessId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := handlers.PathParam(r, "businessId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.BusinessID = businessID
	req.UserID = userID

	resp, err := h.service.CreateService(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, business.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, business.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, business.ErrAccessDenied):
			h.logger.Warn("POST /businesses/{id}/services - Access denied: business_id=%s, user_id=%s", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("POST /businesses/{id}/services - Failed to create service: business_id=%s, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/services - Service created: id=%s, business_id=%s", resp.ID, businessID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
