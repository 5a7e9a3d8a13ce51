package delete_service

import (
	"errors"
	"net/http"

	"github.com/m04kA/appointweb-booking/internal/api/handlers"
	"github.com/m04kA/appointweb-booking/internal/api/middleware"
	"github.com/m04kA/appointweb-booking/internal/service/business"
)

const (
	msgBusinessNotFound = "бизнес не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgForbidden        = "доступ запрещен"
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

// Handle DELETE /api/v1/businesses/{businessId}/services/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := handlers.PathParam(r, "businessId")
	serviceID := handlers.PathParam(r, "serviceId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	if err := h.service.DeleteService(r.Context(), businessID, serviceID, userID); err != nil {
		switch {
		case errors.Is(err, business.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, business.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, business.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/services/{id} - Access denied: business_id=%s, user_id=%s", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("DELETE /businesses/{id}/services/{id} - Failed to delete service: id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/services/{id} - Service deleted: id=%s, business_id=%s", serviceID, businessID)
	handlers.RespondNoContent(w)
}
