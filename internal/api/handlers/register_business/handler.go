package register_business

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
	msgCustomURLTaken     = "бизнес с таким названием уже зарегистрирован"
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

// Handle POST /api/v1/businesses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req models.RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = userID

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, business.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, business.ErrCustomURLTaken):
			handlers.RespondConflict(w, msgCustomURLTaken)
		default:
			h.logger.Error("POST /businesses - Failed to register business: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses - Business registered: id=%s, user_id=%s", resp.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
