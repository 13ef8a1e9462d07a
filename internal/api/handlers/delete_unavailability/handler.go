package delete_unavailability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PSY-AppointmentService/internal/api/handlers"
	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidUnavailabilityID = "некорректный ID периода недоступности"
	msgMissingUserID           = "отсутствует ID пользователя"
	msgForbidden               = "доступ запрещен"
	msgNotFound                = "период недоступности не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/schedule/unavailability/{unavailabilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["unavailabilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /schedule/unavailability/{id} - Invalid unavailability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUnavailabilityID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("DELETE /schedule/unavailability/{id} - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteUnavailability(r.Context(), caller, id); err != nil {
		switch {
		case errors.Is(err, schedule.ErrUnavailabilityNotFound):
			h.logger.Warn("DELETE /schedule/unavailability/{id} - Not found: unavailability_id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /schedule/unavailability/{id} - Access denied: unavailability_id=%d, user_id=%d", id, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /schedule/unavailability/{id} - Failed to delete: unavailability_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /schedule/unavailability/{id} - Deleted successfully: unavailability_id=%d, user_id=%d", id, caller.UserID)
	handlers.RespondNoContent(w)
}
