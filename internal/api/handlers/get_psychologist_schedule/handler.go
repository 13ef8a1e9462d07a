package get_psychologist_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PSY-AppointmentService/internal/api/handlers"
	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidPsychologistID = "некорректный ID психолога"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidParams         = "некорректные параметры запроса: from и to в формате YYYY-MM-DD"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service ScheduleService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/psychologists/{psychologistId}/schedule
// Query params: from, to (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	psychologistID, err := strconv.ParseInt(mux.Vars(r)["psychologistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /psychologists/{id}/schedule - Invalid psychologist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPsychologistID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("GET /psychologists/{id}/schedule - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(psychologistID, query.Get("from"), query.Get("to"), h.now())
	if err != nil {
		h.logger.Warn("GET /psychologists/{id}/schedule - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), caller, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("GET /psychologists/{id}/schedule - Access denied: psychologist_id=%d, user_id=%d",
				psychologistID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /psychologists/{id}/schedule - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /psychologists/{id}/schedule - Failed to get schedule: psychologist_id=%d, error=%v",
				psychologistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /psychologists/{id}/schedule - Schedule retrieved: psychologist_id=%d, blocks=%d",
		psychologistID, len(result.Blocks))
	handlers.RespondJSON(w, http.StatusOK, result)
}
