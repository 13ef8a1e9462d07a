package create_unavailability

import (
	"errors"
	"net/http"

	"github.com/m04kA/PSY-AppointmentService/internal/api/handlers"
	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgValidationFailed     = "ошибка валидации запроса"
	msgInvalidDateTime      = "некорректная дата или время: fecha в формате YYYY-MM-DD, время в формате HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgPsychologistNotFound = "психолог не найден"
	msgInvalidInput         = "некорректный период недоступности"
	msgConflict             = "расписание психолога изменяется параллельно, повторите запрос"
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

// Handle POST /api/v1/schedule/unavailability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("POST /schedule/unavailability - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateUnavailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedule/unavailability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.Validate(req); fields != nil {
		h.logger.Warn("POST /schedule/unavailability - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /schedule/unavailability - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.service.CreateUnavailability(r.Context(), caller, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /schedule/unavailability - Access denied: psychologist_id=%d, user_id=%d",
				req.PsychologistID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrPsychologistNotFound):
			h.logger.Warn("POST /schedule/unavailability - Psychologist not found: psychologist_id=%d", req.PsychologistID)
			handlers.RespondNotFound(w, msgPsychologistNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /schedule/unavailability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, schedule.ErrOverlap):
			h.logger.Warn("POST /schedule/unavailability - Concurrent update: psychologist_id=%d", req.PsychologistID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /schedule/unavailability - Failed to create: psychologist_id=%d, error=%v",
				req.PsychologistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /schedule/unavailability - Created successfully: id=%d, psychologist_id=%d",
		result.ID, result.PsychologistID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
