package get_psychologist_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PSY-AppointmentService/internal/api/handlers"
	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidPsychologistID = "некорректный ID психолога"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidParams         = "некорректные параметры запроса"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/psychologists/{psychologistId}/appointments
// Query params: from, to, status, include_inactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	psychologistID, err := strconv.ParseInt(mux.Vars(r)["psychologistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /psychologists/{id}/appointments - Invalid psychologist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPsychologistID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("GET /psychologists/{id}/appointments - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(psychologistID, query.Get("from"), query.Get("to"),
		query.Get("status"), query.Get("include_inactive"))
	if err != nil {
		h.logger.Warn("GET /psychologists/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит права доступа
	result, err := h.service.GetPsychologistAppointments(r.Context(), caller, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /psychologists/{id}/appointments - Access denied: psychologist_id=%d, user_id=%d",
				psychologistID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /psychologists/{id}/appointments - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /psychologists/{id}/appointments - Failed to get appointments: psychologist_id=%d, error=%v",
				psychologistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /psychologists/{id}/appointments - Appointments retrieved successfully: psychologist_id=%d, count=%d",
		psychologistID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
