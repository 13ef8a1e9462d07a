package change_appointment_status

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PSY-AppointmentService/internal/api/handlers"
	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgValidationFailed     = "ошибка валидации запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgInvalidTransition    = "недопустимая смена статуса записи"
	msgInvalidInput         = "некорректные данные запроса"
)

// Handler меняет статус записи на target.
// Один обработчик на каждое действие: confirm, cancel, complete, no-show.
type Handler struct {
	service AppointmentService
	target  domain.AppointmentStatus
	route   string
	logger  Logger
}

func NewHandler(service AppointmentService, target domain.AppointmentStatus, action string, logger Logger) *Handler {
	return &Handler{
		service: service,
		target:  target,
		route:   fmt.Sprintf("PATCH /appointments/{id}/%s", action),
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/{action}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid appointment ID: %v", h.route, err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing caller", h.route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Тело необязательно: пустое тело (в том числе chunked без данных) означает запрос без причины
	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("%s - Invalid request body: %v", h.route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.Validate(req); fields != nil {
		h.logger.Warn("%s - Validation failed: %v", h.route, fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	appointment, err := h.service.Transition(r.Context(), caller, appointmentID, h.target, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("%s - Appointment not found: appointment_id=%d", h.route, appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: appointment_id=%d, user_id=%d", h.route, appointmentID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("%s - Invalid transition: appointment_id=%d, target=%s", h.route, appointmentID, h.target)
			handlers.RespondUnprocessable(w, msgInvalidTransition)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", h.route, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("%s - Failed to change status: appointment_id=%d, error=%v", h.route, appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Status changed successfully: appointment_id=%d, status=%s, user_id=%d",
		h.route, appointmentID, appointment.Status, caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
