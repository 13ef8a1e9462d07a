package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/PSY-AppointmentService/internal/api/handlers"
	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/PSY-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgValidationFailed     = "ошибка валидации запроса"
	msgInvalidDateTime      = "некорректная дата или время: fecha в формате YYYY-MM-DD, hora в формате HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgSlotNotAvailable     = "выбранный интервал недоступен"
	msgStudentNotFound      = "студент не найден"
	msgPsychologistNotFound = "психолог не найден"
	msgDateInPast           = "дата записи в прошлом"
	msgDateTooFar           = "дата записи слишком далеко в будущем"
	msgTooLateToBook        = "слишком поздно для записи на это время"
	msgInvalidInput         = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.Validate(req); fields != nil {
		h.logger.Warn("POST /appointments - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(caller)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: psychologist_id=%d, fecha=%s, hora=%s",
				req.PsychologistID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrAccessDenied):
			h.logger.Warn("POST /appointments - Access denied: user_id=%d, role=%s", caller.UserID, caller.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createAppointment.ErrStudentNotFound):
			h.logger.Warn("POST /appointments - Student not found: user_id=%d", caller.UserID)
			handlers.RespondNotFound(w, msgStudentNotFound)

		case errors.Is(err, createAppointment.ErrPsychologistNotFound):
			h.logger.Warn("POST /appointments - Psychologist not found: psychologist_id=%d", req.PsychologistID)
			handlers.RespondNotFound(w, msgPsychologistNotFound)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, psychologist_id=%d, error=%v",
				caller.UserID, req.PsychologistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, student_id=%d, psychologist_id=%d",
		result.ID, result.StudentID, result.PsychologistID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
