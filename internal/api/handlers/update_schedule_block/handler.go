package update_schedule_block

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
	msgInvalidBlockID     = "некорректный ID блока расписания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgInvalidDateTime    = "некорректная дата или время: fecha в формате YYYY-MM-DD, время в формате HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgNotFound           = "блок расписания не найден"
	msgOverlap            = "блок пересекается с существующим блоком расписания"
	msgInvalidInput       = "некорректные данные блока расписания"
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

// Handle PUT /api/v1/schedule/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	blockID, err := strconv.ParseInt(mux.Vars(r)["blockId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /schedule/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("PUT /schedule/{id} - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedule/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fields := handlers.Validate(req); fields != nil {
		h.logger.Warn("PUT /schedule/{id} - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PUT /schedule/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	block, err := h.service.UpdateBlock(r.Context(), caller, blockID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlockNotFound):
			h.logger.Warn("PUT /schedule/{id} - Block not found: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /schedule/{id} - Access denied: block_id=%d, user_id=%d", blockID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrOverlap):
			h.logger.Warn("PUT /schedule/{id} - Overlap: block_id=%d", blockID)
			handlers.RespondConflict(w, msgOverlap)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /schedule/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /schedule/{id} - Failed to update block: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /schedule/{id} - Block updated successfully: block_id=%d, user_id=%d", blockID, caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, block)
}
