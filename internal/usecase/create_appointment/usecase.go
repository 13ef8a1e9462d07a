package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/schedule"
	userRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/PSY-AppointmentService/pkg/ptr"
	"github.com/m04kA/PSY-AppointmentService/pkg/txmanager"
)

// UseCase use case для создания записи на приём
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	userRepo        UserRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	rules           domain.BookingRules
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		userRepo:        userRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		rules:           rules,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка и вставка выполняются в сериализуемой транзакции под блокировкой дня психолога.
// Снимок транзакции берется до получения блокировки, поэтому проигравшую запись отсекает
// проверка сериализации PostgreSQL (40001) или уникальный индекс, и она получает ErrSlotNotAvailable.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.DurationMinutes == 0 {
		req.DurationMinutes = domain.DefaultAppointmentMinutes
	}

	uc.logger.Info("CreateAppointment: caller=%d(%s), student=%d, psychologist=%d, date=%s, time=%s, duration=%d",
		req.Caller.UserID, req.Caller.Role, req.StudentID, req.PsychologistID,
		req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем студента и статус по вызывающему
	studentID, status, err := resolveBooking(req)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 3. Проверяем дату относительно текущего времени
	now := uc.timeProvider.Now()
	if err := validateDate(req, now, uc.rules); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 4. Проверяем участников
	if err := uc.checkUser(ctx, studentID, domain.RoleStudent, ErrStudentNotFound); err != nil {
		return nil, err
	}
	if err := uc.checkUser(ctx, req.PsychologistID, domain.RolePsychologist, ErrPsychologistNotFound); err != nil {
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	end, err := req.StartTime.AddMinutes(req.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	requested, err := domain.NewInterval(req.StartTime, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 5. Выполняем проверку и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем день психолога
		if err := uc.scheduleRepo.LockDay(txCtx, req.PsychologistID, date); err != nil {
			return readError("failed to lock day", err)
		}

		// 5.2. Читаем расписание, недоступность и активные записи дня
		blocks, err := uc.scheduleRepo.ListBlocks(txCtx, req.PsychologistID, date, date)
		if err != nil {
			return readError("failed to get schedule blocks", err)
		}

		unavailability, err := uc.scheduleRepo.ListUnavailability(txCtx, req.PsychologistID, date, date)
		if err != nil {
			return readError("failed to get unavailability", err)
		}

		appointments, err := uc.appointmentRepo.GetByFilter(txCtx, domain.AppointmentFilter{
			PsychologistID:  ptr.Ptr(req.PsychologistID),
			StartDate:       &date,
			EndDate:         &date,
			IncludeInactive: false, // Только активные записи
		})
		if err != nil {
			return readError("failed to get appointments", err)
		}

		// 5.3. Проверяем доступность интервала
		if err := checkSlot(requested, blocks, unavailability, appointments); err != nil {
			return err
		}

		// 5.4. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			StudentID:       studentID,
			PsychologistID:  req.PsychologistID,
			Date:            date,
			StartTime:       req.StartTime,
			DurationMinutes: req.DurationMinutes,
			Status:          status,
			Reason:          req.Reason,
			Notes:           req.Notes,
		})
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.handleTxError(err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d status=%s", result.ID, result.Status)
	uc.metrics.IncAppointmentBooked(string(result.Status))

	// 6. Событие отправляем только после коммита, ошибка доставки не отменяет запись
	event := domain.NewAppointmentEvent(domain.EventAppointmentCreated, result, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateAppointment: failed to publish event %s for appointment id=%d: %v", event.ID, result.ID, err)
	}

	return toResponse(result), nil
}

// handleTxError приводит ошибки транзакции к ошибкам usecase.
// Проигранная гонка (уникальный индекс, конфликт сериализации) означает, что слот уже занят.
func (uc *UseCase) handleTxError(err error) error {
	switch {
	case errors.Is(err, ErrSlotNotAvailable):
		uc.logger.Warn("CreateAppointment: %v", err)
		uc.metrics.IncBookingConflict("overlap")
		return err
	case errors.Is(err, appointmentRepo.ErrSlotTaken):
		uc.logger.Warn("CreateAppointment: slot taken by a concurrent booking")
		uc.metrics.IncBookingConflict("unique")
		return fmt.Errorf("%w: slot taken by a concurrent booking", ErrSlotNotAvailable)
	case isConcurrencyConflict(err):
		uc.logger.Warn("CreateAppointment: serialization conflict: %v", err)
		uc.metrics.IncBookingConflict("serialization")
		return fmt.Errorf("%w: concurrent booking conflict", ErrSlotNotAvailable)
	case errors.Is(err, appointmentRepo.ErrReferenceNotFound):
		uc.logger.Warn("CreateAppointment: participant disappeared: %v", err)
		return ErrStudentNotFound
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateAppointment: %v", err)
		return err
	default:
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// isConcurrencyConflict транзакция проиграла конкурентной (блокировка, чтение дня или коммит)
func isConcurrencyConflict(err error) bool {
	return errors.Is(err, txmanager.ErrSerializationFailure) ||
		errors.Is(err, appointmentRepo.ErrConcurrentUpdate) ||
		errors.Is(err, scheduleRepo.ErrConcurrentUpdate)
}

// readError оставляет конфликт сериализации в цепочке ошибок, остальные ошибки чтения считаются внутренними
func readError(msg string, err error) error {
	if isConcurrencyConflict(err) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, msg, err)
}

func (uc *UseCase) checkUser(ctx context.Context, id int64, role domain.Role, notFound error) error {
	u, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateAppointment: %s id=%d not found", role, id)
			return notFound
		}
		uc.logger.Error("CreateAppointment: failed to get user id=%d: %v", id, err)
		return fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if u.Role != role {
		uc.logger.Warn("CreateAppointment: user id=%d has role %s, expected %s", id, u.Role, role)
		return notFound
	}
	return nil
}

func toResponse(a *domain.Appointment) *Response {
	end, _ := a.EndTime()
	return &Response{
		ID:              a.ID,
		StudentID:       a.StudentID,
		PsychologistID:  a.PsychologistID,
		Date:            a.Date,
		StartTime:       a.StartTime,
		EndTime:         end,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Reason:          a.Reason,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
