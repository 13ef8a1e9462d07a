package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	userRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/PSY-AppointmentService/pkg/ptr"
)

// UseCase use case для получения свободных слотов психолога
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	userRepo        UserRepository
	rules           domain.BookingRules
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	userRepo UserRepository,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		userRepo:        userRepo,
		rules:           rules,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов.
// Результат зависит только от состояния хранилища и текущего времени.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.RangeDays == 0 {
		req.RangeDays = domain.DefaultRangeDays
	}
	if req.GranularityMinutes == 0 {
		req.GranularityMinutes = uc.rules.DefaultGranularityMinutes
	}

	uc.logger.Info("GetAvailableSlots: psychologist=%d, date=%s, range=%d, granularity=%d",
		req.PsychologistID, req.Date.Format(domain.DateFormat), req.RangeDays, req.GranularityMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.rules); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Вычисляем фактический период
	now := uc.timeProvider.Now()
	from, to, err := resolveRange(req.Date, req.RangeDays, now, uc.rules)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем психолога
	psychologist, err := uc.userRepo.GetByID(ctx, req.PsychologistID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("GetAvailableSlots: psychologist id=%d not found", req.PsychologistID)
			return nil, ErrPsychologistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get psychologist id=%d: %v", req.PsychologistID, err)
		return nil, fmt.Errorf("%w: failed to get psychologist: %v", ErrInternal, err)
	}
	if psychologist.Role != domain.RolePsychologist {
		uc.logger.Warn("GetAvailableSlots: user id=%d is not a psychologist (role=%s)", psychologist.ID, psychologist.Role)
		return nil, ErrPsychologistNotFound
	}

	// 4. Загружаем расписание, недоступность и активные записи за период
	blocks, err := uc.scheduleRepo.ListBlocks(ctx, req.PsychologistID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule blocks: %v", ErrInternal, err)
	}

	unavailability, err := uc.scheduleRepo.ListUnavailability(ctx, req.PsychologistID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get unavailability: %v", err)
		return nil, fmt.Errorf("%w: failed to get unavailability: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.GetByFilter(ctx, domain.AppointmentFilter{
		PsychologistID:  ptr.Ptr(req.PsychologistID),
		StartDate:       &from,
		EndDate:         &to,
		IncludeInactive: false, // Только pending и confirmed
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Вычисляем слоты по дням
	days := groupByDate(blocks, appointments, unavailability)
	today := domain.DateOnly(now)

	slots := make([]domain.AvailableSlot, 0)
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		notBefore := 0
		if date.Equal(today) {
			notBefore = uc.rules.EarliestStartToday(now)
		}
		slots = append(slots, computeDaySlots(date, days[date.Format(domain.DateFormat)], req.GranularityMinutes, notBefore)...)
	}

	uc.logger.Info("GetAvailableSlots: found %d slots for psychologist=%d, %s..%s",
		len(slots), req.PsychologistID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	return &Response{
		PsychologistID:     req.PsychologistID,
		From:               from,
		To:                 to,
		GranularityMinutes: req.GranularityMinutes,
		Slots:              slots,
	}, nil
}
