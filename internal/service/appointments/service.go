package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/PSY-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями: чтение и смена статусов
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	logger          Logger
	now             func() time.Time
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// GetByID получает запись по ID.
// Видят запись её студент, её психолог и администратор.
func (s *Service) GetByID(ctx context.Context, caller domain.Caller, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, caller.UserID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if !canView(caller, appointment) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", caller.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetStudentAppointments получает историю записей студента.
// Доступно самому студенту и администратору.
func (s *Service) GetStudentAppointments(ctx context.Context, caller domain.Caller, req *models.GetStudentAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetStudentAppointments: fetching appointments for student=%d, status=%v", req.StudentID, req.Status)

	if !caller.IsAdmin() && !(caller.IsStudent() && caller.UserID == req.StudentID) {
		s.logger.Warn("GetStudentAppointments: access denied for user=%d to student=%d", caller.UserID, req.StudentID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStudentAppointments: invalid filter for student=%d: %v", req.StudentID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetStudentAppointments: repository error for student=%d: %v", req.StudentID, err)
		return nil, fmt.Errorf("%w: GetStudentAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStudentAppointments: successfully fetched %d appointments for student=%d", len(appointments), req.StudentID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetPsychologistAppointments получает записи психолога с фильтрацией.
// Доступно самому психологу и администратору.
//
// Примеры использования:
// - Активные записи: GetPsychologistAppointments(ctx, caller, &GetPsychologistAppointmentsRequest{PsychologistID: 2})
// - Записи на дату: From и To указывают на одну дату
// - Только подтвержденные: Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetPsychologistAppointments(ctx context.Context, caller domain.Caller, req *models.GetPsychologistAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetPsychologistAppointments: fetching appointments for psychologist=%d, user=%d",
		req.PsychologistID, caller.UserID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if !caller.CanManageCalendar(req.PsychologistID) {
		s.logger.Warn("GetPsychologistAppointments: access denied for user=%d to psychologist=%d", caller.UserID, req.PsychologistID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetPsychologistAppointments: invalid filter for psychologist=%d: %v", req.PsychologistID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPsychologistAppointments: repository error for psychologist=%d: %v", req.PsychologistID, err)
		return nil, fmt.Errorf("%w: GetPsychologistAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPsychologistAppointments: successfully fetched %d appointments for psychologist=%d",
		len(appointments), req.PsychologistID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Confirm подтверждает запись (pending -> confirmed)
func (s *Service) Confirm(ctx context.Context, caller domain.Caller, id int64) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, caller, id, domain.StatusConfirmed, nil)
}

// Complete отмечает приём состоявшимся (confirmed -> completed)
func (s *Service) Complete(ctx context.Context, caller domain.Caller, id int64) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, caller, id, domain.StatusCompleted, nil)
}

// MarkNoShow отмечает неявку студента (confirmed -> no_show)
func (s *Service) MarkNoShow(ctx context.Context, caller domain.Caller, id int64) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, caller, id, domain.StatusNoShow, nil)
}

// Cancel отменяет запись (pending|confirmed -> cancelled).
// Отменить может также студент, которому принадлежит запись.
func (s *Service) Cancel(ctx context.Context, caller domain.Caller, id int64, reason *string) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, caller, id, domain.StatusCancelled, reason)
}

// Transition переводит запись в статус target.
// Запись читается с блокировкой, обновление условное по текущему статусу.
// Событие отправляется после коммита.
func (s *Service) Transition(
	ctx context.Context,
	caller domain.Caller,
	id int64,
	target domain.AppointmentStatus,
	reason *string,
) (*models.AppointmentResponse, error) {
	s.logger.Info("Transition: appointment id=%d to status=%s by user=%d", id, target, caller.UserID)

	if reason != nil && utf8.RuneCountInString(*reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	var from domain.AppointmentStatus
	var updated *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("Transition: appointment id=%d not found", id)
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Transition - get appointment: %v", ErrInternal, err)
		}

		// Проверяем права доступа
		if !canTransition(caller, appointment, target) {
			s.logger.Warn("Transition: access denied for user=%d to appointment id=%d", caller.UserID, id)
			return ErrAccessDenied
		}

		from = appointment.Status
		if !from.CanTransitionTo(target) {
			s.logger.Warn("Transition: appointment id=%d cannot go from %s to %s", id, from, target)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
		}

		if target == domain.StatusCancelled {
			err = s.appointmentRepo.Cancel(txCtx, id, from, reason)
		} else {
			err = s.appointmentRepo.UpdateStatus(txCtx, id, from, target)
		}
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusChanged) {
				s.logger.Warn("Transition: appointment id=%d status changed concurrently", id)
				return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
			}
			return fmt.Errorf("%w: Transition - update status: %v", ErrInternal, err)
		}

		updated, err = s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Transition - reload appointment: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Transition: appointment id=%d: %v", id, err)
			return nil, err
		}
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		s.logger.Error("Transition: transaction failed for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info("Transition: appointment id=%d moved %s -> %s", id, from, target)
	s.metrics.IncStatusTransition(string(from), string(target))

	event := domain.NewAppointmentEvent(domain.EventTypeForStatus(target), updated, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Transition: failed to publish event %s for appointment id=%d: %v", event.ID, id, err)
	}

	return models.FromDomainAppointment(updated), nil
}

func canView(caller domain.Caller, a *domain.Appointment) bool {
	return caller.CanManageCalendar(a.PsychologistID) || (caller.IsStudent() && caller.UserID == a.StudentID)
}

func canTransition(caller domain.Caller, a *domain.Appointment, target domain.AppointmentStatus) bool {
	if caller.CanManageCalendar(a.PsychologistID) {
		return true
	}
	return target == domain.StatusCancelled && caller.IsStudent() && caller.UserID == a.StudentID
}
