package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	LockDay(ctx context.Context, psychologistID int64, date time.Time) error
	ListBlocks(ctx context.Context, psychologistID int64, from, to time.Time) ([]*domain.ScheduleBlock, error)
	ListUnavailability(ctx context.Context, psychologistID int64, from, to time.Time) ([]*domain.Unavailability, error)
}

// UserRepository интерфейс справочника пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс отправки событий записей
type EventPublisher interface {
	Publish(ctx context.Context, event domain.AppointmentEvent) error
}

// Metrics бизнес-метрики бронирования
type Metrics interface {
	IncAppointmentBooked(status string)
	IncBookingConflict(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
