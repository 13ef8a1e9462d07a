package schedule

import (
	"context"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	LockDay(ctx context.Context, psychologistID int64, date time.Time) error
	CreateBlock(ctx context.Context, block *domain.ScheduleBlock) (*domain.ScheduleBlock, error)
	GetBlockByID(ctx context.Context, id int64) (*domain.ScheduleBlock, error)
	UpdateBlock(ctx context.Context, block *domain.ScheduleBlock) error
	DeleteBlock(ctx context.Context, id int64) error
	ListBlocks(ctx context.Context, psychologistID int64, from, to time.Time) ([]*domain.ScheduleBlock, error)
	CreateUnavailability(ctx context.Context, u *domain.Unavailability) (*domain.Unavailability, error)
	GetUnavailabilityByID(ctx context.Context, id int64) (*domain.Unavailability, error)
	DeleteUnavailability(ctx context.Context, id int64) error
	ListUnavailability(ctx context.Context, psychologistID int64, from, to time.Time) ([]*domain.Unavailability, error)
}

// UserRepository интерфейс справочника пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
