package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/m04kA/PSY-AppointmentService/migrations"
)

var ErrNoMigrations = errors.New("migrator: no migrations to roll back")

type Logger interface {
	Info(format string, v ...interface{})
}

// Status состояние одной миграции
type Status struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Migrator обертка над goose.Provider со встроенными миграциями
type Migrator struct {
	provider *goose.Provider
	logger   Logger
}

func New(db *sql.DB, logger Logger) (*Migrator, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}

	return &Migrator{
		provider: provider,
		logger:   logger,
	}, nil
}

// Up применяет все pending миграции и возвращает их количество
func (m *Migrator) Up(ctx context.Context) (int, error) {
	m.logger.Info("Applying database migrations...")

	results, err := m.provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	for _, r := range results {
		m.logger.Info("Migration applied: %s (%s)", path.Base(r.Source.Path), r.Duration)
	}
	m.logger.Info("Migrations applied successfully: count=%d", len(results))

	return len(results), nil
}

// Down откатывает последнюю примененную миграцию
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			return ErrNoMigrations
		}
		return fmt.Errorf("rollback migration: %w", err)
	}

	m.logger.Info("Migration rolled back: %s (%s)", path.Base(result.Source.Path), result.Duration)
	return nil
}

func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("get migration status: %w", err)
	}

	result := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		st := Status{
			Version: s.Source.Version,
			Name:    path.Base(s.Source.Path),
			Applied: s.State == goose.StateApplied,
		}
		if st.Applied {
			appliedAt := s.AppliedAt
			st.AppliedAt = &appliedAt
		}
		result = append(result, st)
	}

	return result, nil
}

// Version текущая версия схемы
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}
