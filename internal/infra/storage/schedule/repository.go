package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/PSY-AppointmentService/pkg/pgerr"
	"github.com/m04kA/PSY-AppointmentService/pkg/psqlbuilder"
)

const (
	blocksTable         = "schedules"
	unavailabilityTable = "schedule_unavailability"
)

var blockColumns = []string{
	"id",
	"psychologist_id",
	"date",
	"start_time",
	"end_time",
	"is_available",
	"is_blocked",
	"block_reason",
	"created_at",
	"updated_at",
}

var unavailabilityColumns = []string{
	"id",
	"psychologist_id",
	"date",
	"start_time",
	"end_time",
	"reason",
	"created_at",
}

// Repository репозиторий расписания психологов: рабочие блоки и недоступность
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockDay берет транзакционную блокировку дня психолога.
// Бронирование и изменение расписания одного дня выполняются строго по очереди.
// Вне транзакции блокировка бессмысленна, поэтому вызов ничего не делает.
func (r *Repository) LockDay(ctx context.Context, psychologistID int64, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.AdvisoryXactLock(domain.DayLockKey(psychologistID, date)).ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockDay - build lock query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if pgerr.IsSerializationFailure(err) {
			return fmt.Errorf("%w: LockDay: %v", ErrConcurrentUpdate, err)
		}
		return fmt.Errorf("%w: LockDay - execute lock: %v", ErrExecQuery, err)
	}

	return nil
}

// CreateBlock создает блок расписания
func (r *Repository) CreateBlock(ctx context.Context, block *domain.ScheduleBlock) (*domain.ScheduleBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(blocksTable).
		Columns("psychologist_id", "date", "start_time", "end_time", "is_available", "is_blocked", "block_reason").
		Values(block.PsychologistID, block.Date, block.StartTime, block.EndTime, block.IsAvailable, block.IsBlocked, block.BlockReason).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlock - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapWriteError("CreateBlock", err)
	}

	block.CreatedAt = createdAt.Time
	block.UpdatedAt = updatedAt.Time

	return block, nil
}

// GetBlockByID получает блок по ID. В транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetBlockByID(ctx context.Context, id int64) (*domain.ScheduleBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(blockColumns...).
		From(blocksTable).
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockByID - build select query: %v", ErrBuildQuery, err)
	}

	block, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockByID - scan block: %v", ErrScanRow, err)
	}

	return block, nil
}

// UpdateBlock обновляет время и флаги блока
func (r *Repository) UpdateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(blocksTable).
		Set("date", block.Date).
		Set("start_time", block.StartTime).
		Set("end_time", block.EndTime).
		Set("is_available", block.IsAvailable).
		Set("is_blocked", block.IsBlocked).
		Set("block_reason", block.BlockReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": block.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateBlock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError("UpdateBlock", err)
	}

	return checkAffected("UpdateBlock", result, ErrBlockNotFound)
}

// DeleteBlock удаляет блок расписания
func (r *Repository) DeleteBlock(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "DeleteBlock", blocksTable, id, ErrBlockNotFound)
}

// ListBlocks возвращает блоки психолога за период [from, to] упорядоченные по дате и времени
func (r *Repository) ListBlocks(ctx context.Context, psychologistID int64, from, to time.Time) ([]*domain.ScheduleBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From(blocksTable).
		Where(squirrel.Eq{"psychologist_id": psychologistID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: ListBlocks: %v", ErrConcurrentUpdate, err)
		}
		return nil, fmt.Errorf("%w: ListBlocks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.ScheduleBlock, 0)
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBlocks - scan row: %v", ErrScanRow, err)
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// CreateUnavailability создает запись о недоступности психолога
func (r *Repository) CreateUnavailability(ctx context.Context, u *domain.Unavailability) (*domain.Unavailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(unavailabilityTable).
		Columns("psychologist_id", "date", "start_time", "end_time", "reason").
		Values(u.PsychologistID, u.Date, u.StartTime, u.EndTime, u.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateUnavailability - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&u.ID, &createdAt); err != nil {
		return nil, mapWriteError("CreateUnavailability", err)
	}
	u.CreatedAt = createdAt.Time

	return u, nil
}

// GetUnavailabilityByID получает запись о недоступности по ID
func (r *Repository) GetUnavailabilityByID(ctx context.Context, id int64) (*domain.Unavailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(unavailabilityColumns...).
		From(unavailabilityTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUnavailabilityByID - build select query: %v", ErrBuildQuery, err)
	}

	u, err := scanUnavailability(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnavailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetUnavailabilityByID - scan row: %v", ErrScanRow, err)
	}

	return u, nil
}

// DeleteUnavailability удаляет запись о недоступности
func (r *Repository) DeleteUnavailability(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "DeleteUnavailability", unavailabilityTable, id, ErrUnavailabilityNotFound)
}

// ListUnavailability возвращает недоступность психолога за период [from, to]
func (r *Repository) ListUnavailability(ctx context.Context, psychologistID int64, from, to time.Time) ([]*domain.Unavailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(unavailabilityColumns...).
		From(unavailabilityTable).
		Where(squirrel.Eq{"psychologist_id": psychologistID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnavailability - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: ListUnavailability: %v", ErrConcurrentUpdate, err)
		}
		return nil, fmt.Errorf("%w: ListUnavailability - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Unavailability, 0)
	for rows.Next() {
		u, err := scanUnavailability(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListUnavailability - scan row: %v", ErrScanRow, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUnavailability - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) deleteByID(ctx context.Context, op, table string, id int64, notFound error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(op, err)
	}

	return checkAffected(op, result, notFound)
}

func mapWriteError(op string, err error) error {
	switch {
	case pgerr.IsExclusionViolation(err):
		return ErrOverlap
	case pgerr.IsForeignKeyViolation(err):
		return ErrReferenceNotFound
	case pgerr.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %v", ErrConcurrentUpdate, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
	}
}

func checkAffected(op string, result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*domain.ScheduleBlock, error) {
	var block domain.ScheduleBlock
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&block.ID,
		&block.PsychologistID,
		&block.Date,
		&block.StartTime,
		&block.EndTime,
		&block.IsAvailable,
		&block.IsBlocked,
		&block.BlockReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	block.CreatedAt = createdAt.Time
	block.UpdatedAt = updatedAt.Time

	return &block, nil
}

func scanUnavailability(row rowScanner) (*domain.Unavailability, error) {
	var u domain.Unavailability
	var createdAt sql.NullTime

	err := row.Scan(
		&u.ID,
		&u.PsychologistID,
		&u.Date,
		&u.StartTime,
		&u.EndTime,
		&u.Reason,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt = createdAt.Time

	return &u, nil
}
