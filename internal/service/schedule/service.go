package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/schedule"
	userRepo "github.com/m04kA/PSY-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/PSY-AppointmentService/pkg/txmanager"
)

// maxScheduleRangeDays максимальный период выборки расписания
const maxScheduleRangeDays = 366

// Service сервис для управления расписанием психологов
type Service struct {
	scheduleRepo ScheduleRepository
	userRepo     UserRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// CreateBlock создает блок расписания.
// Доступно самому психологу и администратору.
func (s *Service) CreateBlock(ctx context.Context, caller domain.Caller, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: creating block for psychologist=%d, date=%s, %s-%s by user=%d",
		req.PsychologistID, req.Block.Date.Format(domain.DateFormat), req.Block.StartTime, req.Block.EndTime, caller.UserID)

	// 1. Проверяем права доступа
	if !caller.CanManageCalendar(req.PsychologistID) {
		s.logger.Warn("CreateBlock: access denied for user=%d to psychologist=%d", caller.UserID, req.PsychologistID)
		return nil, ErrAccessDenied
	}

	// 2. Валидируем блок
	block := req.Block.ToDomain(req.PsychologistID)
	if err := validateBlock(&block); err != nil {
		s.logger.Warn("CreateBlock: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем психолога
	if err := s.checkPsychologist(ctx, "CreateBlock", req.PsychologistID); err != nil {
		return nil, err
	}

	// 4. Создаем блок под блокировкой дня
	var created *domain.ScheduleBlock
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.scheduleRepo.LockDay(ctx, block.PsychologistID, block.Date); err != nil {
			return err
		}

		existing, err := s.scheduleRepo.ListBlocks(ctx, block.PsychologistID, block.Date, block.Date)
		if err != nil {
			return err
		}
		if err := checkOverlap([]domain.ScheduleBlock{block}, existing); err != nil {
			return err
		}

		created, err = s.scheduleRepo.CreateBlock(ctx, &block)
		return err
	})
	if err != nil {
		return nil, s.handleWriteError("CreateBlock", err)
	}

	s.logger.Info("CreateBlock: successfully created block id=%d", created.ID)
	return models.FromDomainBlock(created), nil
}

// BulkCreate создает набор блоков и блоки из недельного шаблона.
// Либо создаются все блоки, либо ни одного.
func (s *Service) BulkCreate(ctx context.Context, caller domain.Caller, req *models.BulkCreateRequest) (*models.BlockListResponse, error) {
	s.logger.Info("BulkCreate: creating %d blocks (pattern=%t) for psychologist=%d by user=%d",
		len(req.Blocks), req.Pattern != nil, req.PsychologistID, caller.UserID)

	// 1. Проверяем права доступа
	if !caller.CanManageCalendar(req.PsychologistID) {
		s.logger.Warn("BulkCreate: access denied for user=%d to psychologist=%d", caller.UserID, req.PsychologistID)
		return nil, ErrAccessDenied
	}

	// 2. Собираем и валидируем пакет
	batch, err := buildBatch(req)
	if err != nil {
		s.logger.Warn("BulkCreate: validation failed: %v", err)
		return nil, err
	}

	// Пересечения внутри пакета
	if err := checkOverlap(batch, nil); err != nil {
		s.logger.Warn("BulkCreate: blocks overlap within batch for psychologist=%d", req.PsychologistID)
		return nil, err
	}

	// 3. Проверяем психолога
	if err := s.checkPsychologist(ctx, "BulkCreate", req.PsychologistID); err != nil {
		return nil, err
	}

	// 4. Создаем блоки одной транзакцией
	dates := distinctDates(batch)
	created := make([]*domain.ScheduleBlock, 0, len(batch))
	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		for _, date := range dates {
			if err := s.scheduleRepo.LockDay(ctx, req.PsychologistID, date); err != nil {
				return err
			}
		}

		existing, err := s.scheduleRepo.ListBlocks(ctx, req.PsychologistID, dates[0], dates[len(dates)-1])
		if err != nil {
			return err
		}
		if err := checkOverlap(batch, existing); err != nil {
			return err
		}

		for i := range batch {
			block, err := s.scheduleRepo.CreateBlock(ctx, &batch[i])
			if err != nil {
				return err
			}
			created = append(created, block)
		}
		return nil
	})
	if err != nil {
		return nil, s.handleWriteError("BulkCreate", err)
	}

	s.logger.Info("BulkCreate: successfully created %d blocks for psychologist=%d", len(created), req.PsychologistID)
	return models.FromDomainBlockList(created), nil
}

// UpdateBlock обновляет время, флаги доступности и причину блокировки
func (s *Service) UpdateBlock(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("UpdateBlock: updating block id=%d by user=%d", id, caller.UserID)

	var updated *domain.ScheduleBlock
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// 1. Получаем блок
		block, err := s.scheduleRepo.GetBlockByID(ctx, id)
		if err != nil {
			return err
		}

		// 2. Проверяем права доступа
		if !caller.CanManageCalendar(block.PsychologistID) {
			s.logger.Warn("UpdateBlock: access denied for user=%d to psychologist=%d", caller.UserID, block.PsychologistID)
			return ErrAccessDenied
		}

		// 3. Применяем обновления и валидируем
		oldDate := block.Date
		req.ApplyToBlock(block)
		if err := validateBlock(block); err != nil {
			return err
		}

		// 4. Блокируем старую и новую даты
		for _, date := range distinctDates([]domain.ScheduleBlock{{Date: oldDate}, {Date: block.Date}}) {
			if err := s.scheduleRepo.LockDay(ctx, block.PsychologistID, date); err != nil {
				return err
			}
		}

		existing, err := s.scheduleRepo.ListBlocks(ctx, block.PsychologistID, block.Date, block.Date)
		if err != nil {
			return err
		}
		if err := checkOverlap([]domain.ScheduleBlock{*block}, existing); err != nil {
			return err
		}

		// 5. Сохраняем
		if err := s.scheduleRepo.UpdateBlock(ctx, block); err != nil {
			return err
		}

		updated, err = s.scheduleRepo.GetBlockByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.handleWriteError("UpdateBlock", err)
	}

	s.logger.Info("UpdateBlock: successfully updated block id=%d", id)
	return models.FromDomainBlock(updated), nil
}

// DeleteBlock удаляет блок расписания.
// Существующие записи на этот интервал не затрагиваются.
func (s *Service) DeleteBlock(ctx context.Context, caller domain.Caller, id int64) error {
	s.logger.Info("DeleteBlock: deleting block id=%d by user=%d", id, caller.UserID)

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		block, err := s.scheduleRepo.GetBlockByID(ctx, id)
		if err != nil {
			return err
		}

		if !caller.CanManageCalendar(block.PsychologistID) {
			s.logger.Warn("DeleteBlock: access denied for user=%d to psychologist=%d", caller.UserID, block.PsychologistID)
			return ErrAccessDenied
		}

		if err := s.scheduleRepo.LockDay(ctx, block.PsychologistID, block.Date); err != nil {
			return err
		}
		return s.scheduleRepo.DeleteBlock(ctx, id)
	})
	if err != nil {
		return s.handleWriteError("DeleteBlock", err)
	}

	s.logger.Info("DeleteBlock: successfully deleted block id=%d", id)
	return nil
}

// GetSchedule получает блоки и недоступность психолога за период [From, To].
// Доступно самому психологу и администратору.
func (s *Service) GetSchedule(ctx context.Context, caller domain.Caller, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	from := domain.DateOnly(req.From)
	to := domain.DateOnly(req.To)

	s.logger.Info("GetSchedule: fetching schedule for psychologist=%d, period=%s to %s, user=%d",
		req.PsychologistID, from.Format(domain.DateFormat), to.Format(domain.DateFormat), caller.UserID)

	if !caller.CanManageCalendar(req.PsychologistID) {
		s.logger.Warn("GetSchedule: access denied for user=%d to psychologist=%d", caller.UserID, req.PsychologistID)
		return nil, ErrAccessDenied
	}

	if req.From.IsZero() || req.To.IsZero() || from.After(to) {
		return nil, fmt.Errorf("%w: invalid period", ErrInvalidInput)
	}
	if to.Sub(from) >= maxScheduleRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period must not exceed %d days", ErrInvalidInput, maxScheduleRangeDays)
	}

	blocks, err := s.scheduleRepo.ListBlocks(ctx, req.PsychologistID, from, to)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for psychologist=%d: %v", req.PsychologistID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	unavailability, err := s.scheduleRepo.ListUnavailability(ctx, req.PsychologistID, from, to)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for psychologist=%d: %v", req.PsychologistID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSchedule: successfully fetched %d blocks and %d unavailability records for psychologist=%d",
		len(blocks), len(unavailability), req.PsychologistID)
	return models.FromDomainSchedule(req.PsychologistID, from, to, blocks, unavailability), nil
}

// CreateUnavailability создает период недоступности психолога
func (s *Service) CreateUnavailability(ctx context.Context, caller domain.Caller, req *models.CreateUnavailabilityRequest) (*models.UnavailabilityResponse, error) {
	s.logger.Info("CreateUnavailability: creating unavailability for psychologist=%d, date=%s, %s-%s by user=%d",
		req.PsychologistID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, caller.UserID)

	if !caller.CanManageCalendar(req.PsychologistID) {
		s.logger.Warn("CreateUnavailability: access denied for user=%d to psychologist=%d", caller.UserID, req.PsychologistID)
		return nil, ErrAccessDenied
	}

	unavailability := domain.Unavailability{
		PsychologistID: req.PsychologistID,
		Date:           domain.DateOnly(req.Date),
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Reason:         req.Reason,
	}
	if err := validateUnavailability(&unavailability); err != nil {
		s.logger.Warn("CreateUnavailability: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkPsychologist(ctx, "CreateUnavailability", req.PsychologistID); err != nil {
		return nil, err
	}

	var created *domain.Unavailability
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.scheduleRepo.LockDay(ctx, unavailability.PsychologistID, unavailability.Date); err != nil {
			return err
		}

		var err error
		created, err = s.scheduleRepo.CreateUnavailability(ctx, &unavailability)
		return err
	})
	if err != nil {
		return nil, s.handleWriteError("CreateUnavailability", err)
	}

	s.logger.Info("CreateUnavailability: successfully created unavailability id=%d", created.ID)
	return models.FromDomainUnavailability(created), nil
}

// DeleteUnavailability удаляет период недоступности
func (s *Service) DeleteUnavailability(ctx context.Context, caller domain.Caller, id int64) error {
	s.logger.Info("DeleteUnavailability: deleting unavailability id=%d by user=%d", id, caller.UserID)

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		unavailability, err := s.scheduleRepo.GetUnavailabilityByID(ctx, id)
		if err != nil {
			return err
		}

		if !caller.CanManageCalendar(unavailability.PsychologistID) {
			s.logger.Warn("DeleteUnavailability: access denied for user=%d to psychologist=%d",
				caller.UserID, unavailability.PsychologistID)
			return ErrAccessDenied
		}

		if err := s.scheduleRepo.LockDay(ctx, unavailability.PsychologistID, unavailability.Date); err != nil {
			return err
		}
		return s.scheduleRepo.DeleteUnavailability(ctx, id)
	})
	if err != nil {
		return s.handleWriteError("DeleteUnavailability", err)
	}

	s.logger.Info("DeleteUnavailability: successfully deleted unavailability id=%d", id)
	return nil
}

// Вспомогательные методы

// checkPsychologist проверяет, что пользователь существует и является психологом
func (s *Service) checkPsychologist(ctx context.Context, op string, psychologistID int64) error {
	user, err := s.userRepo.GetByID(ctx, psychologistID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("%s: psychologist id=%d not found", op, psychologistID)
			return ErrPsychologistNotFound
		}
		s.logger.Error("%s: failed to get psychologist id=%d: %v", op, psychologistID, err)
		return fmt.Errorf("%w: %s - failed to get psychologist: %v", ErrInternal, op, err)
	}
	if user.Role != domain.RolePsychologist {
		s.logger.Warn("%s: user id=%d is not a psychologist (role=%s)", op, psychologistID, user.Role)
		return ErrPsychologistNotFound
	}
	return nil
}

// handleWriteError переводит ошибки транзакции в ошибки сервиса
func (s *Service) handleWriteError(op string, err error) error {
	switch {
	case errors.Is(err, ErrAccessDenied), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrOverlap):
		s.logger.Warn("%s: %v", op, err)
		return err
	case errors.Is(err, scheduleRepo.ErrOverlap),
		errors.Is(err, scheduleRepo.ErrConcurrentUpdate),
		errors.Is(err, txmanager.ErrSerializationFailure):
		// Конкурентная запись в тот же день трактуется как пересечение
		s.logger.Warn("%s: block overlaps existing block: %v", op, err)
		return ErrOverlap
	case errors.Is(err, scheduleRepo.ErrBlockNotFound):
		s.logger.Warn("%s: schedule block not found", op)
		return ErrBlockNotFound
	case errors.Is(err, scheduleRepo.ErrUnavailabilityNotFound):
		s.logger.Warn("%s: unavailability not found", op)
		return ErrUnavailabilityNotFound
	case errors.Is(err, scheduleRepo.ErrReferenceNotFound):
		s.logger.Warn("%s: psychologist not found", op)
		return ErrPsychologistNotFound
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// buildBatch собирает блоки пакета из явного списка и недельного шаблона
func buildBatch(req *models.BulkCreateRequest) ([]domain.ScheduleBlock, error) {
	batch := make([]domain.ScheduleBlock, 0, len(req.Blocks))
	for _, input := range req.Blocks {
		batch = append(batch, input.ToDomain(req.PsychologistID))
	}

	if req.Pattern != nil {
		expanded, err := req.Pattern.Expand(req.PsychologistID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		batch = append(batch, expanded...)
	}

	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: no blocks to create", ErrInvalidInput)
	}
	if len(batch) > domain.MaxBulkBlocks {
		return nil, fmt.Errorf("%w: at most %d blocks per request", ErrInvalidInput, domain.MaxBulkBlocks)
	}

	for i := range batch {
		if err := validateBlock(&batch[i]); err != nil {
			return nil, fmt.Errorf("block #%d: %w", i, err)
		}
	}

	return batch, nil
}

// validateBlock проверяет интервал и причину блокировки
func validateBlock(block *domain.ScheduleBlock) error {
	if block.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := block.Interval(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if block.BlockReason != nil && utf8.RuneCountInString(*block.BlockReason) > domain.MaxBlockReasonLength {
		return fmt.Errorf("%w: block reason must not exceed %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}
	return nil
}

// validateUnavailability проверяет интервал и причину недоступности
func validateUnavailability(u *domain.Unavailability) error {
	if u.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := u.Interval(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if u.Reason != nil && utf8.RuneCountInString(*u.Reason) > domain.MaxBlockReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}
	return nil
}

// checkOverlap проверяет, что блоки не пересекаются между собой и с существующими.
// Блок с тем же ID, что и существующий, считается его новой версией.
func checkOverlap(candidates []domain.ScheduleBlock, existing []*domain.ScheduleBlock) error {
	all := make([]domain.ScheduleBlock, 0, len(candidates)+len(existing))
	all = append(all, candidates...)

	replaced := make(map[int64]bool, len(candidates))
	for _, c := range candidates {
		if c.ID != 0 {
			replaced[c.ID] = true
		}
	}
	for _, e := range existing {
		if !replaced[e.ID] {
			all = append(all, *e)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		return all[i].StartTime.IsBefore(all[j].StartTime)
	})

	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if !prev.Date.Equal(cur.Date) {
			continue
		}
		prevInterval, err := prev.Interval()
		if err != nil {
			continue
		}
		curInterval, err := cur.Interval()
		if err != nil {
			continue
		}
		if prevInterval.Overlaps(curInterval) {
			return fmt.Errorf("%w: %s %s-%s overlaps %s-%s", ErrOverlap,
				cur.Date.Format(domain.DateFormat), cur.StartTime, cur.EndTime, prev.StartTime, prev.EndTime)
		}
	}

	return nil
}

// distinctDates возвращает отсортированные уникальные даты блоков.
// Дни блокируются в этом порядке.
func distinctDates(blocks []domain.ScheduleBlock) []time.Time {
	seen := make(map[string]bool, len(blocks))
	dates := make([]time.Time, 0, len(blocks))
	for _, b := range blocks {
		key := b.Date.Format(domain.DateFormat)
		if seen[key] {
			continue
		}
		seen[key] = true
		dates = append(dates, domain.DateOnly(b.Date))
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
