package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/storage/schedule"
)

// ScheduleRepository блоки расписания и недоступность в памяти
type ScheduleRepository struct {
	store *Store
}

// LockDay ничего не делает: транзакция хранилища и так исключительная
func (r *ScheduleRepository) LockDay(ctx context.Context, psychologistID int64, date time.Time) error {
	return nil
}

func (r *ScheduleRepository) CreateBlock(ctx context.Context, block *domain.ScheduleBlock) (*domain.ScheduleBlock, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.users[block.PsychologistID]; !ok {
		return nil, schedule.ErrReferenceNotFound
	}
	if r.store.blockOverlaps(*block) {
		return nil, schedule.ErrOverlap
	}

	r.store.nextBlockID++
	now := time.Now().UTC()

	block.ID = r.store.nextBlockID
	block.CreatedAt = now
	block.UpdatedAt = now
	r.store.blocks[block.ID] = *block

	return block, nil
}

func (r *ScheduleRepository) GetBlockByID(ctx context.Context, id int64) (*domain.ScheduleBlock, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	b, ok := r.store.blocks[id]
	if !ok {
		return nil, schedule.ErrBlockNotFound
	}
	return &b, nil
}

func (r *ScheduleRepository) UpdateBlock(ctx context.Context, block *domain.ScheduleBlock) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	existing, ok := r.store.blocks[block.ID]
	if !ok {
		return schedule.ErrBlockNotFound
	}
	if r.store.blockOverlaps(*block) {
		return schedule.ErrOverlap
	}

	updated := *block
	updated.PsychologistID = existing.PsychologistID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.store.blocks[block.ID] = updated

	return nil
}

func (r *ScheduleRepository) DeleteBlock(ctx context.Context, id int64) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.blocks[id]; !ok {
		return schedule.ErrBlockNotFound
	}
	delete(r.store.blocks, id)
	return nil
}

func (r *ScheduleRepository) ListBlocks(ctx context.Context, psychologistID int64, from, to time.Time) ([]*domain.ScheduleBlock, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	result := make([]*domain.ScheduleBlock, 0)
	for _, b := range r.store.blocks {
		if b.PsychologistID != psychologistID || !inRange(b.Date, from, to) {
			continue
		}
		b := b
		result = append(result, &b)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})

	return result, nil
}

func (r *ScheduleRepository) CreateUnavailability(ctx context.Context, u *domain.Unavailability) (*domain.Unavailability, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.users[u.PsychologistID]; !ok {
		return nil, schedule.ErrReferenceNotFound
	}

	r.store.nextUnavailabilityID++
	u.ID = r.store.nextUnavailabilityID
	u.CreatedAt = time.Now().UTC()
	r.store.unavailability[u.ID] = *u

	return u, nil
}

func (r *ScheduleRepository) GetUnavailabilityByID(ctx context.Context, id int64) (*domain.Unavailability, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	u, ok := r.store.unavailability[id]
	if !ok {
		return nil, schedule.ErrUnavailabilityNotFound
	}
	return &u, nil
}

func (r *ScheduleRepository) DeleteUnavailability(ctx context.Context, id int64) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.unavailability[id]; !ok {
		return schedule.ErrUnavailabilityNotFound
	}
	delete(r.store.unavailability, id)
	return nil
}

func (r *ScheduleRepository) ListUnavailability(ctx context.Context, psychologistID int64, from, to time.Time) ([]*domain.Unavailability, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	result := make([]*domain.Unavailability, 0)
	for _, u := range r.store.unavailability {
		if u.PsychologistID != psychologistID || !inRange(u.Date, from, to) {
			continue
		}
		u := u
		result = append(result, &u)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})

	return result, nil
}

// blockOverlaps аналог ограничения исключения schedules_no_overlap
func (s *Store) blockOverlaps(block domain.ScheduleBlock) bool {
	candidate, err := block.Interval()
	if err != nil {
		return false
	}
	for id, existing := range s.blocks {
		if id == block.ID || existing.PsychologistID != block.PsychologistID || !existing.Date.Equal(block.Date) {
			continue
		}
		interval, err := existing.Interval()
		if err != nil {
			continue
		}
		if interval.Overlaps(candidate) {
			return true
		}
	}
	return false
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}
