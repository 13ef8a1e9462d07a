package domain

import (
	"time"

	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// ScheduleBlock окно работы психолога на конкретную дату.
// Блоки одного психолога на одну дату не пересекаются.
type ScheduleBlock struct {
	ID             int64
	PsychologistID int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	IsAvailable    bool
	IsBlocked      bool
	BlockReason    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsBookable в блок можно записываться
func (b *ScheduleBlock) IsBookable() bool {
	return b.IsAvailable && !b.IsBlocked
}

// Interval интервал блока
func (b *ScheduleBlock) Interval() (Interval, error) {
	return NewInterval(b.StartTime, b.EndTime)
}

// Unavailability явный период недоступности психолога (перерыв, совещание и т.п.).
// Может пересекаться с блоками расписания и вычитается из них.
type Unavailability struct {
	ID             int64
	PsychologistID int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	Reason         *string
	CreatedAt      time.Time
}

// Interval интервал недоступности
func (u *Unavailability) Interval() (Interval, error) {
	return NewInterval(u.StartTime, u.EndTime)
}

// WeeklyPattern повторяющийся по дням недели блок в диапазоне дат [From, To]
type WeeklyPattern struct {
	From      time.Time
	To        time.Time
	Weekdays  []time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Expand разворачивает шаблон в доступные блоки психолога, по одному на каждую подходящую дату
func (p WeeklyPattern) Expand(psychologistID int64) ([]ScheduleBlock, error) {
	if _, err := NewInterval(p.StartTime, p.EndTime); err != nil {
		return nil, err
	}

	from := DateOnly(p.From)
	to := DateOnly(p.To)
	if p.From.IsZero() || p.To.IsZero() || from.After(to) {
		return nil, ErrInvalidPattern
	}
	if len(p.Weekdays) == 0 {
		return nil, ErrInvalidPattern
	}

	days := make(map[time.Weekday]bool, len(p.Weekdays))
	for _, wd := range p.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, ErrInvalidPattern
		}
		days[wd] = true
	}

	blocks := make([]ScheduleBlock, 0)
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if !days[date.Weekday()] {
			continue
		}
		blocks = append(blocks, ScheduleBlock{
			PsychologistID: psychologistID,
			Date:           date,
			StartTime:      p.StartTime,
			EndTime:        p.EndTime,
			IsAvailable:    true,
		})
		if len(blocks) > MaxBulkBlocks {
			return nil, ErrTooManyBlocks
		}
	}

	return blocks, nil
}
