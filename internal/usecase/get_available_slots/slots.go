package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

// dayInput данные одного дня психолога
type dayInput struct {
	blocks         []*domain.ScheduleBlock
	appointments   []*domain.Appointment
	unavailability []*domain.Unavailability
}

// groupByDate раскладывает блоки, записи и недоступность по датам
func groupByDate(
	blocks []*domain.ScheduleBlock,
	appointments []*domain.Appointment,
	unavailability []*domain.Unavailability,
) map[string]*dayInput {
	days := make(map[string]*dayInput)
	get := func(date time.Time) *dayInput {
		key := date.Format(domain.DateFormat)
		d, ok := days[key]
		if !ok {
			d = &dayInput{}
			days[key] = d
		}
		return d
	}

	for _, b := range blocks {
		d := get(b.Date)
		d.blocks = append(d.blocks, b)
	}
	for _, a := range appointments {
		d := get(a.Date)
		d.appointments = append(d.appointments, a)
	}
	for _, u := range unavailability {
		d := get(u.Date)
		d.unavailability = append(d.unavailability, u)
	}

	return days
}

// busyIntervals занятые интервалы дня: активные записи и недоступность.
// Записи с некорректным временем пропускаются.
func busyIntervals(day *dayInput) []domain.Interval {
	busy := make([]domain.Interval, 0, len(day.appointments)+len(day.unavailability))

	for _, a := range day.appointments {
		if !a.IsActive() {
			continue
		}
		interval, err := a.Interval()
		if err != nil {
			continue
		}
		busy = append(busy, interval)
	}

	for _, u := range day.unavailability {
		interval, err := u.Interval()
		if err != nil {
			continue
		}
		busy = append(busy, interval)
	}

	return busy
}

// computeDaySlots вычисляет свободные слоты дня.
// Каждый свободный интервал нарезается с его начала с шагом granularity, остаток короче шага отбрасывается.
// Слоты, начинающиеся раньше notBefore (минуты от полуночи), не предлагаются.
func computeDaySlots(date time.Time, day *dayInput, granularity, notBefore int) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)
	if day == nil {
		return slots
	}

	busy := busyIntervals(day)

	for _, block := range day.blocks {
		if !block.IsBookable() {
			continue
		}
		interval, err := block.Interval()
		if err != nil {
			continue
		}

		for _, free := range interval.Subtract(busy) {
			for _, chunk := range free.Chunk(granularity) {
				if chunk.Start < notBefore {
					continue
				}
				slots = append(slots, domain.AvailableSlot{
					Date:      date,
					StartTime: chunk.StartTime(),
					EndTime:   chunk.EndTime(),
				})
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	return slots
}
