package domain

import "time"

// BookingRules правила бронирования, общие для расчета слотов и создания записи
type BookingRules struct {
	DefaultGranularityMinutes int
	MinNoticeMinutes          int // минимальное время до начала записи на сегодня
	MaxRangeDays              int // максимальная длина запрашиваемого периода
	MaxAdvanceDays            int // 0 - без ограничения
}

// DefaultBookingRules правила по умолчанию
func DefaultBookingRules() BookingRules {
	return BookingRules{
		DefaultGranularityMinutes: DefaultSlotGranularityMinutes,
		MaxRangeDays:              31,
	}
}

// EarliestStartToday минимальное допустимое время начала (в минутах от полуночи) для записи на сегодня.
// Может превышать 24*60, тогда на сегодня записаться уже нельзя.
func (r BookingRules) EarliestStartToday(now time.Time) int {
	return now.Hour()*60 + now.Minute() + r.MinNoticeMinutes
}

// LastBookableDate последняя дата, на которую можно записаться. false - ограничения нет.
func (r BookingRules) LastBookableDate(now time.Time) (time.Time, bool) {
	if r.MaxAdvanceDays <= 0 {
		return time.Time{}, false
	}
	return DateOnly(now).AddDate(0, 0, r.MaxAdvanceDays), true
}
