package domain

import (
	"sort"

	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// Interval полуоткрытый интервал времени [Start, End) в минутах от начала суток
type Interval struct {
	Start int
	End   int
}

// NewInterval создает интервал из времени начала и конца
func NewInterval(start, end types.TimeString) (Interval, error) {
	if err := start.Validate(); err != nil {
		return Interval{}, err
	}
	if err := end.Validate(); err != nil {
		return Interval{}, err
	}
	if !start.IsBefore(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start.Minutes(), End: end.Minutes()}, nil
}

// Length длительность в минутах
func (i Interval) Length() int {
	return i.End - i.Start
}

// Overlaps интервалы пересекаются. Соприкосновение (10:00-11:00 и 11:00-12:00) не считается.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// StartTime начало интервала как TimeString
func (i Interval) StartTime() types.TimeString {
	t, _ := types.NewTimeStringFromMinutes(i.Start)
	return t
}

// EndTime конец интервала как TimeString
func (i Interval) EndTime() types.TimeString {
	t, _ := types.NewTimeStringFromMinutes(i.End)
	return t
}

// Subtract вычитает из интервала список занятых интервалов.
// Результат упорядочен по началу и не содержит пустых интервалов.
func (i Interval) Subtract(busy []Interval) []Interval {
	sorted := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if b.Overlaps(i) {
			sorted = append(sorted, b)
		}
	}
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Start < sorted[b].Start })

	free := make([]Interval, 0, len(sorted)+1)
	cursor := i.Start

	for _, b := range sorted {
		if b.Start > cursor {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End > cursor {
			cursor = b.End
		}
		if cursor >= i.End {
			break
		}
	}

	if cursor < i.End {
		free = append(free, Interval{Start: cursor, End: i.End})
	}

	return free
}

// Chunk нарезает интервал на куски длиной step минут начиная с Start.
// Остаток короче step отбрасывается.
func (i Interval) Chunk(step int) []Interval {
	if step <= 0 {
		return nil
	}

	chunks := make([]Interval, 0, i.Length()/step)
	for start := i.Start; start+step <= i.End; start += step {
		chunks = append(chunks, Interval{Start: start, End: start + step})
	}
	return chunks
}
