package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/PSY-AppointmentService/pkg/logger"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

const (
	studentID      int64 = 1
	psychologistID int64 = 2
)

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time { return p.now }

var (
	now = time.Date(2030, 3, 1, 8, 0, 0, 0, time.UTC)
	day = time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store *memory.Store
	uc    *UseCase
}

func newFixture(t *testing.T, rules domain.BookingRules) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.AddUser(domain.User{ID: studentID, Name: "Student", Role: domain.RoleStudent})
	store.AddUser(domain.User{ID: psychologistID, Name: "Psychologist", Role: domain.RolePsychologist})

	uc := NewUseCase(store.Appointments(), store.Schedules(), store.Users(), rules, logger.NewNop())
	uc.timeProvider = fixedTimeProvider{now: now}

	return &fixture{store: store, uc: uc}
}

func (f *fixture) addBlock(t *testing.T, date time.Time, start, end string, bookable bool) {
	t.Helper()
	_, err := f.store.Schedules().CreateBlock(context.Background(), &domain.ScheduleBlock{
		PsychologistID: psychologistID,
		Date:           date,
		StartTime:      types.TimeString(start),
		EndTime:        types.TimeString(end),
		IsAvailable:    true,
		IsBlocked:      !bookable,
	})
	require.NoError(t, err)
}

func (f *fixture) addAppointment(t *testing.T, date time.Time, start string, duration int, status domain.AppointmentStatus) *domain.Appointment {
	t.Helper()
	a, err := f.store.Appointments().Create(context.Background(), &domain.Appointment{
		StudentID:       studentID,
		PsychologistID:  psychologistID,
		Date:            date,
		StartTime:       types.TimeString(start),
		DurationMinutes: duration,
		Status:          status,
		Reason:          "consulta",
	})
	require.NoError(t, err)
	return a
}

func startTimes(slots []domain.AvailableSlot) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.StartTime.String() + "-" + s.EndTime.String()
	}
	return result
}

func TestExecute_FreeBlock(t *testing.T) {
	f := newFixture(t, domain.DefaultBookingRules())
	f.addBlock(t, day, "09:00", "12:00", true)

	resp, err := f.uc.Execute(context.Background(), &Request{PsychologistID: psychologistID, Date: day})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00-10:00", "10:00-11:00", "11:00-12:00"}, startTimes(resp.Slots))
	assert.Equal(t, 60, resp.GranularityMinutes)
	assert.Equal(t, day, resp.From)
	assert.Equal(t, day, resp.To)
}

func TestExecute_ConfirmedAppointmentIsExcluded(t *testing.T) {
	f := newFixture(t, domain.DefaultBookingRules())
	f.addBlock(t, day, "09:00", "12:00", true)
	f.addAppointment(t, day, "10:00", 60, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{PsychologistID: psychologistID, Date: day})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00-10:00", "11:00-12:00"}, startTimes(resp.Slots))
}

func TestExecute_SlotsNeverOverlapActiveAppointments(t *testing.T) {
	f := newFixture(t, domain.DefaultBookingRules())
	f.addBlock(t, day, "08:00", "18:00", true)
	booked := []*domain.Appointment{
		f.addAppointment(t, day, "09:15", 45, domain.StatusPending),
		f.addAppointment(t, day, "12:40", 30, domain.StatusConfirmed),
		f.addAppointment(t, day, "16:00", 90, domain.StatusPending),
	}
	f.addAppointment(t, day, "10:00", 60, domain.StatusCancelled)

	resp, err := f.uc.Execute(context.Background(), &Request{PsychologistID: psychologistID, Date: day, GranularityMinutes: 25})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)

	for _, slot := range resp.Slots {
		slotInterval, err := domain.NewInterval(slot.StartTime, slot.EndTime)
		require.NoError(t, err)
		assert.Equal(t, 25, slot.DurationMinutes())
		for _, a := range booked {
			bookedInterval, err := a.Interval()
			require.NoError(t, err)
			assert.False(t, slotInterval.Overlaps(bookedInterval), "slot %s overlaps appointment at %s", slot.StartTime, a.StartTime)
		}
	}

	// Отмененная запись не занимает время
	assert.Contains(t, startTimes(resp.Slots), "10:00-10:25")
}

func TestExecute_Idempotent(t *testing.T) {
	f := newFixture(t, domain.DefaultBookingRules())
	f.addBlock(t, day, "09:00", "17:00", true)
	f.addAppointment(t, day, "13:00", 60, domain.StatusPending)

	req := Request{PsychologistID: psychologistID, Date: day, RangeDays: 3, GranularityMinutes: 30}
	first, err := f.uc.Execute(context.Background(), &req)
	require.NoError(t, err)

	again := Request{PsychologistID: psychologistID, Date: day, RangeDays: 3, GranularityMinutes: 30}
	second, err := f.uc.Execute(context.Background(), &again)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_UnavailabilityAndBlockedBlocks(t *testing.T) {
	f := newFixture(t, domain.DefaultBookingRules())
	f.addBlock(t, day, "09:00", "12:00", true)
	f.addBlock(t, day, "14:00", "16:00", false)

	_, err := f.store.Schedules().CreateUnavailability(context.Background(), &domain.Unavailability{
		PsychologistID: psychologistID,
		Date:           day,
		StartTime:      "09:30",
		EndTime:        "10:00",
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{PsychologistID: psychologistID, Date: day})
	require.NoError(t, err)

	// 09:00-09:30 короче шага и отбрасывается
	assert.Equal(t, []string{"10:00-11:00", "11:00-12:00"}, startTimes(resp.Slots))
}

func TestExecute_RangeOrderedByDate(t *testing.T) {
	f := newFixture(t, domain.DefaultBookingRules())
	next := day.AddDate(0, 0, 1)
	f.addBlock(t, next, "09:00", "10:00", true)
	f.addBlock(t, day, "15:00", "16:00", true)
	f.addBlock(t, day, "09:00", "10:00", true)

	resp, err := f.uc.Execute(context.Background(), &Request{PsychologistID: psychologistID, Date: day, RangeDays: 2})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	assert.Equal(t, day, resp.Slots[0].Date)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "15:00", resp.Slots[1].StartTime.String())
	assert.Equal(t, next, resp.Slots[2].Date)
}

func TestExecute_TodayTolerance(t *testing.T) {
	rules := domain.DefaultBookingRules()
	rules.MinNoticeMinutes = 90
	f := newFixture(t, rules)

	today := domain.DateOnly(now)
	f.addBlock(t, today, "08:00", "12:00", true)

	// now = 08:00, минимум 09:30
	resp, err := f.uc.Execute(context.Background(), &Request{PsychologistID: psychologistID, Date: today})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00-11:00", "11:00-12:00"}, startTimes(resp.Slots))
}

func TestExecute_RangeStartingInPastIsClamped(t *testing.T) {
	f := newFixture(t, domain.DefaultBookingRules())
	today := domain.DateOnly(now)

	resp, err := f.uc.Execute(context.Background(), &Request{
		PsychologistID: psychologistID,
		Date:           today.AddDate(0, 0, -2),
		RangeDays:      5,
	})
	require.NoError(t, err)
	assert.Equal(t, today, resp.From)
	assert.Equal(t, today.AddDate(0, 0, 2), resp.To)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	rules := domain.DefaultBookingRules()
	rules.MaxAdvanceDays = 10
	f := newFixture(t, rules)
	today := domain.DateOnly(now)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{name: "range in past", req: Request{PsychologistID: psychologistID, Date: today.AddDate(0, 0, -3), RangeDays: 2}, want: ErrInvalidDate},
		{name: "too far", req: Request{PsychologistID: psychologistID, Date: today.AddDate(0, 0, 11)}, want: ErrDateTooFarInFuture},
		{name: "zero date", req: Request{PsychologistID: psychologistID}, want: ErrInvalidInput},
		{name: "range too long", req: Request{PsychologistID: psychologistID, Date: day, RangeDays: 32}, want: ErrInvalidInput},
		{name: "negative range", req: Request{PsychologistID: psychologistID, Date: day, RangeDays: -1}, want: ErrInvalidInput},
		{name: "granularity too small", req: Request{PsychologistID: psychologistID, Date: day, GranularityMinutes: 4}, want: ErrInvalidInput},
		{name: "granularity too large", req: Request{PsychologistID: psychologistID, Date: day, GranularityMinutes: 481}, want: ErrInvalidInput},
		{name: "unknown psychologist", req: Request{PsychologistID: 99, Date: day}, want: ErrPsychologistNotFound},
		{name: "not a psychologist", req: Request{PsychologistID: studentID, Date: day}, want: ErrPsychologistNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.uc.Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecute_EndClampedToAdvanceHorizon(t *testing.T) {
	rules := domain.DefaultBookingRules()
	rules.MaxAdvanceDays = 4
	f := newFixture(t, rules)

	resp, err := f.uc.Execute(context.Background(), &Request{PsychologistID: psychologistID, Date: day, RangeDays: 7})
	require.NoError(t, err)
	assert.Equal(t, domain.DateOnly(now).AddDate(0, 0, 4), resp.To)
}
