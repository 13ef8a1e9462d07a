package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

var day = time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

func newSeededStore() *Store {
	s := NewStore()
	s.AddUser(domain.User{ID: 1, Name: "Student", Role: domain.RoleStudent})
	s.AddUser(domain.User{ID: 2, Name: "Psychologist", Role: domain.RolePsychologist})
	return s
}

func newAppointment(start string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		StudentID:       1,
		PsychologistID:  2,
		Date:            day,
		StartTime:       types.TimeString(start),
		DurationMinutes: 60,
		Status:          status,
		Reason:          "consulta",
	}
}

func TestAppointmentRepository_CreateRejectsSecondActiveAtSameStart(t *testing.T) {
	s := newSeededStore()
	repo := s.Appointments()
	ctx := context.Background()

	first, err := repo.Create(ctx, newAppointment("10:00", domain.StatusPending))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	_, err = repo.Create(ctx, newAppointment("10:00", domain.StatusConfirmed))
	assert.ErrorIs(t, err, appointment.ErrSlotTaken)

	// После отмены время снова можно занять
	require.NoError(t, repo.Cancel(ctx, first.ID, domain.StatusPending, nil))
	_, err = repo.Create(ctx, newAppointment("10:00", domain.StatusPending))
	assert.NoError(t, err)
}

func TestAppointmentRepository_CreateUnknownUser(t *testing.T) {
	s := newSeededStore()
	a := newAppointment("10:00", domain.StatusPending)
	a.StudentID = 99

	_, err := s.Appointments().Create(context.Background(), a)
	assert.ErrorIs(t, err, appointment.ErrReferenceNotFound)
}

func TestAppointmentRepository_UpdateStatusIsConditional(t *testing.T) {
	s := newSeededStore()
	repo := s.Appointments()
	ctx := context.Background()

	a, err := repo.Create(ctx, newAppointment("10:00", domain.StatusPending))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, a.ID, domain.StatusPending, domain.StatusConfirmed))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, a.ID, domain.StatusPending, domain.StatusCancelled), appointment.ErrStatusChanged)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, appointment.ErrAppointmentNotFound)
}

func TestAppointmentRepository_GetByFilter(t *testing.T) {
	s := newSeededStore()
	repo := s.Appointments()
	ctx := context.Background()

	late, err := repo.Create(ctx, newAppointment("15:00", domain.StatusPending))
	require.NoError(t, err)

	early, err := repo.Create(ctx, newAppointment("10:00", domain.StatusPending))
	require.NoError(t, err)
	require.NoError(t, repo.Cancel(ctx, early.ID, domain.StatusPending, nil))

	psychologistID := int64(2)
	active, err := repo.GetByFilter(ctx, domain.AppointmentFilter{PsychologistID: &psychologistID, StartDate: &day, EndDate: &day})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, late.ID, active[0].ID)

	all, err := repo.GetByFilter(ctx, domain.AppointmentFilter{PsychologistID: &psychologistID, IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID)

	cancelled := domain.StatusCancelled
	onlyCancelled, err := repo.GetByFilter(ctx, domain.AppointmentFilter{Status: &cancelled})
	require.NoError(t, err)
	require.Len(t, onlyCancelled, 1)
	assert.NotNil(t, onlyCancelled[0].CancelledAt)
}

func TestScheduleRepository_CreateBlockOverlap(t *testing.T) {
	s := newSeededStore()
	repo := s.Schedules()
	ctx := context.Background()

	_, err := repo.CreateBlock(ctx, &domain.ScheduleBlock{PsychologistID: 2, Date: day, StartTime: "09:00", EndTime: "12:00", IsAvailable: true})
	require.NoError(t, err)

	_, err = repo.CreateBlock(ctx, &domain.ScheduleBlock{PsychologistID: 2, Date: day, StartTime: "11:00", EndTime: "13:00", IsAvailable: true})
	assert.ErrorIs(t, err, schedule.ErrOverlap)

	// Соприкосновение допустимо
	_, err = repo.CreateBlock(ctx, &domain.ScheduleBlock{PsychologistID: 2, Date: day, StartTime: "12:00", EndTime: "13:00", IsAvailable: true})
	assert.NoError(t, err)

	blocks, err := repo.ListBlocks(ctx, 2, day, day)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "09:00", blocks[0].StartTime.String())
}

func TestScheduleRepository_DeleteMissing(t *testing.T) {
	s := newSeededStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.Schedules().DeleteBlock(ctx, 7), schedule.ErrBlockNotFound)
	assert.ErrorIs(t, s.Schedules().DeleteUnavailability(ctx, 7), schedule.ErrUnavailabilityNotFound)

	_, err := s.Users().GetByID(ctx, 7)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	s := newSeededStore()
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := s.TxManager().DoSerializable(ctx, func(ctx context.Context) error {
		if _, err := s.Schedules().CreateBlock(ctx, &domain.ScheduleBlock{PsychologistID: 2, Date: day, StartTime: "09:00", EndTime: "10:00", IsAvailable: true}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	blocks, err := s.Schedules().ListBlocks(ctx, 2, day, day)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestTxManager_CommitAndNested(t *testing.T) {
	s := newSeededStore()
	ctx := context.Background()
	tx := s.TxManager()

	err := tx.Do(ctx, func(ctx context.Context) error {
		return tx.DoSerializable(ctx, func(ctx context.Context) error {
			_, err := s.Schedules().CreateBlock(ctx, &domain.ScheduleBlock{PsychologistID: 2, Date: day, StartTime: "09:00", EndTime: "10:00", IsAvailable: true})
			return err
		})
	})
	require.NoError(t, err)

	blocks, err := s.Schedules().ListBlocks(ctx, 2, day, day)
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}

func TestTxManager_RollbackOnPanic(t *testing.T) {
	s := newSeededStore()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.TxManager().Do(ctx, func(ctx context.Context) error {
			_, _ = s.Appointments().Create(ctx, newAppointment("10:00", domain.StatusPending))
			panic("boom")
		})
	})

	all, err := s.Appointments().GetByFilter(ctx, domain.AppointmentFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, all)
}
