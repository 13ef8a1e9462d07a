package appointments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/PSY-AppointmentService/internal/service/appointments/models"
	getAvailableSlotsUC "github.com/m04kA/PSY-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/PSY-AppointmentService/pkg/logger"
	"github.com/m04kA/PSY-AppointmentService/pkg/metrics"
	"github.com/m04kA/PSY-AppointmentService/pkg/ptr"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

const (
	studentID      int64 = 1
	psychologistID int64 = 2
	otherPsychID   int64 = 3
	adminID        int64 = 4
	otherStudentID int64 = 5
)

var (
	student      = domain.Caller{UserID: studentID, Role: domain.RoleStudent}
	otherStudent = domain.Caller{UserID: otherStudentID, Role: domain.RoleStudent}
	psychologist = domain.Caller{UserID: psychologistID, Role: domain.RolePsychologist}
	otherPsych   = domain.Caller{UserID: otherPsychID, Role: domain.RolePsychologist}
	admin        = domain.Caller{UserID: adminID, Role: domain.RoleAdmin}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.AppointmentEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	store     *memory.Store
	publisher *recordingPublisher
	svc       *Service
	day       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.AddUser(domain.User{ID: studentID, Role: domain.RoleStudent})
	store.AddUser(domain.User{ID: psychologistID, Role: domain.RolePsychologist})
	store.AddUser(domain.User{ID: otherPsychID, Role: domain.RolePsychologist})
	store.AddUser(domain.User{ID: adminID, Role: domain.RoleAdmin})
	store.AddUser(domain.User{ID: otherStudentID, Role: domain.RoleStudent})

	publisher := &recordingPublisher{}
	svc := NewService(
		store.Appointments(),
		store.TxManager(),
		publisher,
		metrics.NewWithRegistry("test", prometheus.NewRegistry()),
		logger.NewNop(),
	)

	return &fixture{
		store:     store,
		publisher: publisher,
		svc:       svc,
		day:       domain.DateOnly(time.Now()).AddDate(0, 0, 7),
	}
}

func (f *fixture) book(t *testing.T, start string, status domain.AppointmentStatus) int64 {
	t.Helper()
	a := &domain.Appointment{
		StudentID:       studentID,
		PsychologistID:  psychologistID,
		Date:            f.day,
		StartTime:       types.TimeString(start),
		DurationMinutes: 60,
		Status:          status,
		Reason:          "consulta",
	}
	created, err := f.store.Appointments().Create(context.Background(), a)
	require.NoError(t, err)
	return created.ID
}

func TestTransition_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.book(t, "10:00", domain.StatusPending)

	resp, err := f.svc.Confirm(ctx, psychologist, id)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = f.svc.Complete(ctx, admin, id)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	// completed -> cancelled недопустим
	_, err = f.svc.Cancel(ctx, psychologist, id, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, domain.EventAppointmentConfirmed, f.publisher.events[0].Type)
	assert.Equal(t, domain.EventAppointmentCompleted, f.publisher.events[1].Type)
}

func TestTransition_NoShowOnlyFromConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.book(t, "10:00", domain.StatusPending)

	_, err := f.svc.MarkNoShow(ctx, psychologist, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Confirm(ctx, psychologist, id)
	require.NoError(t, err)

	resp, err := f.svc.MarkNoShow(ctx, psychologist, id)
	require.NoError(t, err)
	assert.Equal(t, "no_show", resp.Status)
}

func TestTransition_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.book(t, "10:00", domain.StatusPending)

	_, err := f.svc.Confirm(ctx, student, id)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Confirm(ctx, otherPsych, id)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Cancel(ctx, otherStudent, id, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Confirm(ctx, psychologist, 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	// Студент может отменить свою запись
	resp, err := f.svc.Cancel(ctx, student, id, ptr.Ptr("viaje"))
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "viaje", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)
}

func TestCancel_IntervalReappearsInAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Schedules().CreateBlock(ctx, &domain.ScheduleBlock{
		PsychologistID: psychologistID,
		Date:           f.day,
		StartTime:      "09:00",
		EndTime:        "12:00",
		IsAvailable:    true,
	})
	require.NoError(t, err)

	id := f.book(t, "10:00", domain.StatusConfirmed)

	slotsUC := getAvailableSlotsUC.NewUseCase(f.store.Appointments(), f.store.Schedules(), f.store.Users(),
		domain.DefaultBookingRules(), logger.NewNop())
	starts := func() []string {
		resp, err := slotsUC.Execute(ctx, &getAvailableSlotsUC.Request{PsychologistID: psychologistID, Date: f.day})
		require.NoError(t, err)
		result := make([]string, 0, len(resp.Slots))
		for _, s := range resp.Slots {
			result = append(result, s.StartTime.String())
		}
		return result
	}

	assert.Equal(t, []string{"09:00", "11:00"}, starts())

	_, err = f.svc.Cancel(ctx, psychologist, id, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, starts())
}

func TestGetByID_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.book(t, "10:00", domain.StatusPending)

	for _, caller := range []domain.Caller{student, psychologist, admin} {
		resp, err := f.svc.GetByID(ctx, caller, id)
		require.NoError(t, err)
		assert.Equal(t, id, resp.ID)
		assert.Equal(t, "11:00", resp.EndTime)
	}

	for _, caller := range []domain.Caller{otherStudent, otherPsych} {
		_, err := f.svc.GetByID(ctx, caller, id)
		assert.ErrorIs(t, err, ErrAccessDenied)
	}

	_, err := f.svc.GetByID(ctx, admin, 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetStudentAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "10:00", domain.StatusPending)
	cancelled := f.book(t, "11:00", domain.StatusPending)
	_, err := f.svc.Cancel(ctx, student, cancelled, nil)
	require.NoError(t, err)

	all, err := f.svc.GetStudentAppointments(ctx, student, &models.GetStudentAppointmentsRequest{StudentID: studentID})
	require.NoError(t, err)
	assert.Len(t, all.Appointments, 2)

	onlyPending, err := f.svc.GetStudentAppointments(ctx, admin, &models.GetStudentAppointmentsRequest{
		StudentID: studentID,
		Status:    ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	assert.Len(t, onlyPending.Appointments, 1)

	_, err = f.svc.GetStudentAppointments(ctx, otherStudent, &models.GetStudentAppointmentsRequest{StudentID: studentID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetStudentAppointments(ctx, student, &models.GetStudentAppointmentsRequest{
		StudentID: studentID,
		Status:    ptr.Ptr("bogus"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetPsychologistAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "10:00", domain.StatusConfirmed)
	cancelled := f.book(t, "11:00", domain.StatusPending)
	_, err := f.svc.Cancel(ctx, psychologist, cancelled, nil)
	require.NoError(t, err)

	active, err := f.svc.GetPsychologistAppointments(ctx, psychologist, &models.GetPsychologistAppointmentsRequest{
		PsychologistID: psychologistID,
		From:           &f.day,
		To:             &f.day,
	})
	require.NoError(t, err)
	require.Len(t, active.Appointments, 1)
	assert.Equal(t, "10:00", active.Appointments[0].StartTime)

	all, err := f.svc.GetPsychologistAppointments(ctx, admin, &models.GetPsychologistAppointmentsRequest{
		PsychologistID:  psychologistID,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, all.Appointments, 2)

	_, err = f.svc.GetPsychologistAppointments(ctx, otherPsych, &models.GetPsychologistAppointmentsRequest{PsychologistID: psychologistID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	before := f.day.AddDate(0, 0, -1)
	_, err = f.svc.GetPsychologistAppointments(ctx, psychologist, &models.GetPsychologistAppointmentsRequest{
		PsychologistID: psychologistID,
		From:           &f.day,
		To:             &before,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
