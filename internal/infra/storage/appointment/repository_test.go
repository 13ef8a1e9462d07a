package appointment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/pkg/dbmetrics"
)

var day = time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func newAppointment() *domain.Appointment {
	return &domain.Appointment{
		StudentID:       1,
		PsychologistID:  2,
		Date:            day,
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusPending,
		Reason:          "consulta",
	}
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs(int64(1), int64(2), day, "10:00", 60, "pending", "consulta", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	created, err := repo.Create(context.Background(), newAppointment())
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateMapsConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		code pq.ErrorCode
		want error
	}{
		{name: "unique violation", code: "23505", want: ErrSlotTaken},
		{name: "foreign key violation", code: "23503", want: ErrReferenceNotFound},
		{name: "serialization failure", code: "40001", want: ErrConcurrentUpdate},
		{name: "other", code: "42P01", want: ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
				WillReturnError(&pq.Error{Code: tt.code})

			_, err := repo.Create(context.Background(), newAppointment())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRepository_GetByIDLocksRowInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM appointments WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(appointmentRows().AddRow(
			int64(7), int64(1), int64(2), day, "10:00:00", 60, "confirmed", "consulta",
			nil, nil, nil, day, day,
		))

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	got, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, "10:00", got.StartTime.String())
	assert.Nil(t, got.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE id = \$1$`).
		WithArgs(int64(7)).
		WillReturnRows(appointmentRows())

	_, err := repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_GetByFilterActiveByDefault(t *testing.T) {
	repo, mock := newMockRepository(t)
	psychologistID := int64(2)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE psychologist_id = $1 AND date >= $2 AND date <= $3 AND status IN ($4,$5) ORDER BY start_time ASC")).
		WithArgs(psychologistID, day, day, "pending", "confirmed").
		WillReturnRows(appointmentRows().AddRow(
			int64(7), int64(1), int64(2), day, "10:00:00", 60, "pending", "consulta",
			"notes", nil, nil, day, day,
		))

	got, err := repo.GetByFilter(context.Background(), domain.AppointmentFilter{
		PsychologistID: &psychologistID,
		StartDate:      &day,
		EndDate:        &day,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Notes)
	assert.Equal(t, "notes", *got[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatusConflict(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3")).
		WithArgs("confirmed", int64(7), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 7, domain.StatusPending, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusChanged)
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock := newMockRepository(t)
	reason := "enfermedad"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $1, cancellation_reason = $2, cancelled_at = NOW()")).
		WithArgs("cancelled", reason, int64(7), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 7, domain.StatusConfirmed, &reason)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
