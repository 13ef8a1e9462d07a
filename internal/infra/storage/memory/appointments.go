package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/storage/appointment"
)

// AppointmentRepository записи на приём в памяти
type AppointmentRepository struct {
	store *Store
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.users[a.StudentID]; !ok {
		return nil, appointment.ErrReferenceNotFound
	}
	if _, ok := r.store.users[a.PsychologistID]; !ok {
		return nil, appointment.ErrReferenceNotFound
	}

	// Аналог частичного уникального индекса по активным записям
	if a.Status.IsActive() {
		for _, existing := range r.store.appointments {
			if existing.PsychologistID == a.PsychologistID &&
				existing.Date.Equal(a.Date) &&
				existing.StartTime == a.StartTime &&
				existing.Status.IsActive() {
				return nil, appointment.ErrSlotTaken
			}
		}
	}

	r.store.nextAppointmentID++
	now := time.Now().UTC()

	created := *a
	created.ID = r.store.nextAppointmentID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.store.appointments[created.ID] = created

	a.ID = created.ID
	a.CreatedAt = now
	a.UpdatedAt = now

	return a, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	a, ok := r.store.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *AppointmentRepository) GetByFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range r.store.appointments {
		if !matches(a, filter) {
			continue
		}
		a := a
		result = append(result, &a)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})

	return result, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	a, ok := r.store.appointments[id]
	if !ok || a.Status != from {
		return appointment.ErrStatusChanged
	}

	a.Status = to
	a.UpdatedAt = time.Now().UTC()
	r.store.appointments[id] = a

	return nil
}

func (r *AppointmentRepository) Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, reason *string) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	a, ok := r.store.appointments[id]
	if !ok || a.Status != from {
		return appointment.ErrStatusChanged
	}

	now := time.Now().UTC()
	a.Status = domain.StatusCancelled
	a.CancellationReason = reason
	a.CancelledAt = &now
	a.UpdatedAt = now
	r.store.appointments[id] = a

	return nil
}

func matches(a domain.Appointment, filter domain.AppointmentFilter) bool {
	if filter.PsychologistID != nil && a.PsychologistID != *filter.PsychologistID {
		return false
	}
	if filter.StudentID != nil && a.StudentID != *filter.StudentID {
		return false
	}
	if filter.StartDate != nil && a.Date.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && a.Date.After(*filter.EndDate) {
		return false
	}
	if filter.Status != nil {
		return a.Status == *filter.Status
	}
	return filter.IncludeInactive || a.Status.IsActive()
}
