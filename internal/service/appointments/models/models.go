package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// GetStudentAppointmentsRequest запрос на получение записей студента
type GetStudentAppointmentsRequest struct {
	StudentID int64   `json:"student_id"`
	Status    *string `json:"status,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр (включая завершённые и отменённые записи)
func (r *GetStudentAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		StudentID:       &r.StudentID,
		IncludeInactive: true,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// GetPsychologistAppointmentsRequest запрос на получение записей психолога
type GetPsychologistAppointmentsRequest struct {
	PsychologistID  int64      `json:"psychologist_id"`
	From            *time.Time `json:"from,omitempty"`             // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`               // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"include_inactive,omitempty"` // Включить отменённые и завершённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetPsychologistAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return domain.AppointmentFilter{}, fmt.Errorf("%w: from is after to", ErrInvalidPeriod)
	}

	filter := domain.AppointmentFilter{
		PsychologistID:  &r.PsychologistID,
		StartDate:       r.From,
		EndDate:         r.To,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	StudentID       int64   `json:"student_id"`
	PsychologistID  int64   `json:"psychologist_id"`
	Date            string  `json:"fecha"`    // "2025-10-15"
	StartTime       string  `json:"hora"`     // "10:00"
	EndTime         string  `json:"hora_fin"` // "11:00"
	DurationMinutes int     `json:"duracion"`
	Status          string  `json:"estado"`
	Reason          string  `json:"motivo"`
	Notes           *string `json:"notas,omitempty"`

	CancellationReason *string `json:"motivo_cancelacion,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	end, _ := a.EndTime()

	resp := &AppointmentResponse{
		ID:                 a.ID,
		StudentID:          a.StudentID,
		PsychologistID:     a.PsychologistID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            end.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Reason:             a.Reason,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if r := FromDomainAppointment(a); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s, err := domain.ParseAppointmentStatus(status)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s, nil
}
