package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/PSY-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	PsychologistID  int64   `json:"psychologist_id" validate:"required,gt=0"`
	StudentID       *int64  `json:"student_id,omitempty" validate:"omitempty,gt=0"`
	Date            string  `json:"fecha" validate:"required"` // "2025-10-15"
	StartTime       string  `json:"hora" validate:"required"`  // "10:00"
	DurationMinutes *int    `json:"duracion,omitempty" validate:"omitempty,min=15,max=480"`
	Reason          string  `json:"motivo" validate:"required,max=500"`
	Notes           *string `json:"notas,omitempty" validate:"omitempty,max=1000"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	StudentID       int64   `json:"student_id"`
	PsychologistID  int64   `json:"psychologist_id"`
	Date            string  `json:"fecha"`
	StartTime       string  `json:"hora"`
	EndTime         string  `json:"hora_fin"`
	DurationMinutes int     `json:"duracion"`
	Status          string  `json:"estado"`
	Reason          string  `json:"motivo"`
	Notes           *string `json:"notas,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(caller domain.Caller) (*createAppointment.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("fecha: %w", err)
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("hora: %w", err)
	}

	req := &createAppointment.Request{
		Caller:         caller,
		PsychologistID: r.PsychologistID,
		Date:           date,
		StartTime:      startTime,
		Reason:         r.Reason,
		Notes:          r.Notes,
	}
	if r.StudentID != nil {
		req.StudentID = *r.StudentID
	}
	if r.DurationMinutes != nil {
		req.DurationMinutes = *r.DurationMinutes
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		StudentID:       resp.StudentID,
		PsychologistID:  resp.PsychologistID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Reason:          resp.Reason,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
