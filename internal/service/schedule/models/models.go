package models

import (
	"time"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/pkg/types"
)

// Request модели

// BlockInput данные одного блока расписания
type BlockInput struct {
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	IsBlocked   bool
	BlockReason *string
}

// ToDomain конвертирует входные данные в блок психолога
func (b BlockInput) ToDomain(psychologistID int64) domain.ScheduleBlock {
	return domain.ScheduleBlock{
		PsychologistID: psychologistID,
		Date:           domain.DateOnly(b.Date),
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		IsAvailable:    b.IsAvailable,
		IsBlocked:      b.IsBlocked,
		BlockReason:    b.BlockReason,
	}
}

// CreateBlockRequest запрос на создание блока расписания
type CreateBlockRequest struct {
	PsychologistID int64
	Block          BlockInput
}

// BulkCreateRequest запрос на массовое создание блоков.
// Явные блоки и блоки из недельного шаблона создаются одной транзакцией.
type BulkCreateRequest struct {
	PsychologistID int64
	Blocks         []BlockInput
	Pattern        *domain.WeeklyPattern // nil - без шаблона
}

// UpdateBlockRequest запрос на обновление блока.
// Все поля опциональны - обновляются только переданные значения.
type UpdateBlockRequest struct {
	Date        *time.Time
	StartTime   *types.TimeString
	EndTime     *types.TimeString
	IsAvailable *bool
	IsBlocked   *bool
	BlockReason *string
}

// ApplyToBlock применяет обновления к блоку
func (r *UpdateBlockRequest) ApplyToBlock(block *domain.ScheduleBlock) {
	if r.Date != nil {
		block.Date = domain.DateOnly(*r.Date)
	}
	if r.StartTime != nil {
		block.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		block.EndTime = *r.EndTime
	}
	if r.IsAvailable != nil {
		block.IsAvailable = *r.IsAvailable
	}
	if r.IsBlocked != nil {
		block.IsBlocked = *r.IsBlocked
	}
	if r.BlockReason != nil {
		block.BlockReason = r.BlockReason
	}
}

// GetScheduleRequest запрос на получение расписания за период
type GetScheduleRequest struct {
	PsychologistID int64
	From           time.Time
	To             time.Time
}

// CreateUnavailabilityRequest запрос на создание периода недоступности
type CreateUnavailabilityRequest struct {
	PsychologistID int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	Reason         *string
}

// Response модели

// BlockResponse ответ с данными блока расписания
type BlockResponse struct {
	ID             int64     `json:"id"`
	PsychologistID int64     `json:"psychologist_id"`
	Date           string    `json:"fecha"`       // "2025-10-15"
	StartTime      string    `json:"hora_inicio"` // "09:00"
	EndTime        string    `json:"hora_fin"`    // "13:00"
	IsAvailable    bool      `json:"disponible"`
	IsBlocked      bool      `json:"bloqueado"`
	BlockReason    *string   `json:"motivo_bloqueo,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BlockListResponse ответ со списком блоков
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// UnavailabilityResponse ответ с данными периода недоступности
type UnavailabilityResponse struct {
	ID             int64     `json:"id"`
	PsychologistID int64     `json:"psychologist_id"`
	Date           string    `json:"fecha"`
	StartTime      string    `json:"hora_inicio"`
	EndTime        string    `json:"hora_fin"`
	Reason         *string   `json:"motivo,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ScheduleResponse расписание психолога за период
type ScheduleResponse struct {
	PsychologistID int64                    `json:"psychologist_id"`
	From           string                   `json:"from"`
	To             string                   `json:"to"`
	Blocks         []BlockResponse          `json:"blocks"`
	Unavailability []UnavailabilityResponse `json:"unavailability"`
}

// Методы конвертации

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.ScheduleBlock) *BlockResponse {
	if b == nil {
		return nil
	}

	return &BlockResponse{
		ID:             b.ID,
		PsychologistID: b.PsychologistID,
		Date:           b.Date.Format(domain.DateFormat),
		StartTime:      b.StartTime.String(),
		EndTime:        b.EndTime.String(),
		IsAvailable:    b.IsAvailable,
		IsBlocked:      b.IsBlocked,
		BlockReason:    b.BlockReason,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// FromDomainBlockList конвертирует список блоков в DTO
func FromDomainBlockList(blocks []*domain.ScheduleBlock) *BlockListResponse {
	resp := &BlockListResponse{
		Blocks: make([]BlockResponse, 0, len(blocks)),
	}

	for _, b := range blocks {
		if r := FromDomainBlock(b); r != nil {
			resp.Blocks = append(resp.Blocks, *r)
		}
	}

	return resp
}

// FromDomainUnavailability конвертирует domain модель в DTO
func FromDomainUnavailability(u *domain.Unavailability) *UnavailabilityResponse {
	if u == nil {
		return nil
	}

	return &UnavailabilityResponse{
		ID:             u.ID,
		PsychologistID: u.PsychologistID,
		Date:           u.Date.Format(domain.DateFormat),
		StartTime:      u.StartTime.String(),
		EndTime:        u.EndTime.String(),
		Reason:         u.Reason,
		CreatedAt:      u.CreatedAt,
	}
}

// FromDomainSchedule собирает расписание за период
func FromDomainSchedule(psychologistID int64, from, to time.Time, blocks []*domain.ScheduleBlock, unavailability []*domain.Unavailability) *ScheduleResponse {
	resp := &ScheduleResponse{
		PsychologistID: psychologistID,
		From:           from.Format(domain.DateFormat),
		To:             to.Format(domain.DateFormat),
		Blocks:         FromDomainBlockList(blocks).Blocks,
		Unavailability: make([]UnavailabilityResponse, 0, len(unavailability)),
	}

	for _, u := range unavailability {
		if r := FromDomainUnavailability(u); r != nil {
			resp.Unavailability = append(resp.Unavailability, *r)
		}
	}

	return resp
}
