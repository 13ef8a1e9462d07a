package create_schedule_block

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/PSY-AppointmentService/pkg/logger"
)

type fakeService struct {
	got *models.CreateBlockRequest
	err error
}

func (f *fakeService) CreateBlock(ctx context.Context, caller domain.Caller, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BlockResponse{ID: 1, PsychologistID: req.PsychologistID}, nil
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule", strings.NewReader(body))
	req = req.WithContext(middleware.WithCaller(req.Context(), domain.Caller{UserID: 2, Role: domain.RolePsychologist}))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	svc := &fakeService{}
	rec := serve(NewHandler(svc, logger.NewNop()),
		`{"psychologist_id":2,"fecha":"2030-03-04","hora_inicio":"09:00","hora_fin":"13:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, svc.got)
	assert.True(t, svc.got.Block.IsAvailable)
	assert.False(t, svc.got.Block.IsBlocked)
	assert.Equal(t, "09:00", svc.got.Block.StartTime.String())
	assert.Equal(t, "13:00", svc.got.Block.EndTime.String())
}

func TestHandler_Errors(t *testing.T) {
	valid := `{"psychologist_id":2,"fecha":"2030-03-04","hora_inicio":"09:00","hora_fin":"13:00"}`

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"unknown field", `{"psychologist_id":2,"fecha":"2030-03-04","hora_inicio":"09:00","hora_fin":"13:00","room":1}`, nil, http.StatusBadRequest},
		{"missing end", `{"psychologist_id":2,"fecha":"2030-03-04","hora_inicio":"09:00"}`, nil, http.StatusBadRequest},
		{"bad time", `{"psychologist_id":2,"fecha":"2030-03-04","hora_inicio":"9am","hora_fin":"13:00"}`, nil, http.StatusBadRequest},
		{"overlap", valid, schedule.ErrOverlap, http.StatusConflict},
		{"forbidden", valid, schedule.ErrAccessDenied, http.StatusForbidden},
		{"not found", valid, schedule.ErrPsychologistNotFound, http.StatusNotFound},
		{"invalid", valid, schedule.ErrInvalidInput, http.StatusBadRequest},
		{"internal", valid, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeService{err: tt.err}, logger.NewNop()), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
