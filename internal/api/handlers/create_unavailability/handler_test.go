package create_unavailability

import (
	"context"
	"encoding/json"
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
	got *models.CreateUnavailabilityRequest
	err error
}

func (f *fakeService) CreateUnavailability(ctx context.Context, caller domain.Caller, req *models.CreateUnavailabilityRequest) (*models.UnavailabilityResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.UnavailabilityResponse{
		ID:             5,
		PsychologistID: req.PsychologistID,
		Date:           req.Date.Format(domain.DateFormat),
		StartTime:      req.StartTime.String(),
		EndTime:        req.EndTime.String(),
		Reason:         req.Reason,
	}, nil
}

func newRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/unavailability", strings.NewReader(body))
	return req.WithContext(middleware.WithCaller(req.Context(), domain.Caller{UserID: 2, Role: domain.RolePsychologist}))
}

func TestHandler_Created(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()

	body := `{"psychologist_id":2,"fecha":"2030-03-04","hora_inicio":"12:00","hora_fin":"13:00","motivo":"обед"}`
	NewHandler(svc, logger.NewNop()).Handle(rec, newRequest(body))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "12:00", svc.got.StartTime.String())
	require.NotNil(t, svc.got.Reason)
	assert.Equal(t, "обед", *svc.got.Reason)

	var resp models.UnavailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "2030-03-04", resp.Date)
}

func TestHandler_Errors(t *testing.T) {
	valid := `{"psychologist_id":2,"fecha":"2030-03-04","hora_inicio":"12:00","hora_fin":"13:00"}`

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"broken json", `{"psychologist_id":`, nil, http.StatusBadRequest},
		{"missing fields", `{"psychologist_id":2}`, nil, http.StatusBadRequest},
		{"bad time", `{"psychologist_id":2,"fecha":"2030-03-04","hora_inicio":"noon","hora_fin":"13:00"}`, nil, http.StatusBadRequest},
		{"forbidden", valid, schedule.ErrAccessDenied, http.StatusForbidden},
		{"psychologist not found", valid, schedule.ErrPsychologistNotFound, http.StatusNotFound},
		{"invalid interval", valid, schedule.ErrInvalidInput, http.StatusBadRequest},
		{"conflict", valid, schedule.ErrOverlap, http.StatusConflict},
		{"internal", valid, schedule.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(&fakeService{err: tt.err}, logger.NewNop()).Handle(rec, newRequest(tt.body))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
