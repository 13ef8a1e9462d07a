package bulk_create_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/PSY-AppointmentService/pkg/logger"
)

type fakeService struct {
	got *models.BulkCreateRequest
	err error
}

func (f *fakeService) BulkCreate(ctx context.Context, caller domain.Caller, req *models.BulkCreateRequest) (*models.BlockListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BlockListResponse{Blocks: []models.BlockResponse{}}, nil
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/bulk", strings.NewReader(body))
	req = req.WithContext(middleware.WithCaller(req.Context(), domain.Caller{UserID: 2, Role: domain.RolePsychologist}))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_BlocksAndPattern(t *testing.T) {
	svc := &fakeService{}
	body := `{
		"psychologist_id": 2,
		"blocks": [{"fecha":"2030-03-09","hora_inicio":"10:00","hora_fin":"12:00","disponible":false}],
		"patron": {"desde":"2030-03-04","hasta":"2030-03-17","dias_semana":[1,3],"hora_inicio":"09:00","hora_fin":"13:00"}
	}`

	rec := serve(NewHandler(svc, logger.NewNop()), body)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, svc.got)
	require.Len(t, svc.got.Blocks, 1)
	assert.False(t, svc.got.Blocks[0].IsAvailable)
	require.NotNil(t, svc.got.Pattern)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, svc.got.Pattern.Weekdays)
	assert.Equal(t, "2030-03-17", svc.got.Pattern.To.Format(domain.DateFormat))
}

func TestHandler_Errors(t *testing.T) {
	valid := `{"psychologist_id":2,"blocks":[{"fecha":"2030-03-09","hora_inicio":"10:00","hora_fin":"12:00"}]}`

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"bad weekday", `{"psychologist_id":2,"patron":{"desde":"2030-03-04","hasta":"2030-03-17","dias_semana":[9],"hora_inicio":"09:00","hora_fin":"13:00"}}`, nil, http.StatusBadRequest},
		{"unknown nested field", `{"psychologist_id":2,"blocks":[{"fecha":"2030-03-09","hora_inicio":"10:00","hora_fin":"12:00","room":3}]}`, nil, http.StatusBadRequest},
		{"bad nested date", `{"psychologist_id":2,"blocks":[{"fecha":"tomorrow","hora_inicio":"10:00","hora_fin":"12:00"}]}`, nil, http.StatusBadRequest},
		{"overlap", valid, schedule.ErrOverlap, http.StatusConflict},
		{"forbidden", valid, schedule.ErrAccessDenied, http.StatusForbidden},
		{"invalid", valid, schedule.ErrInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeService{err: tt.err}, logger.NewNop()), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
