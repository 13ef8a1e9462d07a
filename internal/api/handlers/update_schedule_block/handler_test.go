package update_schedule_block

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/PSY-AppointmentService/pkg/logger"
)

type fakeService struct {
	got *models.UpdateBlockRequest
	err error
}

func (f *fakeService) UpdateBlock(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateBlockRequest) (*models.BlockResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BlockResponse{ID: id}, nil
}

func serve(h *Handler, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/schedule/"+id, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"blockId": id})
	req = req.WithContext(middleware.WithCaller(req.Context(), domain.Caller{UserID: 2, Role: domain.RolePsychologist}))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_PartialUpdate(t *testing.T) {
	svc := &fakeService{}
	rec := serve(NewHandler(svc, logger.NewNop()), "3", `{"hora_fin":"14:00","bloqueado":true,"motivo_bloqueo":"отпуск"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.got)
	assert.Nil(t, svc.got.Date)
	assert.Nil(t, svc.got.StartTime)
	require.NotNil(t, svc.got.EndTime)
	assert.Equal(t, "14:00", svc.got.EndTime.String())
	assert.True(t, *svc.got.IsBlocked)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		err        error
		wantStatus int
	}{
		{"bad id", "x", `{}`, nil, http.StatusBadRequest},
		{"unknown field", "3", `{"end":"14:00"}`, nil, http.StatusBadRequest},
		{"bad time", "3", `{"hora_fin":"14h"}`, nil, http.StatusBadRequest},
		{"not found", "3", `{}`, schedule.ErrBlockNotFound, http.StatusNotFound},
		{"forbidden", "3", `{}`, schedule.ErrAccessDenied, http.StatusForbidden},
		{"overlap", "3", `{}`, schedule.ErrOverlap, http.StatusConflict},
		{"invalid", "3", `{}`, schedule.ErrInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeService{err: tt.err}, logger.NewNop()), tt.id, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
