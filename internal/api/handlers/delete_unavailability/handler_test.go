package delete_unavailability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/PSY-AppointmentService/internal/api/middleware"
	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/service/schedule"
	"github.com/m04kA/PSY-AppointmentService/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) DeleteUnavailability(ctx context.Context, caller domain.Caller, id int64) error {
	return f.err
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{"deleted", "8", nil, http.StatusNoContent},
		{"bad id", "-", nil, http.StatusBadRequest},
		{"not found", "8", schedule.ErrUnavailabilityNotFound, http.StatusNotFound},
		{"forbidden", "8", schedule.ErrAccessDenied, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/schedule/unavailability/"+tt.id, nil)
			req = mux.SetURLVars(req, map[string]string{"unavailabilityId": tt.id})
			req = req.WithContext(middleware.WithCaller(req.Context(), domain.Caller{UserID: 1, Role: domain.RoleAdmin}))
			rec := httptest.NewRecorder()

			NewHandler(&fakeService{err: tt.err}, logger.NewNop()).Handle(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
