package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/PSY-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/PSY-AppointmentService/pkg/logger"
)

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(h *Handler, id, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/available/"+id+query, nil)
	req = mux.SetURLVars(req, map[string]string{"psychologistId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Success(t *testing.T) {
	day := time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		PsychologistID:     2,
		From:               day,
		To:                 day,
		GranularityMinutes: 30,
		Slots: []domain.AvailableSlot{
			{Date: day, StartTime: "09:00", EndTime: "09:30"},
		},
	}}
	h := NewHandler(uc, logger.NewNop())

	rec := serve(h, "2", "?date=2030-03-04&range=3&granularity=30")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(2), uc.got.PsychologistID)
	assert.Equal(t, 3, uc.got.RangeDays)
	assert.Equal(t, 30, uc.got.GranularityMinutes)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Slots, 1)
	assert.Equal(t, AvailableSlot{Date: "2030-03-04", StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30}, body.Slots[0])
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		query      string
		ucErr      error
		wantStatus int
	}{
		{"bad id", "abc", "?date=2030-03-04", nil, http.StatusBadRequest},
		{"missing date", "2", "", nil, http.StatusBadRequest},
		{"bad date", "2", "?date=04.03.2030", nil, http.StatusBadRequest},
		{"bad range", "2", "?date=2030-03-04&range=x", nil, http.StatusBadRequest},
		{"invalid input", "2", "?date=2030-03-04", getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{"past", "2", "?date=2030-03-04", getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{"not found", "2", "?date=2030-03-04", getAvailableSlots.ErrPsychologistNotFound, http.StatusNotFound},
		{"internal", "2", "?date=2030-03-04", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.ucErr}, logger.NewNop())
			rec := serve(h, tt.id, tt.query)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
