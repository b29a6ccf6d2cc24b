package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/service"
)

func TestSessionHandlers_StartStopEmergency(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	rt := &mockRuntime{session: models.RunSession{ID: "s1", StartTime: start, Status: models.StatusRunning, Operator: "ana"}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Runtime: rt})

	// requires auth → 401 without header
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/start", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/v1/sessions/start",
		`{"operator":"ana","pre_check":{"tested":true,"result":"OK","tester_name":"bo"}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("start status=%d body=%s", w.Code, w.Body.String())
	}
	if rt.lastStart.Operator != "ana" || rt.lastStart.PreCheck == nil || rt.lastStart.PreCheck.TesterName != "bo" {
		t.Fatalf("unexpected start params: %+v", rt.lastStart)
	}
	var s models.RunSession
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil || s.ID != "s1" {
		t.Fatalf("unexpected body %s (err=%v)", w.Body.String(), err)
	}

	// stop with no body defaults the end time
	w = doJSON(r, http.MethodPost, "/api/v1/sessions/s1/stop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stop status=%d body=%s", w.Code, w.Body.String())
	}
	if rt.lastID != "s1" || rt.lastEnd != nil {
		t.Fatalf("unexpected stop args: id=%q end=%v", rt.lastID, rt.lastEnd)
	}

	w = doJSON(r, http.MethodPost, "/api/v1/sessions/s1/stop", `{"end_time":"2025-03-01T09:30:00Z"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("stop with end status=%d", w.Code)
	}
	if rt.lastEnd == nil || !rt.lastEnd.Equal(start.Add(90*time.Minute)) {
		t.Fatalf("end_time not forwarded: %v", rt.lastEnd)
	}

	w = doJSON(r, http.MethodPost, "/api/v1/sessions/s1/stop", `{"end_time":"yesterday"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed end_time, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/v1/sessions/s1/emergency-stop", `{"reason":"overpressure"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("emergency status=%d", w.Code)
	}
	if rt.lastReason != "overpressure" || rt.emergencies != 1 {
		t.Fatalf("emergency not forwarded: %+v", rt)
	}
}

func TestSessionHandlers_ErrorKinds(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		want    int
		wantMsg string
	}{
		{"conflict", fmt.Errorf("%w: session s0 is already running", service.ErrConflict), http.StatusConflict, ""},
		{"not found", fmt.Errorf("%w: no running session", service.ErrNotFound), http.StatusNotFound, ""},
		{"invalid", fmt.Errorf("%w: operator is required", service.ErrInvalidInput), http.StatusBadRequest, ""},
		{"unavailable", fmt.Errorf("%w: database is locked", service.ErrUnavailable), http.StatusServiceUnavailable, errUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, errInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rt := &mockRuntime{err: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Runtime: rt})

			w := doJSON(r, http.MethodPost, "/api/v1/sessions/start", `{"operator":"ana"}`)
			if w.Code != tc.want {
				t.Fatalf("status: got %d, want %d", w.Code, tc.want)
			}
			want := tc.wantMsg
			if want == "" {
				want = tc.err.Error()
			}
			if got := errorBody(t, w); got != want {
				t.Fatalf("error text: got %q, want %q", got, want)
			}
		})
	}
}

func TestSessionHandlers_ActiveAndList(t *testing.T) {
	rt := &mockRuntime{
		active: &models.RunSession{ID: "s9", Status: models.StatusRunning},
		list:   []models.RunSession{{ID: "a"}, {ID: "b"}},
	}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Runtime: rt})

	w := doJSON(r, http.MethodGet, "/api/v1/sessions/active", "")
	if w.Code != http.StatusOK {
		t.Fatalf("active status=%d", w.Code)
	}
	var active struct {
		Active *models.RunSession `json:"active"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &active)
	if active.Active == nil || active.Active.ID != "s9" {
		t.Fatalf("unexpected active body: %s", w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/v1/sessions?status=stopped&from=2025-03-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d body=%s", w.Code, w.Body.String())
	}
	if rt.lastFilter.Status != models.StatusStopped {
		t.Fatalf("status not normalized: %q", rt.lastFilter.Status)
	}
	if !rt.lastFilter.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from not parsed: %v", rt.lastFilter.From)
	}
	var out struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 {
		t.Fatalf("count: got %d, want 2", out.Count)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/sessions?to=never", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad 'to', got %d", w.Code)
	}
}
