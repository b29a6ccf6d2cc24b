package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	cr "compressor_runtime"
	"compressor_runtime/internal/models"
	"compressor_runtime/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockRuntime struct {
	session models.RunSession
	active  *models.RunSession
	list    []models.RunSession
	err     error

	lastStart   service.StartParams
	lastID      string
	lastEnd     *time.Time
	lastReason  string
	lastFilter  service.SessionFilter
	stopCalls   int
	emergencies int
}

func (m *mockRuntime) StartSession(ctx context.Context, p service.StartParams) (models.RunSession, error) {
	m.lastStart = p
	return m.session, m.err
}
func (m *mockRuntime) StopSession(ctx context.Context, id string, end *time.Time) (models.RunSession, error) {
	m.stopCalls++
	m.lastID, m.lastEnd = id, end
	return m.session, m.err
}
func (m *mockRuntime) EmergencyStop(ctx context.Context, id, reason string) (models.RunSession, error) {
	m.emergencies++
	m.lastID, m.lastReason = id, reason
	return m.session, m.err
}
func (m *mockRuntime) ActiveSession(ctx context.Context) (*models.RunSession, error) {
	return m.active, m.err
}
func (m *mockRuntime) ListSessions(ctx context.Context, f service.SessionFilter) ([]models.RunSession, error) {
	m.lastFilter = f
	return m.list, m.err
}

type mockLedger struct {
	total     float64
	err       error
	lastSince time.Time
}

func (m *mockLedger) Total(ctx context.Context) (float64, error) { return m.total, m.err }
func (m *mockLedger) TotalSince(ctx context.Context, since time.Time) (float64, error) {
	m.lastSince = since
	return m.total, m.err
}

type mockMaintenance struct {
	status    cr.IntervalStatus
	interval  models.MaintenanceInterval
	history   []models.MaintenanceInterval
	err       error
	lastReset service.ResetParams
}

func (m *mockMaintenance) ResetInterval(ctx context.Context, p service.ResetParams) (models.MaintenanceInterval, error) {
	m.lastReset = p
	return m.interval, m.err
}
func (m *mockMaintenance) Status(ctx context.Context) (cr.IntervalStatus, error) {
	return m.status, m.err
}
func (m *mockMaintenance) History(ctx context.Context) ([]models.MaintenanceInterval, error) {
	return m.history, m.err
}

type mockCartridge struct {
	status  cr.CartridgeStatus
	change  models.CartridgeChangeEvent
	config  models.CartridgeConfig
	configs []models.CartridgeConfig
	changes []models.CartridgeChangeEvent
	err     error

	lastPassword string
	lastChange   service.ChangeParams
	lastConfig   service.ConfigParams
}

func (m *mockCartridge) Status(ctx context.Context) (cr.CartridgeStatus, error) {
	return m.status, m.err
}
func (m *mockCartridge) RecordChange(ctx context.Context, password string, p service.ChangeParams) (models.CartridgeChangeEvent, error) {
	m.lastPassword, m.lastChange = password, p
	return m.change, m.err
}
func (m *mockCartridge) UpdateConfig(ctx context.Context, password string, p service.ConfigParams) (models.CartridgeConfig, error) {
	m.lastPassword, m.lastConfig = password, p
	return m.config, m.err
}
func (m *mockCartridge) ActiveConfig(ctx context.Context) (models.CartridgeConfig, error) {
	return m.config, m.err
}
func (m *mockCartridge) ConfigHistory(ctx context.Context) ([]models.CartridgeConfig, error) {
	return m.configs, m.err
}
func (m *mockCartridge) ChangeHistory(ctx context.Context) ([]models.CartridgeChangeEvent, error) {
	return m.changes, m.err
}

type mockCorrection struct {
	entry        models.CorrectionEntry
	list         []models.CorrectionEntry
	err          error
	lastPassword string
	lastParams   service.CorrectionParams
	calls        int
}

func (m *mockCorrection) ApplyCorrection(ctx context.Context, password string, p service.CorrectionParams) (models.CorrectionEntry, error) {
	m.calls++
	m.lastPassword, m.lastParams = password, p
	return m.entry, m.err
}
func (m *mockCorrection) ListCorrections(ctx context.Context) ([]models.CorrectionEntry, error) {
	return m.list, m.err
}

// mockDashboard fails the first failFirst calls with err.
type mockDashboard struct {
	mu        sync.Mutex
	snap      cr.Dashboard
	err       error
	failFirst int
	calls     int
}

func (m *mockDashboard) Snapshot(ctx context.Context) (cr.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil && m.calls <= m.failFirst {
		return cr.Dashboard{}, m.err
	}
	return m.snap, nil
}

type mockEventLog struct {
	resp     []models.AuditEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.AuditEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// doJSON sends an authenticated request with an optional JSON body.
func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal error body %q: %v", w.Body.String(), err)
	}
	return out.Error
}
