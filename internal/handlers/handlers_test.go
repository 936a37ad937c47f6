package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mhruby/catchboard/internal/auth"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/offline"
	"github.com/mhruby/catchboard/internal/repository/mock"
	"github.com/mhruby/catchboard/internal/services"
	"github.com/mhruby/catchboard/internal/store"
	"github.com/mhruby/catchboard/internal/testutil"
	"github.com/mhruby/catchboard/internal/websocket"
	"github.com/mhruby/catchboard/pkg/scoreboard"
)

const (
	testAdminPassword = "admin-pw"
	testJudgePassword = "judge-pw"
)

type testEnv struct {
	handlers *Handlers
	router   http.Handler
	repo     *mock.Repository
	store    *store.Store
	settings *services.SettingsService
	client   *scoreboard.MockClient
	monitor  *offline.Monitor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.New()
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	st := store.New(log, repo)
	client := scoreboard.NewMockClient()
	queue := offline.NewQueue(log, repo)
	syncer := offline.NewSyncer(log, client, queue)
	monitor := offline.NewMonitor(log, client, queue, nil, time.Minute)

	settings := services.NewSettingsService(log, repo)
	competitors := services.NewCompetitorService(log, st, repo, settings, syncer)
	entries := services.NewEntryService(log, st, repo, settings, syncer, monitor)
	standings := services.NewStandingsService(log, repo, settings)

	hub := websocket.New(log, settings)
	hub.Start()
	settings.SetBroadcaster(hub)

	sessionAuth := auth.New(testAdminPassword, testJudgePassword)
	h := New(competitors, entries, standings, settings, sessionAuth, hub, queue, monitor, client, NoopHTTPLogger{})

	return &testEnv{
		handlers: h,
		router:   h.Router(),
		repo:     repo,
		store:    st,
		settings: settings,
		client:   client,
		monitor:  monitor,
	}
}

// request performs an HTTP request against the router, optionally with
// a session cookie.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login authenticates and returns the session cookie
func (e *testEnv) login(t *testing.T, password string) *http.Cookie {
	t.Helper()
	w := e.request(t, "POST", "/api/v1/login", loginRequest{Password: password}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name     string
		password string
		wantCode int
		wantRole string
	}{
		{"admin", testAdminPassword, http.StatusOK, "admin"},
		{"judge", testJudgePassword, http.StatusOK, "judge"},
		{"wrong password", "guess", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.request(t, "POST", "/api/v1/login", loginRequest{Password: tt.password}, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantRole != "" {
				var resp loginResponse
				decodeBody(t, w, &resp)
				if resp.Role != tt.wantRole {
					t.Errorf("role = %q, want %q", resp.Role, tt.wantRole)
				}
			}
		})
	}
}

func TestSession(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t, testJudgePassword)

	w := e.request(t, "GET", "/api/v1/session", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("session check = %d", w.Code)
	}
	var resp loginResponse
	decodeBody(t, w, &resp)
	if resp.Role != "judge" {
		t.Errorf("role = %q, want judge", resp.Role)
	}

	if w := e.request(t, "GET", "/api/v1/session", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous session check = %d, want 401", w.Code)
	}
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t, testAdminPassword)

	if w := e.request(t, "POST", "/api/v1/logout", nil, cookie); w.Code != http.StatusOK {
		t.Fatalf("logout = %d", w.Code)
	}
	if w := e.request(t, "GET", "/api/v1/session", nil, cookie); w.Code != http.StatusUnauthorized {
		t.Errorf("session after logout = %d, want 401", w.Code)
	}
}

func TestRouteProtection(t *testing.T) {
	e := newTestEnv(t)
	judge := e.login(t, testJudgePassword)

	tests := []struct {
		name     string
		method   string
		path     string
		cookie   *http.Cookie
		wantCode int
	}{
		{"anonymous judge API", "GET", "/api/v1/competitors", nil, http.StatusUnauthorized},
		{"anonymous admin API", "GET", "/api/v1/admin/settings", nil, http.StatusUnauthorized},
		{"judge on admin API", "GET", "/api/v1/admin/settings", judge, http.StatusForbidden},
		{"public standings", "GET", "/api/v1/sectors", nil, http.StatusOK},
		{"healthz", "GET", "/healthz", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.request(t, tt.method, tt.path, nil, tt.cookie)
			if w.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestGetSectors(t *testing.T) {
	e := newTestEnv(t)

	w := e.request(t, "GET", "/api/v1/sectors", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	if resp["hours"] != float64(7) {
		t.Errorf("hours = %v, want 7", resp["hours"])
	}
	if resp["scoring_open"] != true {
		t.Errorf("scoring_open = %v, want true", resp["scoring_open"])
	}
	sectors := resp["sectors"].([]interface{})
	if len(sectors) != 6 {
		t.Errorf("sectors = %v, want 6 labels", sectors)
	}
}
