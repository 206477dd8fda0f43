package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clubadmin/clubadmin/internal/xpgtype"
	"github.com/clubadmin/clubadmin/server"
	"github.com/clubadmin/clubadmin/server/auth"
	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/database"
)

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]database.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]database.Session{}}
}

func (m *memorySessions) GetSession(_ context.Context, sessionID string) (*database.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, database.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		return nil, database.ErrSessionExpired
	}
	return &session, nil
}

func (m *memorySessions) CreateSession(_ context.Context, session database.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *memorySessions) UpdateSessionUser(_ context.Context, sessionID string, user backend.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return database.ErrSessionNotFound
	}
	session.User = xpgtype.NewJSON(user)
	m.sessions[sessionID] = session
	return nil
}

func (m *memorySessions) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *memorySessions) has(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[sessionID]
	return ok
}

// testEnv wires the routes against a fake backend registered on api.
type testEnv struct {
	t        *testing.T
	api      *http.ServeMux
	sessions *memorySessions
	server   *server.Server
	handler  http.Handler
}

func newTestEnv(t *testing.T, configure ...func(cfg *server.Config)) *testEnv {
	t.Helper()

	api := http.NewServeMux()
	fake := httptest.NewServer(http.StripPrefix("/api", api))
	t.Cleanup(fake.Close)

	cfg := server.DefaultConfig()
	cfg.Backend.URL = fake.URL + "/api/"
	cfg.Backend.ImageURL = fake.URL + "/api/files/"
	cfg.Auth.CSRFKey = ""
	cfg.Server.PublicURL = "http://admin.example.com"
	for _, fn := range configure {
		fn(&cfg)
	}

	sessions := newMemorySessions()
	srv, err := server.New(cfg, sessions)
	require.NoError(t, err)

	return &testEnv{
		t:        t,
		api:      api,
		sessions: sessions,
		server:   srv,
		handler:  Routes(srv),
	}
}

// login stores a session for a user with role and returns its id.
func (e *testEnv) login(role string) string {
	e.t.Helper()

	now := time.Now()
	session := database.Session{
		ID:    auth.RandomStr(32),
		Token: "tok",
		User: xpgtype.NewJSON(backend.User{
			ID:    "admin1",
			Name:  "Ada Admin",
			Email: "ada@example.com",
			Role:  role,
		}),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(e.t, e.sessions.CreateSession(context.Background(), session))
	return session.ID
}

func (e *testEnv) do(rq *http.Request, sessionID string) *httptest.ResponseRecorder {
	e.t.Helper()

	if sessionID != "" {
		rq.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: sessionID})
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, rq)
	return rr
}

func (e *testEnv) get(target string, sessionID string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, target, nil), sessionID)
}

func (e *testEnv) post(target string, values url.Values, sessionID string) *httptest.ResponseRecorder {
	rq := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	rq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(rq, sessionID)
}

// json registers a fake backend route answering with status and body.
func (e *testEnv) json(pattern string, status int, body string) {
	e.api.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// fail registers a fake backend route that fails the test when called.
func (e *testEnv) fail(pattern string) {
	e.api.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		e.t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	})
}
