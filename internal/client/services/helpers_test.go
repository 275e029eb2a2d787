package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/urguide/internal/client/client"
	"github.com/dmitrijs2005/urguide/internal/client/models"
	"github.com/dmitrijs2005/urguide/internal/client/session"
	"github.com/dmitrijs2005/urguide/internal/client/storage"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, username string, id int64) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, session.Claims{
		Username: username,
		UserID:   id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

type cannedResponse struct {
	status int
	body   string
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// apiStub is an in-process UrGuide API. Login and signup return canned
// responses; user records are served from users and updated by POST /users.
type apiStub struct {
	srv *httptest.Server

	mu       sync.Mutex
	login    cannedResponse
	signup   cannedResponse
	update   *cannedResponse
	users    map[string]models.User
	userGate chan struct{}

	requests   []string
	userAuth   []string
	lastSignup map[string]any
	lastUpdate map[string]any
}

func newAPIStub(t *testing.T) *apiStub {
	t.Helper()
	s := &apiStub{users: map[string]models.User{}}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s.mu.Lock()
			s.requests = append(s.requests, req.Method+" "+req.URL.Path)
			s.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/login", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		resp := s.login
		s.mu.Unlock()
		writeJSON(w, resp.status, resp.body)
	})
	r.Post("/signup", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		s.mu.Lock()
		s.lastSignup = body
		resp := s.signup
		s.mu.Unlock()
		writeJSON(w, resp.status, resp.body)
	})
	r.Get("/users/{username}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "username")
		s.mu.Lock()
		s.userAuth = append(s.userAuth, req.Header.Get("Authorization"))
		gate := s.userGate
		s.mu.Unlock()

		if gate != nil {
			<-gate
		}

		s.mu.Lock()
		u, ok := s.users[name]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, `{"error":{"message":"user not found"}}`)
			return
		}
		b, _ := json.Marshal(map[string]any{"user": u})
		writeJSON(w, http.StatusOK, string(b))
	})
	r.Post("/users", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.lastUpdate = body
		if s.update != nil {
			writeJSON(w, s.update.status, s.update.body)
			return
		}
		u := s.users["u"]
		if v, ok := body["email"].(string); ok {
			u.Email = v
		}
		s.users["u"] = u
		b, _ := json.Marshal(map[string]any{"user": u})
		writeJSON(w, http.StatusOK, string(b))
	})

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *apiStub) setLogin(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.login = cannedResponse{status, body}
}

func (s *apiStub) setSignup(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signup = cannedResponse{status, body}
}

func (s *apiStub) setUpdate(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update = &cannedResponse{status, body}
}

func (s *apiStub) addUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u
}

func (s *apiStub) holdUserFetches() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userGate = make(chan struct{})
	return s.userGate
}

func (s *apiStub) LastSignup() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSignup
}

func (s *apiStub) LastUpdate() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate
}

func (s *apiStub) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *apiStub) UserAuth() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userAuth...)
}

type harness struct {
	api   *apiStub
	store *session.Store
	mgr   *session.Manager
	auth  AuthService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	api := newAPIStub(t)

	c, err := client.NewHTTPClient(api.srv.URL)
	require.NoError(t, err)

	db, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := session.NewStore(ctx, db, nil)
	require.NoError(t, err)

	mgr := session.NewManager(store, c, nil)
	require.NoError(t, mgr.Start(ctx))
	t.Cleanup(func() { _ = mgr.Close() })

	return &harness{
		api:   api,
		store: store,
		mgr:   mgr,
		auth:  NewAuthService(c, store, mgr, nil),
	}
}

func (h *harness) waitLoaded(t *testing.T) session.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := h.mgr.WaitLoaded(ctx)
	require.NoError(t, err)
	return st
}

func (h *harness) storedToken(t *testing.T) string {
	t.Helper()
	tok, err := h.store.Get(context.Background())
	require.NoError(t, err)
	return tok
}
