package session

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/urguide/internal/client/models"
	"github.com/dmitrijs2005/urguide/internal/client/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), setupDB(t), nil)
	require.NoError(t, err)
	return s
}

func makeToken(t *testing.T, username string, id int64) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		UserID:   id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

var errNotFound = errors.New("user not found")

// fakeFetcher returns users by name. A gate registered for a username
// blocks that fetch until the gate is closed, regardless of ctx.
type fakeFetcher struct {
	mu    sync.Mutex
	users map[string]*models.User
	gates map[string]chan struct{}
	calls []string
}

func newFakeFetcher(users ...*models.User) *fakeFetcher {
	f := &fakeFetcher{users: map[string]*models.User{}, gates: map[string]chan struct{}{}}
	for _, u := range users {
		f.users[u.Username] = u
	}
	return f
}

func (f *fakeFetcher) gate(username string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[username] = ch
	return ch
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeFetcher) GetUser(_ context.Context, _ string, username string) (*models.User, error) {
	f.mu.Lock()
	f.calls = append(f.calls, username)
	gate := f.gates[username]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, errNotFound
	}
	cp := *u
	return &cp, nil
}

// stateRecorder collects every published State.
type stateRecorder struct {
	mu     sync.Mutex
	states []State
}

func (r *stateRecorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}
