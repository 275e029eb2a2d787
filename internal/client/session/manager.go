package session

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/urguide/internal/client/models"
	"github.com/dmitrijs2005/urguide/internal/logging"
)

// TokenSource is the part of Store the Manager depends on.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
	Subscribe(fn func(token string)) (unsubscribe func())
}

// UserFetcher loads a user record on behalf of token.
type UserFetcher interface {
	GetUser(ctx context.Context, token, username string) (*models.User, error)
}

// State is a snapshot of the session.
//
// InfoLoaded is false while the user of the current generation is being
// fetched. A loaded state with a token and no CurrentUser is a broken
// session: the token is kept, but the server did not return a user for it.
type State struct {
	Token       string
	Claims      *Claims
	CurrentUser *models.User
	InfoLoaded  bool
	Generation  uint64
}

// Broken reports whether the session holds a token whose user could not be
// resolved.
func (s State) Broken() bool {
	return s.InfoLoaded && s.Token != "" && s.CurrentUser == nil
}

func (s State) clone() State {
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		s.CurrentUser = &u
	}
	return s
}

// ErrClosed is returned by Start after Close was called.
var ErrClosed = errors.New("session manager closed")

// Manager resolves the token held by a TokenSource into a user record and
// publishes the resulting State. It is the only writer of session state.
//
// Subscribers are called synchronously while the Manager's lock is held and
// must not call back into the Manager.
type Manager struct {
	tokens  TokenSource
	fetcher UserFetcher
	logger  logging.Logger

	mu      sync.Mutex
	state   State
	started bool
	closed  bool
	loaded  chan struct{}

	ctx         context.Context
	stop        context.CancelFunc
	cancelFetch context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup

	subs   map[uint64]func(State)
	nextID uint64
}

func NewManager(tokens TokenSource, fetcher UserFetcher, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{
		tokens:  tokens,
		fetcher: fetcher,
		logger:  logger,
		ctx:     context.Background(),
		loaded:  make(chan struct{}),
		subs:    map[uint64]func(State){},
	}
}

// Start subscribes to token changes and resolves the current token. Fetches
// run until ctx is done or Close is called. Calling Start twice is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.started {
		return nil
	}

	// Subscribe before reading so a write in between is not lost. Its
	// notification waits on m.mu and then matches the token read here.
	m.ctx, m.stop = context.WithCancel(ctx)
	m.unsubscribe = m.tokens.Subscribe(m.onToken)

	token, err := m.tokens.Get(ctx)
	if err != nil {
		m.unsubscribe()
		m.unsubscribe = nil
		m.stop()
		m.ctx, m.stop = context.Background(), nil
		return err
	}

	m.applyLocked(token, true)
	m.started = true
	return nil
}

func (m *Manager) onToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || !m.started {
		return
	}
	m.applyLocked(token, false)
}

// applyLocked enters a new generation for token. Unless force is set, a
// token equal to the current one is ignored.
func (m *Manager) applyLocked(token string, force bool) {
	if !force && token == m.state.Token {
		return
	}
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}

	gen := m.state.Generation + 1

	// Every generation gets its own loaded channel.
	if m.state.InfoLoaded {
		m.loaded = make(chan struct{})
	}

	if token == "" {
		m.state = State{Generation: gen}
		m.markLoadedLocked()
		m.publishLocked()
		return
	}

	m.state = State{Token: token, Generation: gen}

	claims, err := DecodeClaims(token)
	if err != nil {
		m.logger.Warn(m.ctx, "cannot decode session token", "error", err)
		m.markLoadedLocked()
		m.publishLocked()
		return
	}
	m.state.Claims = claims
	m.publishLocked()

	fetchCtx, cancel := context.WithCancel(m.ctx)
	m.cancelFetch = cancel
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		user, err := m.fetcher.GetUser(fetchCtx, token, claims.Username)
		m.settle(gen, user, err)
	}()
}

func (m *Manager) settle(gen uint64, user *models.User, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if gen != m.state.Generation || m.state.InfoLoaded {
		m.logger.Debug(m.ctx, "discarding stale user fetch", "generation", gen)
		return
	}
	m.cancelFetch = nil

	if err != nil {
		m.logger.Warn(m.ctx, "cannot load current user",
			"username", m.state.Claims.Username, "error", err)
		user = nil
	}
	m.state.CurrentUser = user
	m.markLoadedLocked()
	m.publishLocked()
}

func (m *Manager) markLoadedLocked() {
	if !m.state.InfoLoaded {
		m.state.InfoLoaded = true
		close(m.loaded)
	}
}

func (m *Manager) publishLocked() {
	for _, id := range slices.Sorted(maps.Keys(m.subs)) {
		m.subs[id](m.state.clone())
	}
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// WaitLoaded blocks until the current generation is loaded or ctx is done.
// If the token changes while waiting, it waits for the new generation.
func (m *Manager) WaitLoaded(ctx context.Context) (State, error) {
	for {
		m.mu.Lock()
		if m.state.InfoLoaded {
			s := m.state.clone()
			m.mu.Unlock()
			return s, nil
		}
		ch := m.loaded
		m.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return State{}, ctx.Err()
		}
	}
}

// Reset moves the session to the no-token state and abandons any in-flight
// fetch. It is idempotent.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Token == "" && m.state.InfoLoaded {
		return
	}
	m.applyLocked("", true)
}

// CommitUser replaces the current user if gen is still the current
// generation and a token is present. The generation counts as loaded
// afterwards and an in-flight fetch for it is abandoned.
func (m *Manager) CommitUser(gen uint64, user *models.User) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.state.Generation || m.state.Token == "" {
		return false
	}
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
	if user != nil {
		u := *user
		user = &u
	}
	m.state.CurrentUser = user
	m.markLoadedLocked()
	m.publishLocked()
	return true
}

// Close stops listening for token changes, cancels in-flight fetches and
// waits for them to return.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	unsubscribe := m.unsubscribe
	if m.stop != nil {
		m.stop()
	}
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	m.wg.Wait()
	return nil
}
