package session

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/urguide/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/urguide/internal/common"
	"github.com/dmitrijs2005/urguide/internal/dbx"
	"github.com/dmitrijs2005/urguide/internal/logging"
)

// Store is the durable home of the session token. The empty string means
// no token.
//
// Subscribers are called synchronously, in change order, and must not call
// Set or Sync.
type Store struct {
	db     *sql.DB
	logger logging.Logger

	mu   sync.Mutex // serializes writes and notifications
	last string
	// stale is set after a failed write; subscribers may have acted on a
	// value that never reached the slot, so the next change is delivered
	// even if it equals last.
	stale bool

	subsMu sync.Mutex
	subs   map[uint64]func(token string)
	nextID uint64
}

// NewStore loads the current token from db and returns a Store over it.
func NewStore(ctx context.Context, db *sql.DB, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{db: db, logger: logger, subs: map[uint64]func(string){}}

	token, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	s.last = token
	return s, nil
}

// Get reads the token from the durable slot.
func (s *Store) Get(ctx context.Context) (string, error) {
	token, _, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.TokenStorageKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// Set writes token to the durable slot; an empty token removes it.
// Subscribers are notified only when the value differs from the one they
// last observed, or on the first successful write after a failed one.
func (s *Store) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		current, _, err := repo.Get(ctx, common.TokenStorageKey)
		if err != nil {
			return err
		}
		if current == token {
			return nil
		}

		if token == "" {
			return repo.Delete(ctx, common.TokenStorageKey)
		}
		if err := repo.Set(ctx, common.TokenStorageKey, token); err != nil {
			return err
		}
		if claims, err := DecodeClaims(token); err == nil {
			return repo.Set(ctx, common.LastUsernameKey, claims.Username)
		}
		return nil
	})
	if err != nil {
		s.stale = true
		return fmt.Errorf("write token: %w", err)
	}

	s.changedLocked(token)
	return nil
}

// Sync re-reads the durable slot and notifies subscribers if another
// process changed it since the last observation.
func (s *Store) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if token != s.last {
		s.logger.Debug(ctx, "token changed externally")
	}
	s.changedLocked(token)
	return nil
}

// Watch calls Sync every interval until ctx is done.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sync(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn(ctx, "token sync failed", "error", err)
			}
		}
	}
}

// LastUsername returns the username of the most recently stored token. It
// survives logout and is meant to prefill login prompts.
func (s *Store) LastUsername(ctx context.Context) (string, error) {
	name, _, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.LastUsernameKey)
	return name, err
}

// Subscribe registers fn for token changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(token string)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) changedLocked(token string) {
	if token == s.last && !s.stale {
		return
	}
	s.last = token
	s.stale = false

	s.subsMu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		fns = append(fns, s.subs[id])
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(token)
	}
}
