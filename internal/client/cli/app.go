package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/urguide/internal/client/client"
	"github.com/dmitrijs2005/urguide/internal/client/config"
	"github.com/dmitrijs2005/urguide/internal/client/services"
	"github.com/dmitrijs2005/urguide/internal/client/session"
	"github.com/dmitrijs2005/urguide/internal/client/storage"
	"github.com/dmitrijs2005/urguide/internal/filex"
	"github.com/dmitrijs2005/urguide/internal/logging"
)

// sessionView is the read side of session.Manager used by the commands.
type sessionView interface {
	State() session.State
	Subscribe(fn func(session.State)) (unsubscribe func())
	WaitLoaded(ctx context.Context) (session.State, error)
}

// usernameHint supplies the username to prefill on login.
type usernameHint interface {
	LastUsername(ctx context.Context) (string, error)
}

// loadTimeout bounds how long login and signup wait for the user record
// before returning to the prompt.
const loadTimeout = 5 * time.Second

type App struct {
	config       *config.Config
	authService  services.AuthService
	matchService services.MatchService
	sessions     sessionView
	hints        usernameHint
	logger       logging.Logger

	reader *bufio.Reader
	outMu  sync.Mutex
	out    io.Writer

	// Set by NewApp only; nil in tests.
	store   *session.Store
	manager *session.Manager
	closers []func() error

	reportedBroken uint64
}

// NewApp wires logging, the local database, the API client and the session
// components according to c.
func NewApp(ctx context.Context, c *config.Config) (app *App, err error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(os.Stderr, level, c.LogFile)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	a.closers = append(a.closers, closeLog)
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, fmt.Errorf("prepare data directory: %w", err)
	}
	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	opts := []client.Option{client.WithLogger(logger)}
	if c.RetryAttempts > 0 {
		opts = append(opts, client.WithRetry(c.RetryAttempts, 200*time.Millisecond))
	}
	if c.RateLimit > 0 {
		opts = append(opts, client.WithRateLimit(c.RateLimit, 1))
	}
	apiClient, err := client.NewHTTPClient(c.BaseURL, opts...)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, apiClient.Close)

	store, err := session.NewStore(ctx, db, logger)
	if err != nil {
		return nil, err
	}
	manager := session.NewManager(store, apiClient, logger)
	a.closers = append(a.closers, manager.Close)

	a.store = store
	a.manager = manager
	a.sessions = manager
	a.hints = store
	a.authService = services.NewAuthService(apiClient, store, manager, logger)
	a.matchService = services.NewMatchService(apiClient, manager, logger)
	return a, nil
}

// Run restores the session, starts the token watcher and blocks in the REPL
// until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := a.sessions.Subscribe(a.onSessionChange)
	defer unsubscribe()

	if a.manager != nil {
		if err := a.manager.Start(ctx); err != nil {
			return err
		}
	}
	if a.store != nil && a.config != nil && a.config.TokenSyncInterval > 0 {
		go a.store.Watch(ctx, a.config.TokenSyncInterval)
	}

	a.println("Welcome to UrGuide CLI (type 'help' for commands)")
	if a.isLoggedIn() {
		a.println("Restoring session...")
		wctx, wcancel := context.WithTimeout(ctx, loadTimeout)
		_, _ = a.sessions.WaitLoaded(wctx)
		wcancel()
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.writer())
	return nil
}

// Close releases everything NewApp acquired, in reverse order.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// onSessionChange prompts for a new login once per broken generation. It
// runs under the session manager's lock and must only write output.
func (a *App) onSessionChange(st session.State) {
	if !st.Broken() || st.Generation == a.reportedBroken {
		return
	}
	a.reportedBroken = st.Generation
	a.println("Your session could not be restored. Please log in again (type 'login').")
}

func (a *App) isLoggedIn() bool {
	return a.sessions.State().Token != ""
}

func (a *App) getStatus() string {
	st := a.sessions.State()
	switch {
	case st.Token == "":
		return ""
	case !st.InfoLoaded:
		return "(loading)"
	case st.CurrentUser == nil:
		return "(session expired)"
	default:
		return fmt.Sprintf("(%s)", st.CurrentUser.Username)
	}
}

// lockedWriter serializes writes from the REPL and from session callbacks.
type lockedWriter struct{ a *App }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.a.outMu.Lock()
	defer w.a.outMu.Unlock()
	return w.a.out.Write(p)
}

func (a *App) writer() io.Writer { return lockedWriter{a} }

func (a *App) println(args ...any) {
	fmt.Fprintln(a.writer(), args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.writer(), format, args...)
}

func (a *App) printErrors(errs []string) {
	for _, e := range errs {
		a.println("  -", e)
	}
}
