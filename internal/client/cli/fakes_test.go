package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/dmitrijs2005/urguide/internal/client/models"
	"github.com/dmitrijs2005/urguide/internal/client/services"
	"github.com/dmitrijs2005/urguide/internal/client/session"
)

type fakeAuth struct {
	LoginRes   services.Result
	SignupRes  services.Result
	UpdateRes  services.Result
	LastCreds  models.Credentials
	LastSignup models.SignupData
	LastUpdate models.ProfileData
	Logouts    int

	// onLogin is applied to the sessions fake after a successful login.
	onLogin func()
}

func (f *fakeAuth) Login(_ context.Context, creds models.Credentials) services.Result {
	f.LastCreds = creds
	if f.LoginRes.Success && f.onLogin != nil {
		f.onLogin()
	}
	return f.LoginRes
}

func (f *fakeAuth) Signup(_ context.Context, data models.SignupData) services.Result {
	f.LastSignup = data
	if f.SignupRes.Success && f.onLogin != nil {
		f.onLogin()
	}
	return f.SignupRes
}

func (f *fakeAuth) UpdateProfile(_ context.Context, data models.ProfileData) services.Result {
	f.LastUpdate = data
	return f.UpdateRes
}

func (f *fakeAuth) Logout(context.Context) { f.Logouts++ }

type fakeMatches struct {
	GuidesRet  []models.Guide
	GuideRet   models.Guide
	MatchesRet []models.Match
	MatchRet   models.Match
	MessageRet string
	Err        error

	LastQuery    map[string]string
	LastID       string
	LastUsername string
	LastData     map[string]any
}

func (f *fakeMatches) Guides(_ context.Context, q map[string]string) ([]models.Guide, error) {
	f.LastQuery = q
	return f.GuidesRet, f.Err
}

func (f *fakeMatches) Guide(_ context.Context, id string) (models.Guide, error) {
	f.LastID = id
	return f.GuideRet, f.Err
}

func (f *fakeMatches) CreateGuide(_ context.Context, data map[string]any) (models.Guide, error) {
	f.LastData = data
	return f.GuideRet, f.Err
}

func (f *fakeMatches) UserGuides(_ context.Context, username string) ([]models.Guide, error) {
	f.LastUsername = username
	return f.GuidesRet, f.Err
}

func (f *fakeMatches) Matches(context.Context) ([]models.Match, error) {
	return f.MatchesRet, f.Err
}

func (f *fakeMatches) Like(_ context.Context, id string, data map[string]any) (models.Match, error) {
	f.LastID, f.LastData = id, data
	return f.MatchRet, f.Err
}

func (f *fakeMatches) Dislike(_ context.Context, id string) (string, error) {
	f.LastID = id
	return f.MessageRet, f.Err
}

// fakeSessions serves St and fans it out to subscribers on publish.
type fakeSessions struct {
	mu   sync.Mutex
	St   session.State
	subs []func(session.State)
}

func (f *fakeSessions) State() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.St
}

func (f *fakeSessions) Subscribe(fn func(session.State)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeSessions) WaitLoaded(context.Context) (session.State, error) {
	return f.State(), nil
}

func (f *fakeSessions) publish(st session.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.St = st
	for _, fn := range f.subs {
		fn(st)
	}
}

type fakeHints struct{ name string }

func (f fakeHints) LastUsername(context.Context) (string, error) { return f.name, nil }

type testApp struct {
	*App
	auth     *fakeAuth
	matches  *fakeMatches
	sessions *fakeSessions
	out      *bytes.Buffer
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	ta := &testApp{
		auth:     &fakeAuth{},
		matches:  &fakeMatches{},
		sessions: &fakeSessions{St: session.State{InfoLoaded: true}},
		out:      &bytes.Buffer{},
	}
	ta.App = &App{
		authService:  ta.auth,
		matchService: ta.matches,
		sessions:     ta.sessions,
		hints:        fakeHints{},
		reader:       rdr(input),
		out:          ta.out,
	}
	return ta
}

func loggedInState(u *models.User) session.State {
	return session.State{
		Token:       "tok",
		Claims:      &session.Claims{Username: u.Username, UserID: u.ID},
		CurrentUser: u,
		InfoLoaded:  true,
		Generation:  1,
	}
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }
