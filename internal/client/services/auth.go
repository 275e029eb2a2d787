// Package services contains the application services of the UrGuide client.
// This file defines the authentication actions: login, signup, profile
// update and logout.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/urguide/internal/client/client"
	"github.com/dmitrijs2005/urguide/internal/client/models"
	"github.com/dmitrijs2005/urguide/internal/client/session"
	"github.com/dmitrijs2005/urguide/internal/common"
	"github.com/dmitrijs2005/urguide/internal/logging"
)

// Result is the outcome of an auth action. Errors holds the server's
// messages in order and is empty on success. Callers render it inline; auth
// actions never return a Go error.
type Result struct {
	Success bool
	Errors  []string
}

func succeeded() Result { return Result{Success: true} }

func failed(err error) Result { return Result{Errors: client.Messages(err)} }

// TokenStore is where auth actions write the session token.
type TokenStore interface {
	Set(ctx context.Context, token string) error
}

// Sessions exposes the session state maintained by session.Manager.
type Sessions interface {
	State() session.State
	Reset()
	CommitUser(gen uint64, user *models.User) bool
}

// AuthService defines the authentication actions used by the CLI.
//
// Contract:
//   - Login, Signup: obtain a token and store it. They return as soon as the
//     token is stored; the user record is loaded in the background.
//   - UpdateProfile: send the editable fields and replace the current user
//     with the server's record.
//   - Logout: clear the stored token and the current user. Idempotent.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) Result
	Signup(ctx context.Context, data models.SignupData) Result
	UpdateProfile(ctx context.Context, data models.ProfileData) Result
	Logout(ctx context.Context)
}

type authService struct {
	client   client.Client
	tokens   TokenStore
	sessions Sessions
	logger   logging.Logger
}

// NewAuthService constructs an AuthService over the API client and the
// session components.
func NewAuthService(c client.Client, tokens TokenStore, sessions Sessions, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{client: c, tokens: tokens, sessions: sessions, logger: logger}
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) Result {
	token, err := a.client.Login(ctx, creds)
	if err != nil {
		a.logger.Info(ctx, "login failed", "username", creds.Username, "error", err)
		return failed(err)
	}
	return a.storeToken(ctx, token)
}

func (a *authService) Signup(ctx context.Context, data models.SignupData) Result {
	token, err := a.client.Signup(ctx, data)
	if err != nil {
		a.logger.Info(ctx, "signup failed", "username", data.Username, "error", err)
		return failed(err)
	}
	return a.storeToken(ctx, token)
}

func (a *authService) storeToken(ctx context.Context, token string) Result {
	if err := a.tokens.Set(ctx, token); err != nil {
		a.logger.Error(ctx, "cannot store session token", "error", err)
		return failed(fmt.Errorf("cannot save session: %w", err))
	}
	return succeeded()
}

// UpdateProfile posts data with the current token. When the session moved
// to another token while the request was in flight, the server accepted the
// update but the returned record is not applied to the new session.
func (a *authService) UpdateProfile(ctx context.Context, data models.ProfileData) Result {
	st := a.sessions.State()
	if st.Token == "" {
		return failed(common.ErrNotLoggedIn)
	}

	user, err := a.client.UpdateProfile(ctx, st.Token, data)
	if err != nil {
		a.logger.Info(ctx, "profile update failed", "error", err)
		return failed(err)
	}

	if !a.sessions.CommitUser(st.Generation, user) {
		a.logger.Info(ctx, "session changed during profile update, record not applied",
			"generation", st.Generation)
	}
	return succeeded()
}

func (a *authService) Logout(ctx context.Context) {
	if err := a.tokens.Set(ctx, ""); err != nil {
		a.logger.Error(ctx, "cannot clear session token", "error", err)
	}
	a.sessions.Reset()
}
