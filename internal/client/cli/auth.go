package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/urguide/internal/client/models"
	"github.com/dmitrijs2005/urguide/internal/client/services"
	"github.com/dmitrijs2005/urguide/internal/common"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used
// to facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

var errCanceled = errors.New("canceled")

// Signup prompts for a username, a password and the profile fields, then
// creates the account. Empty profile answers are left unset.
func (a *App) Signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", a.writer())
	if err != nil {
		return err
	}
	if username == "" {
		return errCanceled
	}
	password, err := getPassword(a.reader, "Choose a password", a.writer())
	if err != nil {
		return err
	}

	data := models.SignupData{Username: username}
	data.Password = password
	for _, f := range data.Fields() {
		v, err := getSimpleText(a.reader, f.Label+" (optional)", a.writer())
		if err != nil {
			return err
		}
		data.Set(f.Name, v)
	}

	res := a.authService.Signup(ctx, data)
	return a.finishAuth(ctx, "Signup", res)
}

// Login prompts for credentials, prefilling the last used username.
func (a *App) Login(ctx context.Context) error {
	last := ""
	if a.hints != nil {
		if name, err := a.hints.LastUsername(ctx); err == nil {
			last = name
		}
	}

	username, err := getTextWithDefault(a.reader, "Username", last, a.writer())
	if err != nil {
		return err
	}
	if username == "" {
		return errCanceled
	}
	password, err := getPassword(a.reader, "Password", a.writer())
	if err != nil {
		return err
	}

	res := a.authService.Login(ctx, models.Credentials{Username: username, Password: password})
	return a.finishAuth(ctx, "Login", res)
}

// finishAuth reports res and, on success, waits briefly for the session to
// load so the greeting can show the resolved user.
func (a *App) finishAuth(ctx context.Context, action string, res services.Result) error {
	if !res.Success {
		a.println(action, "failed:")
		a.printErrors(res.Errors)
		return nil
	}

	wctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	st, err := a.sessions.WaitLoaded(wctx)
	switch {
	case err != nil:
		a.println(action, "successful, loading your profile...")
	case st.CurrentUser != nil:
		a.printf("%s successful. Welcome, %s!\n", action, displayName(st.CurrentUser))
	default:
		a.println(action, "successful.")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	a.println("Logged out.")
	return nil
}

// Whoami prints the resolved user, or the token's username hint while the
// record is not available.
func (a *App) Whoami(context.Context) error {
	st := a.sessions.State()
	switch {
	case st.Token == "":
		return common.ErrNotLoggedIn
	case st.CurrentUser != nil:
		u := st.CurrentUser
		a.printf("%s (%s)\n", u.Username, displayName(u))
		for _, f := range models.ProfileFromUser(u).Fields() {
			if f.Value != "" {
				a.printf("  %-10s %s\n", f.Label+":", f.Value)
			}
		}
	case !st.InfoLoaded:
		a.println("Loading profile...")
	case st.Claims != nil:
		a.printf("%s (session expired, please log in again)\n", st.Claims.Username)
	default:
		a.println("Session expired, please log in again.")
	}
	return nil
}

// Profile walks through the editable fields, keeping the current value on
// an empty answer, and sends the result to the server.
func (a *App) Profile(ctx context.Context) error {
	st := a.sessions.State()
	if st.Token == "" {
		return common.ErrNotLoggedIn
	}
	if st.CurrentUser == nil {
		return errors.New("profile is not loaded")
	}

	data := models.ProfileFromUser(st.CurrentUser)
	for _, f := range data.Fields() {
		v, err := getTextWithDefault(a.reader, f.Label, f.Value, a.writer())
		if err != nil {
			return err
		}
		data.Set(f.Name, v)
	}
	pw, err := getPassword(a.reader, "New password (empty keeps the current one)", a.writer())
	if err != nil {
		return err
	}
	data.Password = pw

	res := a.authService.UpdateProfile(ctx, data)
	if !res.Success {
		a.println("Profile update failed:")
		a.printErrors(res.Errors)
		return nil
	}
	a.println("Profile updated.")
	return nil
}

func displayName(u *models.User) string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
