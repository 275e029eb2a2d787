package services

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/urguide/internal/client/client"
	"github.com/dmitrijs2005/urguide/internal/client/models"
	"github.com/dmitrijs2005/urguide/internal/client/session"
)

// fakeClient implements client.Client and records the inputs of the calls
// the services make.
type fakeClient struct {
	GuidesRet  []models.Guide
	GuideRet   models.Guide
	MatchesRet []models.Match
	MatchRet   models.Match
	MessageRet string
	UserRet    *models.User
	Err        error

	LastToken    string
	LastQuery    map[string]string
	LastID       string
	LastUsername string
	LastData     map[string]any
	LastProfile  models.ProfileData
	Calls        int
}

func (f *fakeClient) Request(context.Context, string, string, any, string) (client.Envelope, error) {
	f.Calls++
	return client.Envelope{}, f.Err
}

func (f *fakeClient) Login(context.Context, models.Credentials) (string, error) {
	f.Calls++
	return "", f.Err
}

func (f *fakeClient) Signup(context.Context, models.SignupData) (string, error) {
	f.Calls++
	return "", f.Err
}

func (f *fakeClient) GetUser(_ context.Context, token, username string) (*models.User, error) {
	f.Calls++
	f.LastToken, f.LastUsername = token, username
	return f.UserRet, f.Err
}

func (f *fakeClient) UpdateProfile(_ context.Context, token string, data models.ProfileData) (*models.User, error) {
	f.Calls++
	f.LastToken, f.LastProfile = token, data
	return f.UserRet, f.Err
}

func (f *fakeClient) GetGuides(_ context.Context, token string, query map[string]string) ([]models.Guide, error) {
	f.Calls++
	f.LastToken, f.LastQuery = token, query
	return f.GuidesRet, f.Err
}

func (f *fakeClient) GetGuide(_ context.Context, token, id string) (models.Guide, error) {
	f.Calls++
	f.LastToken, f.LastID = token, id
	return f.GuideRet, f.Err
}

func (f *fakeClient) CreateGuide(_ context.Context, token string, data map[string]any) (models.Guide, error) {
	f.Calls++
	f.LastToken, f.LastData = token, data
	return f.GuideRet, f.Err
}

func (f *fakeClient) GetUserGuides(_ context.Context, token, username string) ([]models.Guide, error) {
	f.Calls++
	f.LastToken, f.LastUsername = token, username
	return f.GuidesRet, f.Err
}

func (f *fakeClient) GetMatches(_ context.Context, token, userID string) ([]models.Match, error) {
	f.Calls++
	f.LastToken, f.LastID = token, userID
	return f.MatchesRet, f.Err
}

func (f *fakeClient) LikeMatch(_ context.Context, token, guideID string, data map[string]any) (models.Match, error) {
	f.Calls++
	f.LastToken, f.LastID, f.LastData = token, guideID, data
	return f.MatchRet, f.Err
}

func (f *fakeClient) DislikeMatch(_ context.Context, token, matchID string) (string, error) {
	f.Calls++
	f.LastToken, f.LastID = token, matchID
	return f.MessageRet, f.Err
}

func (f *fakeClient) Close() error { return nil }

var _ client.Client = (*fakeClient)(nil)

// fakeSessions serves a fixed State.
type fakeSessions struct {
	St         session.State
	CommitOK   bool
	Committed  *models.User
	ResetCalls int
}

func (f *fakeSessions) State() session.State { return f.St }

func (f *fakeSessions) Reset() {
	f.ResetCalls++
	f.St = session.State{Generation: f.St.Generation + 1, InfoLoaded: true}
}

func (f *fakeSessions) CommitUser(gen uint64, user *models.User) bool {
	if !f.CommitOK || gen != f.St.Generation {
		return false
	}
	f.Committed = user
	return true
}

// fakeTokens records stored tokens.
type fakeTokens struct {
	Tokens []string
	Err    error
}

func (f *fakeTokens) Set(_ context.Context, token string) error {
	f.Tokens = append(f.Tokens, token)
	return f.Err
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }
