package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/urguide/internal/client/models"
)

func decodeKey[T any](env Envelope, key string) (T, error) {
	var v T
	raw, ok := env[key]
	if !ok {
		return v, fmt.Errorf("%w: missing %q", ErrMalformedResponse, key)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: decode %q: %v", ErrMalformedResponse, key, err)
	}
	return v, nil
}

func (c *HTTPClient) requestToken(ctx context.Context, path string, payload any) (string, error) {
	env, err := c.Request(ctx, "", path, payload, http.MethodPost)
	if err != nil {
		return "", err
	}
	token, err := decodeKey[string](env, "token")
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrMalformedResponse)
	}
	return token, nil
}

// Login posts credentials to /login and returns the issued token.
func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	return c.requestToken(ctx, "login", creds)
}

// Signup posts a new account to /signup and returns the issued token.
func (c *HTTPClient) Signup(ctx context.Context, data models.SignupData) (string, error) {
	return c.requestToken(ctx, "signup", data)
}

func (c *HTTPClient) GetUser(ctx context.Context, token, username string) (*models.User, error) {
	env, err := c.Request(ctx, token, "users/"+url.PathEscape(username), nil, http.MethodGet)
	if err != nil {
		return nil, err
	}
	u, err := decodeKey[models.User](env, "user")
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile posts the editable fields to /users and returns the
// server's copy of the record.
func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, data models.ProfileData) (*models.User, error) {
	env, err := c.Request(ctx, token, "users", data, http.MethodPost)
	if err != nil {
		return nil, err
	}
	u, err := decodeKey[models.User](env, "user")
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) GetGuides(ctx context.Context, token string, query map[string]string) ([]models.Guide, error) {
	var payload any
	if len(query) > 0 {
		payload = query
	}
	env, err := c.Request(ctx, token, "guides", payload, http.MethodGet)
	if err != nil {
		return nil, err
	}
	return decodeKey[[]models.Guide](env, "guides")
}

func (c *HTTPClient) GetGuide(ctx context.Context, token, id string) (models.Guide, error) {
	env, err := c.Request(ctx, token, "guides/"+url.PathEscape(id), nil, http.MethodGet)
	if err != nil {
		return nil, err
	}
	return decodeKey[models.Guide](env, "guide")
}

func (c *HTTPClient) CreateGuide(ctx context.Context, token string, data map[string]any) (models.Guide, error) {
	env, err := c.Request(ctx, token, "guides", data, http.MethodPost)
	if err != nil {
		return nil, err
	}
	return decodeKey[models.Guide](env, "guide")
}

func (c *HTTPClient) GetUserGuides(ctx context.Context, token, username string) ([]models.Guide, error) {
	env, err := c.Request(ctx, token, "users/"+url.PathEscape(username)+"/guides", nil, http.MethodGet)
	if err != nil {
		return nil, err
	}
	return decodeKey[[]models.Guide](env, "guides")
}

func (c *HTTPClient) GetMatches(ctx context.Context, token, userID string) ([]models.Match, error) {
	env, err := c.Request(ctx, token, "users/"+url.PathEscape(userID)+"/matches", nil, http.MethodGet)
	if err != nil {
		return nil, err
	}
	return decodeKey[[]models.Match](env, "matches")
}

// LikeMatch records a like for the guide and returns the created match.
func (c *HTTPClient) LikeMatch(ctx context.Context, token, guideID string, data map[string]any) (models.Match, error) {
	var payload any
	if data != nil {
		payload = data
	}
	env, err := c.Request(ctx, token, "guides/"+url.PathEscape(guideID)+"/matches", payload, http.MethodPost)
	if err != nil {
		return nil, err
	}
	return decodeKey[models.Match](env, "match")
}

// DislikeMatch deletes the match and returns the server's message.
func (c *HTTPClient) DislikeMatch(ctx context.Context, token, matchID string) (string, error) {
	env, err := c.Request(ctx, token, "matches/"+url.PathEscape(matchID), nil, http.MethodDelete)
	if err != nil {
		return "", err
	}
	return decodeKey[string](env, "message")
}
