package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/urguide/internal/client/models"
)

// Envelope is the top-level JSON object of a successful response, keyed by
// resource name ("user", "token", "guides", ...).
type Envelope map[string]json.RawMessage

// Client is the UrGuide API contract. Every call receives the session token
// explicitly; an empty token sends no Authorization header.
type Client interface {
	Request(ctx context.Context, token, path string, payload any, method string) (Envelope, error)

	Login(ctx context.Context, creds models.Credentials) (string, error)
	Signup(ctx context.Context, data models.SignupData) (string, error)
	GetUser(ctx context.Context, token, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, data models.ProfileData) (*models.User, error)

	GetGuides(ctx context.Context, token string, query map[string]string) ([]models.Guide, error)
	GetGuide(ctx context.Context, token, id string) (models.Guide, error)
	CreateGuide(ctx context.Context, token string, data map[string]any) (models.Guide, error)
	GetUserGuides(ctx context.Context, token, username string) ([]models.Guide, error)

	GetMatches(ctx context.Context, token, userID string) ([]models.Match, error)
	LikeMatch(ctx context.Context, token, guideID string, data map[string]any) (models.Match, error)
	DislikeMatch(ctx context.Context, token, matchID string) (string, error)

	Close() error
}
