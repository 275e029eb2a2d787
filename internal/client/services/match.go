package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/urguide/internal/client/client"
	"github.com/dmitrijs2005/urguide/internal/client/models"
	"github.com/dmitrijs2005/urguide/internal/common"
	"github.com/dmitrijs2005/urguide/internal/logging"
)

// ErrUnknownUser is returned when the session has neither a loaded user
// record nor a user id claim to address per-user resources.
var ErrUnknownUser = errors.New("current user is unknown")

// MatchService wraps the guide and match endpoints. Every call uses the
// token of the current session and fails with common.ErrNotLoggedIn when
// there is none.
type MatchService interface {
	Guides(ctx context.Context, query map[string]string) ([]models.Guide, error)
	Guide(ctx context.Context, id string) (models.Guide, error)
	CreateGuide(ctx context.Context, data map[string]any) (models.Guide, error)
	// UserGuides lists guides of username, or of the current user when
	// username is empty.
	UserGuides(ctx context.Context, username string) ([]models.Guide, error)
	Matches(ctx context.Context) ([]models.Match, error)
	Like(ctx context.Context, guideID string, data map[string]any) (models.Match, error)
	Dislike(ctx context.Context, matchID string) (string, error)
}

type matchService struct {
	client   client.Client
	sessions Sessions
	logger   logging.Logger
}

func NewMatchService(c client.Client, sessions Sessions, logger logging.Logger) MatchService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &matchService{client: c, sessions: sessions, logger: logger}
}

func (s *matchService) token() (string, error) {
	tok := s.sessions.State().Token
	if tok == "" {
		return "", common.ErrNotLoggedIn
	}
	return tok, nil
}

func (s *matchService) Guides(ctx context.Context, query map[string]string) ([]models.Guide, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.GetGuides(ctx, tok, query)
}

func (s *matchService) Guide(ctx context.Context, id string) (models.Guide, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.GetGuide(ctx, tok, id)
}

func (s *matchService) CreateGuide(ctx context.Context, data map[string]any) (models.Guide, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	g, err := s.client.CreateGuide(ctx, tok, data)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "guide created")
	return g, nil
}

func (s *matchService) UserGuides(ctx context.Context, username string) ([]models.Guide, error) {
	st := s.sessions.State()
	if st.Token == "" {
		return nil, common.ErrNotLoggedIn
	}
	if username == "" {
		switch {
		case st.CurrentUser != nil:
			username = st.CurrentUser.Username
		case st.Claims != nil:
			username = st.Claims.Username
		default:
			return nil, ErrUnknownUser
		}
	}
	return s.client.GetUserGuides(ctx, st.Token, username)
}

// Matches lists the matches of the current user. The server id from the
// loaded record is preferred; the user_id claim is only a fallback.
func (s *matchService) Matches(ctx context.Context) ([]models.Match, error) {
	st := s.sessions.State()
	if st.Token == "" {
		return nil, common.ErrNotLoggedIn
	}

	var id int64
	switch {
	case st.CurrentUser != nil && st.CurrentUser.ID != 0:
		id = st.CurrentUser.ID
	case st.Claims != nil && st.Claims.UserID != 0:
		id = st.Claims.UserID
	default:
		return nil, ErrUnknownUser
	}
	return s.client.GetMatches(ctx, st.Token, strconv.FormatInt(id, 10))
}

func (s *matchService) Like(ctx context.Context, guideID string, data map[string]any) (models.Match, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.LikeMatch(ctx, tok, guideID, data)
}

func (s *matchService) Dislike(ctx context.Context, matchID string) (string, error) {
	tok, err := s.token()
	if err != nil {
		return "", err
	}
	return s.client.DislikeMatch(ctx, tok, matchID)
}
