// Package profile reads the signed-in user's status and public
// profiles, and classifies profile links by their two-letter type code.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/onvo-app/onvo-cli/client"
)

// API is the slice of the ONVO client the repository calls.
type API interface {
	AuthStatus(ctx context.Context, token string) (*client.AuthStatusResponse, error)
	UserProfile(ctx context.Context, userID int, token string) (*client.UserProfileResponse, error)
}

// TokenStore reads and clears the persisted session.
type TokenStore interface {
	AuthToken(ctx context.Context) (string, error)
	ClearAuthToken(ctx context.Context) error
	ClearUserSession(ctx context.Context) error
}

// ErrSessionExpired is returned when the server no longer accepts the
// stored token. The local session has already been cleared when this
// comes back.
var ErrSessionExpired = errors.New("session expired, please login again")

// Repository serves profile reads over the API and the local store.
type Repository struct {
	api    API
	store  TokenStore
	logger *slog.Logger
}

func NewRepository(api API, store TokenStore, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{api: api, store: store, logger: logger}
}

// CurrentUserStatus fetches the signed-in user for the stored token. A
// 401 from the server clears both the token and the user session
// before the error is returned, so callers observe a signed-out store.
func (r *Repository) CurrentUserStatus(ctx context.Context) (*client.AuthUserData, error) {
	token, err := r.store.AuthToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, &NotLoggedInError{Message: "Please login first"}
	}

	resp, err := r.api.AuthStatus(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			r.logger.Debug("auth status returned 401, clearing session")
			if cerr := r.ClearSession(ctx); cerr != nil {
				r.logger.Warn("failed to clear session", "error", cerr)
			}
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if !resp.IsLoged {
		return nil, ErrSessionExpired
	}
	return &resp.Data, nil
}

// UserProfile fetches the public profile for userID. The stored token
// is sent when present; anonymous reads work too.
func (r *Repository) UserProfile(ctx context.Context, userID int) (*client.UserProfileResponse, error) {
	token, err := r.store.AuthToken(ctx)
	if err != nil {
		return nil, err
	}
	return r.api.UserProfile(ctx, userID, token)
}

// ClearSession removes the stored token and user session.
func (r *Repository) ClearSession(ctx context.Context) error {
	if err := r.store.ClearAuthToken(ctx); err != nil {
		return err
	}
	return r.store.ClearUserSession(ctx)
}

// NotLoggedInError reports an operation that requires a session when
// none is stored.
type NotLoggedInError struct {
	Message string
}

func (e *NotLoggedInError) Error() string { return e.Message }

// LinkKind is a named profile link category.
type LinkKind string

const (
	LinkLinkedIn   LinkKind = "LinkedIn"
	LinkWhatsApp   LinkKind = "WhatsApp"
	LinkSpotify    LinkKind = "Spotify"
	LinkSnapchat   LinkKind = "Snapchat"
	LinkInstagram  LinkKind = "Instagram"
	LinkReddit     LinkKind = "Reddit"
	LinkSoundCloud LinkKind = "SoundCloud"
	LinkPinterest  LinkKind = "Pinterest"
	LinkGitHub     LinkKind = "GitHub"
	LinkTwitter    LinkKind = "Twitter"
	LinkGmail      LinkKind = "Gmail"
	LinkBehance    LinkKind = "Behance"
	LinkYouTube    LinkKind = "YouTube"
	LinkTikTok     LinkKind = "TikTok"
	LinkAnime      LinkKind = "Anime"
	LinkFacebook   LinkKind = "Facebook"
	LinkOther      LinkKind = "Link"
)

var linkKinds = map[string]LinkKind{
	"ln": LinkLinkedIn,
	"wa": LinkWhatsApp,
	"sp": LinkSpotify,
	"sc": LinkSnapchat,
	"ig": LinkInstagram,
	"rd": LinkReddit,
	"sn": LinkSoundCloud,
	"pt": LinkPinterest,
	"gh": LinkGitHub,
	"tw": LinkTwitter,
	"gm": LinkGmail,
	"bh": LinkBehance,
	"yt": LinkYouTube,
	"tk": LinkTikTok,
	"an": LinkAnime,
	"fb": LinkFacebook,
}

// KindOf maps a link's two-letter type code to its named kind,
// case-insensitively. Unknown codes are LinkOther.
func KindOf(link client.UserLink) LinkKind {
	code := link.Type
	if code == "" {
		code = link.T
	}
	if kind, ok := linkKinds[strings.ToLower(code)]; ok {
		return kind
	}
	return LinkOther
}
