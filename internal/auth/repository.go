// Package auth owns the login lifecycle: the repository wraps the auth
// endpoints plus local session persistence, and Manager drives the
// client's auth state across commands.
package auth

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/onvo-app/onvo-cli/client"
)

// API is the slice of the ONVO client the repository calls.
type API interface {
	GetToken(ctx context.Context, info client.DeviceInfo) (*client.TokenResponse, error)
	CheckInput(ctx context.Context, input, token string) (*client.CheckInputResponse, error)
	Login(ctx context.Context, req client.LoginRequest, token string) (*client.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

// SessionStore persists the bearer token and the (userId, userName)
// pair between runs.
type SessionStore interface {
	SaveAuthToken(ctx context.Context, token string) error
	AuthToken(ctx context.Context) (string, error)
	ClearAuthToken(ctx context.Context) error
	SaveUserSession(ctx context.Context, userID, userName string) error
	UserSession(ctx context.Context) (userID, userName string, err error)
	ClearUserSession(ctx context.Context) error
}

// Session is the locally persisted view of who is signed in.
type Session struct {
	UserID    string
	UserName  string
	AuthToken string
}

// IsAuthenticated reports whether both a user id and a bearer token are
// present. An anonymous token alone does not count.
func (s Session) IsAuthenticated() bool {
	return s.UserID != "" && s.AuthToken != ""
}

// Account is a resolved account match from the check-input endpoint.
type Account struct {
	ID       int
	Username string
	ImageURL string
	FullName string
}

// ResultError reports a request the server answered but rejected. The
// message is safe to show to the user.
type ResultError struct {
	Message string
}

func (e *ResultError) Error() string { return e.Message }

// Repository implements the auth operations against the API and the
// local store. Methods return (value, error); whether a request is in
// flight is tracked by Manager, not encoded in results.
type Repository struct {
	api        API
	store      SessionStore
	deviceInfo func() client.DeviceInfo
	logger     *slog.Logger
}

func NewRepository(api API, store SessionStore, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		api:        api,
		store:      store,
		deviceInfo: client.CollectDeviceInfo,
		logger:     logger,
	}
}

// GetToken mints a fresh anonymous bearer token and persists it.
func (r *Repository) GetToken(ctx context.Context) (*client.TokenResponse, error) {
	resp, err := r.api.GetToken(ctx, r.deviceInfo())
	if err != nil {
		return nil, err
	}
	if err := r.store.SaveAuthToken(ctx, resp.Token); err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckInput resolves free-text input (email, username, or phone
// number) to an account. Blank input fails locally without a request.
func (r *Repository) CheckInput(ctx context.Context, input string) (*Account, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &ResultError{Message: "Please enter your email, username, or phone number"}
	}

	token, err := r.store.AuthToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, &ResultError{Message: "Please restart the app"}
	}

	resp, err := r.api.CheckInput(ctx, input, token)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.IsError():
		msg := resp.Message
		if msg == "" {
			msg = "User not found"
		}
		return nil, &ResultError{Message: msg}
	case resp.IsSuccess():
		return &Account{
			ID:       *resp.ID,
			Username: resp.Username,
			ImageURL: resp.Image,
			FullName: resp.Fullname,
		}, nil
	default:
		return nil, &ResultError{Message: "Received invalid response from server"}
	}
}

// Login exchanges credentials for a session. The password is hashed
// here; it never reaches the API layer in plaintext. On success the
// (userId, userName) pair is persisted before returning.
func (r *Repository) Login(ctx context.Context, id, password string) (*client.SessionUser, error) {
	if strings.TrimSpace(id) == "" || password == "" {
		return nil, &ResultError{Message: "ID and password cannot be empty"}
	}

	token, err := r.store.AuthToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, &ResultError{Message: "Please restart the app"}
	}

	req := client.LoginRequest{ID: id, Password: client.HashPassword(password)}
	resp, err := r.api.Login(ctx, req, token)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.IsError():
		msg := resp.Message
		if msg == "" {
			msg = "Login failed"
		}
		return nil, &ResultError{Message: msg}
	case resp.IsSuccess() && resp.Data != nil:
		user := resp.Data
		if err := r.store.SaveUserSession(ctx, strconv.Itoa(user.ID), user.Username); err != nil {
			return nil, err
		}
		return user, nil
	default:
		return nil, &ResultError{Message: "Login failed. Please check your credentials."}
	}
}

// Logout invalidates the session server-side when a token exists, then
// clears the local user session regardless of the outcome.
func (r *Repository) Logout(ctx context.Context) error {
	token, err := r.store.AuthToken(ctx)
	if err == nil && token != "" {
		if err := r.api.Logout(ctx, token); err != nil {
			r.logger.Warn("remote logout failed, clearing local session anyway", "error", err)
		}
	}
	return r.store.ClearUserSession(ctx)
}

// Session assembles the persisted session; absent keys come back as "".
func (r *Repository) Session(ctx context.Context) (Session, error) {
	userID, userName, err := r.store.UserSession(ctx)
	if err != nil {
		return Session{}, err
	}
	token, err := r.store.AuthToken(ctx)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: userID, UserName: userName, AuthToken: token}, nil
}
