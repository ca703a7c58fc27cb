package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/onvo-app/onvo-cli/client"
)

// ErrBusy is returned when a command is started while another one is
// still in flight on the same Manager.
var ErrBusy = errors.New("another request is already in flight")

// State is the auth screen state. Exactly one of the concrete types
// below is current at any time; whether a request is in flight is a
// separate flag (InFlight), not a state value.
type State interface {
	authState()
}

// Initializing is the startup state before the first session check
// completes.
type Initializing struct{}

// Initial is the signed-out resting state: an anonymous token exists
// and the client is ready for check-input.
type Initial struct{}

// CheckInputSuccess carries the resolved account awaiting a password.
type CheckInputSuccess struct {
	ID       string
	Type     string
	ImageURL string
	FullName string
}

// LoginSuccess is the signed-in state.
type LoginSuccess struct {
	UserName string
}

// Failed carries a user-facing error message.
type Failed struct {
	Message string
}

func (Initializing) authState()      {}
func (Initial) authState()           {}
func (CheckInputSuccess) authState() {}
func (LoginSuccess) authState()      {}
func (Failed) authState()            {}

// SessionService is the repository surface Manager drives.
type SessionService interface {
	GetToken(ctx context.Context) (*client.TokenResponse, error)
	CheckInput(ctx context.Context, input string) (*Account, error)
	Login(ctx context.Context, id, password string) (*client.SessionUser, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (Session, error)
}

// StatusProvider verifies the stored session against the server. On a
// 401 the implementation clears the stored token and user session
// before returning the error.
type StatusProvider interface {
	CurrentUserStatus(ctx context.Context) (*client.AuthUserData, error)
}

const initFailedMessage = "Failed to initialize. Please check your internet connection and restart the app."

// Manager holds the auth state across commands. At most one command
// runs at a time; a second concurrent call fails fast with ErrBusy.
// Completions carry the sequence number of the command that produced
// them, so a stale completion can never overwrite newer state.
type Manager struct {
	svc    SessionService
	status StatusProvider
	logger *slog.Logger

	mu          sync.Mutex
	busy        bool
	seq         uint64
	applied     uint64
	state       State
	initialized bool
	loggedIn    bool
	current     *client.AuthUserData
	session     Session
}

func NewManager(svc SessionService, status StatusProvider, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		svc:    svc,
		status: status,
		logger: logger,
		state:  Initializing{},
	}
}

// begin claims the in-flight slot and returns this command's sequence
// number.
func (m *Manager) begin() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return 0, ErrBusy
	}
	m.busy = true
	m.seq++
	return m.seq, nil
}

// finish releases the in-flight slot and applies the completion unless
// a newer one has already been applied.
func (m *Manager) finish(seq uint64, apply func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if seq <= m.applied {
		return
	}
	m.applied = seq
	if apply != nil {
		apply()
	}
}

// Initialize restores a persisted session if the server still accepts
// it, otherwise falls back to a fresh anonymous token. The manager
// always ends up initialized, even on failure.
func (m *Manager) Initialize(ctx context.Context) error {
	seq, err := m.begin()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.state = Initializing{}
	m.mu.Unlock()

	sess, err := m.svc.Session(ctx)
	if err == nil && sess.IsAuthenticated() {
		user, statusErr := m.status.CurrentUserStatus(ctx)
		if statusErr == nil {
			m.finish(seq, func() {
				m.current = user
				m.session = Session{
					UserID:    strconv.Itoa(user.ID),
					UserName:  user.Username,
					AuthToken: sess.AuthToken,
				}
				m.loggedIn = true
				m.state = Initial{}
				m.initialized = true
			})
			return nil
		}
		// Token rejected; the status provider already cleared the
		// stored session. Bootstrap a fresh anonymous token below.
		m.logger.Debug("stored session rejected", "error", statusErr)
	}

	if _, err := m.svc.GetToken(ctx); err != nil {
		m.finish(seq, func() {
			m.current = nil
			m.loggedIn = false
			m.state = Failed{Message: initFailedMessage}
			m.initialized = true
		})
		return err
	}
	m.finish(seq, func() {
		m.current = nil
		m.loggedIn = false
		m.session = Session{}
		m.state = Initial{}
		m.initialized = true
	})
	return nil
}

// CheckInput resolves the account for free-text input. Blank input
// fails locally with no request.
func (m *Manager) CheckInput(ctx context.Context, input string) error {
	seq, err := m.begin()
	if err != nil {
		return err
	}
	if strings.TrimSpace(input) == "" {
		m.finish(seq, func() {
			m.state = Failed{Message: "Please enter your username, email, or phone number"}
		})
		return nil
	}

	acct, err := m.svc.CheckInput(ctx, input)
	if err != nil {
		m.finish(seq, func() {
			m.state = Failed{Message: userMessage(err, "Failed to verify input. Please try again.")}
		})
		return err
	}
	m.finish(seq, func() {
		accountType := acct.Username
		if accountType == "" {
			accountType = "user"
		}
		m.state = CheckInputSuccess{
			ID:       strconv.Itoa(acct.ID),
			Type:     accountType,
			ImageURL: acct.ImageURL,
			FullName: acct.FullName,
		}
	})
	return nil
}

// Login signs in with the account id resolved by CheckInput. A blank
// password fails locally with no request.
func (m *Manager) Login(ctx context.Context, id, password string) error {
	seq, err := m.begin()
	if err != nil {
		return err
	}
	if password == "" {
		m.finish(seq, func() {
			m.state = Failed{Message: "Please enter your password"}
		})
		return nil
	}

	user, err := m.svc.Login(ctx, id, password)
	if err != nil {
		m.finish(seq, func() {
			m.state = Failed{Message: userMessage(err, "Login failed. Please try again.")}
		})
		return err
	}

	// Refresh the server-side view of the user; failure here does not
	// undo a successful login.
	current, statusErr := m.status.CurrentUserStatus(ctx)
	if statusErr != nil {
		m.logger.Debug("post-login status refresh failed", "error", statusErr)
	}
	sess, _ := m.svc.Session(ctx)

	m.finish(seq, func() {
		m.current = current
		m.session = sess
		m.loggedIn = true
		m.state = LoginSuccess{UserName: user.Username}
	})
	return nil
}

// Logout clears the session locally no matter what the server says,
// then mints a fresh anonymous token for the next login.
func (m *Manager) Logout(ctx context.Context) error {
	seq, err := m.begin()
	if err != nil {
		return err
	}

	if err := m.svc.Logout(ctx); err != nil {
		m.logger.Warn("logout did not complete cleanly", "error", err)
	}
	if _, err := m.svc.GetToken(ctx); err != nil {
		m.logger.Warn("failed to mint anonymous token after logout", "error", err)
	}

	m.finish(seq, func() {
		m.current = nil
		m.session = Session{}
		m.loggedIn = false
		m.state = Initial{}
	})
	return nil
}

// RefreshSession re-verifies the stored session and, when it is still
// valid, surfaces the signed-in state.
func (m *Manager) RefreshSession(ctx context.Context) error {
	seq, err := m.begin()
	if err != nil {
		return err
	}

	current, statusErr := m.status.CurrentUserStatus(ctx)
	sess, sessErr := m.svc.Session(ctx)
	if sessErr != nil {
		m.finish(seq, nil)
		return sessErr
	}

	m.finish(seq, func() {
		if statusErr == nil {
			m.current = current
		}
		if sess.IsAuthenticated() {
			m.session = sess
			m.loggedIn = true
			name := sess.UserName
			if name == "" {
				name = "User"
			}
			m.state = LoginSuccess{UserName: name}
		} else {
			m.current = nil
			m.session = Session{}
			m.loggedIn = false
		}
	})
	return statusErr
}

// Retry re-runs initialization after a startup failure.
func (m *Manager) Retry(ctx context.Context) error {
	return m.Initialize(ctx)
}

// ResetState returns the screen state to Initial without touching the
// session.
func (m *Manager) ResetState() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Initial{}
}

// State returns the current screen state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// InFlight reports whether a command is currently running.
func (m *Manager) InFlight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// IsInitialized reports whether startup has completed, successfully or
// not.
func (m *Manager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// IsLoggedIn reports whether a user session is active.
func (m *Manager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedIn
}

// Session returns the last observed persisted session.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// CurrentUser returns the server-confirmed user, or nil when signed
// out.
func (m *Manager) CurrentUser() *client.AuthUserData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// userMessage extracts a user-facing message from err, falling back
// when the error carries none.
func userMessage(err error, fallback string) string {
	var rerr *ResultError
	if errors.As(err, &rerr) && rerr.Message != "" {
		return rerr.Message
	}
	var aerr *client.APIError
	if errors.As(err, &aerr) && aerr.Message != "" {
		return aerr.Message
	}
	return fallback
}
