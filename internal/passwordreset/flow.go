// Package passwordreset drives the three-step password reset flow:
// identify the account, verify the emailed code, set the new password.
// The same machine serves both the forgot-password entry (signed out)
// and the change-password entry from settings (signed in).
package passwordreset

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/onvo-app/onvo-cli/client"
	"github.com/onvo-app/onvo-cli/internal/auth"
)

// ErrBusy is returned when a step is started while another one is
// still in flight on the same Flow.
var ErrBusy = errors.New("another request is already in flight")

// Step is the flow position. Exactly one concrete type is current.
type Step interface {
	resetStep()
}

// EnterUserID is the initial step of the forgot-password entry.
type EnterUserID struct{}

// EnterCode waits for the emailed verification code. Message carries
// the server's delivery hint when one was returned.
type EnterCode struct {
	UserID  string
	Message string
}

// EnterNewPassword waits for the replacement password.
type EnterNewPassword struct {
	UserID string
}

// Success is the terminal step. FromSettings tells the caller whether
// this was a signed-in password change or a forgot-password recovery.
type Success struct {
	UserName     string
	FromSettings bool
}

func (EnterUserID) resetStep()      {}
func (EnterCode) resetStep()        {}
func (EnterNewPassword) resetStep() {}
func (Success) resetStep()          {}

// ErrorKind classifies flow errors for presentation.
type ErrorKind int

const (
	KindGeneral ErrorKind = iota
	KindNoEmail
	KindInvalidCode
	KindUserNotFound
)

// Snapshot is a point-in-time copy of the flow state.
type Snapshot struct {
	Step         Step
	Error        string
	ErrorKind    ErrorKind
	FromSettings bool
}

// API is the slice of the ONVO client the flow calls.
type API interface {
	RequestResetCode(ctx context.Context, userID, token string) (*client.ResetCodeResponse, error)
	SubmitResetCode(ctx context.Context, code, token string) (*client.ResetVerifyResponse, error)
	ChangePassword(ctx context.Context, hashedPassword, token string) (*client.PasswordChangeResponse, error)
}

// Identifier resolves free-text input to an account, for the
// forgot-password entry.
type Identifier interface {
	CheckInput(ctx context.Context, input string) (*auth.Account, error)
}

// SessionStore reads the bearer token and persists the refreshed
// session after a successful password change.
type SessionStore interface {
	AuthToken(ctx context.Context) (string, error)
	SaveUserSession(ctx context.Context, userID, userName string) error
}

// Flow is the password-reset state machine. At most one step runs at a
// time; a second concurrent call fails fast with ErrBusy, and stale
// completions never overwrite newer state.
type Flow struct {
	api      API
	identify Identifier
	store    SessionStore
	logger   *slog.Logger

	mu           sync.Mutex
	busy         bool
	seq          uint64
	applied      uint64
	step         Step
	errMsg       string
	errKind      ErrorKind
	fromSettings bool
	loggedIn     bool
}

func NewFlow(api API, identify Identifier, store SessionStore, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Flow{
		api:      api,
		identify: identify,
		store:    store,
		logger:   logger,
		step:     EnterUserID{},
	}
}

func (f *Flow) begin() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return 0, ErrBusy
	}
	f.busy = true
	f.seq++
	return f.seq, nil
}

func (f *Flow) finish(seq uint64, apply func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if seq <= f.applied {
		return
	}
	f.applied = seq
	if apply != nil {
		apply()
	}
}

func (f *Flow) fail(seq uint64, kind ErrorKind, msg string) {
	f.finish(seq, func() {
		f.errMsg = msg
		f.errKind = kind
	})
}

// InitializeFromSettings starts the signed-in change-password entry:
// the user id is already known, so the flow goes straight to the code
// request. FromSettings is fixed here and never reassigned for the
// lifetime of the flow run.
func (f *Flow) InitializeFromSettings(ctx context.Context, userID string) error {
	seq, err := f.begin()
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.fromSettings = true
	f.step = EnterCode{UserID: userID}
	f.errMsg = ""
	f.errKind = KindGeneral
	f.mu.Unlock()

	return f.requestCode(ctx, seq, userID)
}

// RequestCodeByInput starts the forgot-password entry: resolve the
// account from free-text input, then request the code. Blank input
// fails locally with no request.
func (f *Flow) RequestCodeByInput(ctx context.Context, input string) error {
	seq, err := f.begin()
	if err != nil {
		return err
	}
	if strings.TrimSpace(input) == "" {
		f.fail(seq, KindGeneral, "Please enter your username, email, or phone number")
		return nil
	}
	f.mu.Lock()
	f.fromSettings = false
	f.errMsg = ""
	f.errKind = KindGeneral
	f.mu.Unlock()

	acct, err := f.identify.CheckInput(ctx, input)
	if err != nil {
		f.fail(seq, KindUserNotFound, userMessage(err, "User not found. Please check your input."))
		return err
	}
	return f.requestCode(ctx, seq, strconv.Itoa(acct.ID))
}

// requestCode asks the server to email a code and advances to
// EnterCode on success. An account without a recovery email stays on
// the current step with a NoEmail error.
func (f *Flow) requestCode(ctx context.Context, seq uint64, userID string) error {
	token, err := f.store.AuthToken(ctx)
	if err != nil {
		f.fail(seq, KindGeneral, "Failed to send reset code. Please try again.")
		return err
	}
	if token == "" {
		f.fail(seq, KindGeneral, "Please restart the app")
		return nil
	}

	resp, err := f.api.RequestResetCode(ctx, userID, token)
	if err != nil {
		f.fail(seq, KindGeneral, userMessage(err, "Failed to send reset code. Please try again."))
		return err
	}
	switch {
	case resp.Error == "email_not_found":
		msg := resp.Message
		if msg == "" {
			msg = "This account does not have a recovery email."
		}
		f.fail(seq, KindNoEmail, msg)
	case resp.IsSuccess():
		f.finish(seq, func() {
			f.step = EnterCode{UserID: userID, Message: resp.Message}
			f.errMsg = ""
			f.errKind = KindGeneral
		})
	default:
		msg := resp.Message
		if msg == "" {
			msg = "Failed to send reset code"
		}
		f.fail(seq, KindGeneral, msg)
	}
	return nil
}

// SubmitCode verifies the emailed code. Anything but exactly six
// digits fails locally with no request. Outside EnterCode this is a
// no-op.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	seq, err := f.begin()
	if err != nil {
		return err
	}
	f.mu.Lock()
	step, ok := f.step.(EnterCode)
	f.mu.Unlock()
	if !ok {
		f.finish(seq, nil)
		return nil
	}

	code = strings.TrimSpace(code)
	if !isSixDigits(code) {
		f.fail(seq, KindInvalidCode, "Please enter a valid 6-digit code")
		return nil
	}

	token, err := f.store.AuthToken(ctx)
	if err != nil {
		f.fail(seq, KindGeneral, "Failed to verify code")
		return err
	}
	if token == "" {
		f.fail(seq, KindGeneral, "Please restart the app")
		return nil
	}

	resp, err := f.api.SubmitResetCode(ctx, code, token)
	if err != nil {
		f.fail(seq, KindInvalidCode, userMessage(err, "Invalid code. Please try again."))
		return err
	}
	if !resp.IsSuccess() {
		msg := resp.Message
		if msg == "" {
			msg = "Invalid code. Please try again."
		}
		f.fail(seq, KindInvalidCode, msg)
		return nil
	}
	f.finish(seq, func() {
		f.step = EnterNewPassword{UserID: step.UserID}
		f.errMsg = ""
		f.errKind = KindGeneral
	})
	return nil
}

// ChangePassword sets the new password after a verified code. Local
// validation (non-blank, at least six characters, confirmation match)
// fails with distinct messages and no request. On success the refreshed
// session is persisted and, for the forgot-password entry, the flow
// becomes logged in.
func (f *Flow) ChangePassword(ctx context.Context, newPassword, confirmPassword string) error {
	seq, err := f.begin()
	if err != nil {
		return err
	}
	f.mu.Lock()
	_, ok := f.step.(EnterNewPassword)
	fromSettings := f.fromSettings
	f.mu.Unlock()
	if !ok {
		f.finish(seq, nil)
		return nil
	}

	switch {
	case strings.TrimSpace(newPassword) == "":
		f.fail(seq, KindGeneral, "Please enter a new password")
		return nil
	case len(newPassword) < 6:
		f.fail(seq, KindGeneral, "Password must be at least 6 characters")
		return nil
	case newPassword != confirmPassword:
		f.fail(seq, KindGeneral, "Passwords do not match")
		return nil
	}

	token, err := f.store.AuthToken(ctx)
	if err != nil {
		f.fail(seq, KindGeneral, "Failed to change password. Please try again.")
		return err
	}
	if token == "" {
		f.fail(seq, KindGeneral, "Please restart the app")
		return nil
	}

	resp, err := f.api.ChangePassword(ctx, client.HashPassword(newPassword), token)
	if err != nil {
		f.fail(seq, KindGeneral, userMessage(err, "Failed to change password. Please try again."))
		return err
	}
	if !resp.IsSuccess() {
		msg := resp.Message
		if msg == "" {
			msg = "Failed to change password. Please try again."
		}
		f.fail(seq, KindGeneral, msg)
		return nil
	}

	userName := "User"
	if resp.Data != nil {
		userName = resp.Data.Username
		if err := f.store.SaveUserSession(ctx, strconv.Itoa(resp.Data.ID), resp.Data.Username); err != nil {
			f.logger.Warn("failed to persist refreshed session", "error", err)
		}
	}
	f.finish(seq, func() {
		if !fromSettings {
			f.loggedIn = true
		}
		f.step = Success{UserName: userName, FromSettings: fromSettings}
		f.errMsg = ""
		f.errKind = KindGeneral
	})
	return nil
}

// ResendCode requests a fresh code. Outside EnterCode this is a no-op.
func (f *Flow) ResendCode(ctx context.Context) error {
	seq, err := f.begin()
	if err != nil {
		return err
	}
	f.mu.Lock()
	step, ok := f.step.(EnterCode)
	f.mu.Unlock()
	if !ok {
		f.finish(seq, nil)
		return nil
	}
	return f.requestCode(ctx, seq, step.UserID)
}

// GoBack steps backward one step, preserving the user id. From the
// first step, and from Success, it does nothing.
func (f *Flow) GoBack() {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch step := f.step.(type) {
	case EnterCode:
		f.step = EnterUserID{}
		f.errMsg = ""
	case EnterNewPassword:
		f.step = EnterCode{UserID: step.UserID}
		f.errMsg = ""
	}
}

// Reset returns the flow to its initial state.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = EnterUserID{}
	f.errMsg = ""
	f.errKind = KindGeneral
	f.fromSettings = false
	f.loggedIn = false
}

// ClearError clears the error without moving steps.
func (f *Flow) ClearError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errMsg = ""
	f.errKind = KindGeneral
}

// Snapshot returns a copy of the current state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Step:         f.step,
		Error:        f.errMsg,
		ErrorKind:    f.errKind,
		FromSettings: f.fromSettings,
	}
}

// LoggedIn reports whether completing the forgot-password entry signed
// the user in.
func (f *Flow) LoggedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

// InFlight reports whether a step is currently running.
func (f *Flow) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func userMessage(err error, fallback string) string {
	var rerr *auth.ResultError
	if errors.As(err, &rerr) && rerr.Message != "" {
		return rerr.Message
	}
	var aerr *client.APIError
	if errors.As(err, &aerr) && aerr.Message != "" {
		return aerr.Message
	}
	return fallback
}
