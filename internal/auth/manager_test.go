package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onvo-app/onvo-cli/client"
)

type fakeService struct {
	session    Session
	sessionErr error

	tokenResp  *client.TokenResponse
	tokenErr   error
	tokenCalls int

	account    *Account
	checkErr   error
	checkCalls int
	lastInput  string

	user       *client.SessionUser
	loginErr   error
	loginCalls int

	logoutErr   error
	logoutCalls int
}

func (f *fakeService) GetToken(context.Context) (*client.TokenResponse, error) {
	f.tokenCalls++
	return f.tokenResp, f.tokenErr
}

func (f *fakeService) CheckInput(_ context.Context, input string) (*Account, error) {
	f.checkCalls++
	f.lastInput = input
	return f.account, f.checkErr
}

func (f *fakeService) Login(_ context.Context, id, password string) (*client.SessionUser, error) {
	f.loginCalls++
	return f.user, f.loginErr
}

func (f *fakeService) Logout(context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeService) Session(context.Context) (Session, error) {
	return f.session, f.sessionErr
}

type fakeStatus struct {
	user   *client.AuthUserData
	err    error
	calls  int
	onCall func(*fakeStatus)
}

func (f *fakeStatus) CurrentUserStatus(context.Context) (*client.AuthUserData, error) {
	f.calls++
	if f.onCall != nil {
		f.onCall(f)
	}
	return f.user, f.err
}

func TestInitialize_RestoresValidSession(t *testing.T) {
	svc := &fakeService{session: Session{UserID: "7", UserName: "mika", AuthToken: "tok"}}
	status := &fakeStatus{user: &client.AuthUserData{ID: 7, Username: "mika"}}
	m := NewManager(svc, status, nil)

	require.NoError(t, m.Initialize(context.Background()))

	assert.IsType(t, Initial{}, m.State())
	assert.True(t, m.IsLoggedIn())
	assert.True(t, m.IsInitialized())
	assert.Equal(t, "mika", m.CurrentUser().Username)
	assert.Zero(t, svc.tokenCalls, "a valid session needs no new token")
}

func TestInitialize_NoSessionBootstrapsToken(t *testing.T) {
	svc := &fakeService{tokenResp: &client.TokenResponse{Token: "anon"}}
	status := &fakeStatus{}
	m := NewManager(svc, status, nil)

	require.NoError(t, m.Initialize(context.Background()))

	assert.IsType(t, Initial{}, m.State())
	assert.False(t, m.IsLoggedIn())
	assert.True(t, m.IsInitialized())
	assert.Equal(t, 1, svc.tokenCalls)
	assert.Zero(t, status.calls, "no stored session, nothing to verify")
}

func TestInitialize_RejectedSessionFallsBackToAnonymous(t *testing.T) {
	svc := &fakeService{
		session:   Session{UserID: "7", UserName: "mika", AuthToken: "stale"},
		tokenResp: &client.TokenResponse{Token: "anon"},
	}
	status := &fakeStatus{err: errors.New("session expired")}
	m := NewManager(svc, status, nil)

	require.NoError(t, m.Initialize(context.Background()))

	assert.IsType(t, Initial{}, m.State())
	assert.False(t, m.IsLoggedIn())
	assert.True(t, m.IsInitialized())
	assert.Equal(t, 1, svc.tokenCalls)
	assert.Nil(t, m.CurrentUser())
}

func TestInitialize_TokenFailureStillInitializes(t *testing.T) {
	svc := &fakeService{tokenErr: errors.New("network down")}
	m := NewManager(svc, &fakeStatus{}, nil)

	err := m.Initialize(context.Background())
	require.Error(t, err)

	state, ok := m.State().(Failed)
	require.True(t, ok)
	assert.Equal(t, initFailedMessage, state.Message)
	assert.True(t, m.IsInitialized(), "failure still counts as initialized")
}

func TestCheckInput_BlankMakesNoRequest(t *testing.T) {
	svc := &fakeService{}
	m := NewManager(svc, &fakeStatus{}, nil)

	require.NoError(t, m.CheckInput(context.Background(), "   "))

	state, ok := m.State().(Failed)
	require.True(t, ok)
	assert.Equal(t, "Please enter your username, email, or phone number", state.Message)
	assert.Zero(t, svc.checkCalls)
}

func TestCheckInput_Success(t *testing.T) {
	svc := &fakeService{account: &Account{ID: 7, Username: "mika", ImageURL: "https://img", FullName: "Mika M"}}
	m := NewManager(svc, &fakeStatus{}, nil)

	require.NoError(t, m.CheckInput(context.Background(), "mika"))

	state, ok := m.State().(CheckInputSuccess)
	require.True(t, ok)
	assert.Equal(t, CheckInputSuccess{ID: "7", Type: "mika", ImageURL: "https://img", FullName: "Mika M"}, state)
}

func TestCheckInput_UsernameFallsBackToUser(t *testing.T) {
	svc := &fakeService{account: &Account{ID: 7}}
	m := NewManager(svc, &fakeStatus{}, nil)

	require.NoError(t, m.CheckInput(context.Background(), "7"))

	state, ok := m.State().(CheckInputSuccess)
	require.True(t, ok)
	assert.Equal(t, "user", state.Type)
}

func TestCheckInput_ServerRejection(t *testing.T) {
	svc := &fakeService{checkErr: &ResultError{Message: "No such account"}}
	m := NewManager(svc, &fakeStatus{}, nil)

	err := m.CheckInput(context.Background(), "ghost")
	require.Error(t, err)

	state, ok := m.State().(Failed)
	require.True(t, ok)
	assert.Equal(t, "No such account", state.Message)
}

func TestLogin_BlankPasswordMakesNoRequest(t *testing.T) {
	svc := &fakeService{}
	m := NewManager(svc, &fakeStatus{}, nil)

	require.NoError(t, m.Login(context.Background(), "7", ""))

	state, ok := m.State().(Failed)
	require.True(t, ok)
	assert.Equal(t, "Please enter your password", state.Message)
	assert.Zero(t, svc.loginCalls)
}

func TestLogin_Success(t *testing.T) {
	svc := &fakeService{
		user:    &client.SessionUser{ID: 7, Username: "mika"},
		session: Session{UserID: "7", UserName: "mika", AuthToken: "tok"},
	}
	status := &fakeStatus{user: &client.AuthUserData{ID: 7, Username: "mika"}}
	m := NewManager(svc, status, nil)

	require.NoError(t, m.Login(context.Background(), "7", "secret"))

	state, ok := m.State().(LoginSuccess)
	require.True(t, ok)
	assert.Equal(t, "mika", state.UserName)
	assert.True(t, m.IsLoggedIn())
	assert.Equal(t, 1, status.calls, "status is refreshed after login")
	assert.Equal(t, "7", m.Session().UserID)
}

func TestLogin_Failure(t *testing.T) {
	svc := &fakeService{loginErr: &ResultError{Message: "Login failed"}}
	m := NewManager(svc, &fakeStatus{}, nil)

	err := m.Login(context.Background(), "7", "wrong")
	require.Error(t, err)

	state, ok := m.State().(Failed)
	require.True(t, ok)
	assert.Equal(t, "Login failed", state.Message)
	assert.False(t, m.IsLoggedIn())
}

func TestLogout_AlwaysClearsAndMintsToken(t *testing.T) {
	svc := &fakeService{
		logoutErr: errors.New("server on fire"),
		tokenResp: &client.TokenResponse{Token: "anon"},
	}
	m := NewManager(svc, &fakeStatus{}, nil)
	m.loggedIn = true
	m.current = &client.AuthUserData{ID: 7}

	require.NoError(t, m.Logout(context.Background()))

	assert.IsType(t, Initial{}, m.State())
	assert.False(t, m.IsLoggedIn())
	assert.Nil(t, m.CurrentUser())
	assert.Equal(t, 1, svc.logoutCalls)
	assert.Equal(t, 1, svc.tokenCalls, "a fresh anonymous token is minted")
}

func TestBusy_SecondCommandFailsFast(t *testing.T) {
	svc := &fakeService{}
	m := NewManager(svc, &fakeStatus{}, nil)

	seq, err := m.begin()
	require.NoError(t, err)

	assert.ErrorIs(t, m.CheckInput(context.Background(), "mika"), ErrBusy)
	assert.ErrorIs(t, m.Login(context.Background(), "7", "pw"), ErrBusy)
	assert.ErrorIs(t, m.Logout(context.Background()), ErrBusy)
	assert.Zero(t, svc.checkCalls)
	assert.Zero(t, svc.loginCalls)

	m.finish(seq, nil)
	assert.False(t, m.InFlight())
}

func TestFinish_StaleCompletionIsIgnored(t *testing.T) {
	m := NewManager(&fakeService{}, &fakeStatus{}, nil)

	seq1, err := m.begin()
	require.NoError(t, err)
	m.finish(seq1, nil)

	seq2, err := m.begin()
	require.NoError(t, err)
	m.finish(seq2, func() { m.state = LoginSuccess{UserName: "new"} })

	// A completion from the older command must not overwrite.
	m.finish(seq1, func() { m.state = Failed{Message: "stale"} })

	state, ok := m.State().(LoginSuccess)
	require.True(t, ok)
	assert.Equal(t, "new", state.UserName)
}

func TestRefreshSession(t *testing.T) {
	svc := &fakeService{session: Session{UserID: "7", UserName: "mika", AuthToken: "tok"}}
	status := &fakeStatus{user: &client.AuthUserData{ID: 7, Username: "mika"}}
	m := NewManager(svc, status, nil)

	require.NoError(t, m.RefreshSession(context.Background()))

	state, ok := m.State().(LoginSuccess)
	require.True(t, ok)
	assert.Equal(t, "mika", state.UserName)
	assert.True(t, m.IsLoggedIn())
}

func TestRefreshSession_SignedOut(t *testing.T) {
	svc := &fakeService{}
	status := &fakeStatus{err: errors.New("session expired")}
	m := NewManager(svc, status, nil)

	require.Error(t, m.RefreshSession(context.Background()))
	assert.False(t, m.IsLoggedIn())
}
