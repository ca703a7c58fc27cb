package client

// Wire types for the ONVO API. Field names mirror the server's JSON
// exactly, including its quirks (isLoged, fullname, the abbreviated
// profile keys); do not "fix" them.

// TokenRequest is the body of POST /token.
type TokenRequest struct {
	Info DeviceInfo `json:"info"`
}

// TokenResponse carries the anonymous bearer token.
type TokenResponse struct {
	Token string `json:"token"`
	Vuse  string `json:"vuse,omitempty"`
}

// CheckInputRequest is the body of POST /v2/auth/check.
type CheckInputRequest struct {
	Input string `json:"input"`
}

// CheckInputResponse identifies an account by free-text input. The
// server reuses the same shape for success and failure: an account
// match carries an id, a failure carries the error fields.
type CheckInputResponse struct {
	ID       *int   `json:"id,omitempty"`
	Fullname string `json:"fullname,omitempty"`
	Image    string `json:"image,omitempty"`
	Username string `json:"username,omitempty"`

	Error   string `json:"error,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

func (r *CheckInputResponse) IsSuccess() bool { return r.Error == "" && r.ID != nil }
func (r *CheckInputResponse) IsError() bool   { return r.Error != "" }

// LoginRequest is the body of POST /v2/auth/login. Password carries the
// MD5 hex digest, never the plaintext.
type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// PlusInfo describes a premium subscription, when present.
type PlusInfo struct {
	Status        string `json:"status,omitempty"`
	BillingPeriod string `json:"billing_period,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	ExternalID    string `json:"external_id,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

// UserCounts holds per-user counters shown in the app chrome.
type UserCounts struct {
	Messages      int `json:"messages"`
	Archives      int `json:"archives"`
	Sent          int `json:"sent"`
	Notifications int `json:"notifications"`
}

// UserSettings mirrors the server-side settings blob, misspellings
// included.
type UserSettings struct {
	Theme    string `json:"theme,omitempty"`
	Token    string `json:"token,omitempty"`
	Them     string `json:"them,omitempty"`
	Lang     string `json:"lang,omitempty"`
	Ctm      string `json:"ctm,omitempty"`
	Aoe      string `json:"aoe,omitempty"`
	Reminder *int   `json:"reminder,omitempty"`
}

// SessionUser is the user payload returned by login and password-change.
type SessionUser struct {
	ID        int           `json:"id"`
	SessionID string        `json:"session_id"`
	Username  string        `json:"username"`
	Image     string        `json:"image"`
	Fullname  string        `json:"fullname"`
	Firstname string        `json:"firstname,omitempty"`
	Bio       string        `json:"bio,omitempty"`
	Counts    *UserCounts   `json:"counts,omitempty"`
	Settings  *UserSettings `json:"settings,omitempty"`
}

// LoginResponse is the result of POST /v2/auth/login.
type LoginResponse struct {
	Status  string       `json:"status,omitempty"`
	IsLoged bool         `json:"isLoged"`
	Plus    *PlusInfo    `json:"plus,omitempty"`
	Data    *SessionUser `json:"data,omitempty"`

	Error   string `json:"error,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

func (r *LoginResponse) IsSuccess() bool { return r.IsLoged && r.Error == "" }
func (r *LoginResponse) IsError() bool   { return r.Error != "" }

// AuthUserData is the current-user payload of GET /v2/auth/status.
type AuthUserData struct {
	ID        int          `json:"id"`
	SessionID string       `json:"session_id"`
	Username  string       `json:"username"`
	Image     string       `json:"image"`
	Fullname  string       `json:"fullname"`
	Firstname string       `json:"firstname"`
	Bio       string       `json:"bio"`
	Counts    UserCounts   `json:"counts"`
	Settings  UserSettings `json:"settings"`
}

// AuthStatusResponse is the result of GET /v2/auth/status.
type AuthStatusResponse struct {
	Status  string       `json:"status"`
	IsLoged bool         `json:"isLoged"`
	Plus    PlusInfo     `json:"plus"`
	Data    AuthUserData `json:"data"`
}

// ResetCodeRequest is the body of POST /v2/auth/reset/request.
type ResetCodeRequest struct {
	ID string `json:"id"`
}

// ResetCodeResponse acknowledges a reset-code request. The error field
// carries "email_not_found" when the account has no recovery email.
type ResetCodeResponse struct {
	Alert   *bool  `json:"alert,omitempty"`
	Code    int    `json:"code,omitempty"`
	Status  string `json:"status,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r *ResetCodeResponse) IsSuccess() bool { return r.Status == "success" && r.Error == "" }
func (r *ResetCodeResponse) IsError() bool   { return r.Error != "" }

// ResetCodeSubmit is the body of POST /v2/auth/reset/submit.
type ResetCodeSubmit struct {
	Code string `json:"code"`
}

// ResetVerifyResponse is the result of submitting a reset code.
type ResetVerifyResponse struct {
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

func (r *ResetVerifyResponse) IsSuccess() bool { return r.Status == "success" && r.Error == "" }
func (r *ResetVerifyResponse) IsError() bool   { return r.Error != "" }

// PasswordChangeRequest is the body of POST /v2/auth/reset/change.
// Password carries the MD5 hex digest.
type PasswordChangeRequest struct {
	Password string `json:"password"`
}

// PasswordChangeResponse is the result of a password change. Success
// carries the refreshed session user.
type PasswordChangeResponse struct {
	Status  string       `json:"status,omitempty"`
	IsLoged bool         `json:"isLoged"`
	Plus    *PlusInfo    `json:"plus,omitempty"`
	Data    *SessionUser `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

func (r *PasswordChangeResponse) IsSuccess() bool { return r.IsLoged && r.Error == "" }
func (r *PasswordChangeResponse) IsError() bool   { return r.Error != "" }

// UserProfileResponse is the result of GET /v2/users?id=<id>.
type UserProfileResponse struct {
	User  UserProfile `json:"user"`
	Links []UserLink  `json:"links,omitempty"`
}

// UserProfile is the full public profile. The server ships both the
// abbreviated and the long key for several fields; both are kept.
type UserProfile struct {
	Statue       string     `json:"statue,omitempty"`
	ID           int        `json:"id"`
	Usnm         string     `json:"usnm"`
	Username     string     `json:"username"`
	Fnme         string     `json:"fnme"`
	Fullname     string     `json:"fullname"`
	Firstname    string     `json:"firstname"`
	Img          string     `json:"img"`
	Image        string     `json:"image"`
	Bio          string     `json:"bio"`
	Lnks         []UserLink `json:"lnks,omitempty"`
	Cnt          UserProfileCounts `json:"cnt"`
	Vrfy         string     `json:"vrfy"`
	IsVerified   bool       `json:"is_verified"`
	Charms       string     `json:"charms"`
	Flw          string     `json:"flw"`
	Followed     bool       `json:"followed"`
	FollowedBack bool       `json:"followed_back"`
	Mute         int        `json:"mute"`
	Muted        int        `json:"muted"`
	Tmp          string     `json:"tmp"`
	Holder       string     `json:"holder"`
	Story        string     `json:"story,omitempty"`
}

// UserProfileCounts holds profile counters, pre-formatted by the server.
type UserProfileCounts struct {
	Colls     string `json:"colls"`
	Msg       string `json:"msg"`
	Likes     string `json:"likes"`
	Views     string `json:"views"`
	Followers string `json:"followers"`
	Following string `json:"following"`
}

// UserLink is one external link on a profile. Type is a two-letter code
// ("gh", "ig", ...); D is the display text.
type UserLink struct {
	T    string `json:"t"`
	Type string `json:"type"`
	D    string `json:"d"`
	URL  string `json:"url"`
}
