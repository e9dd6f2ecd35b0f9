// Package verify drives the email verification page: token check, error
// classification and re-sending the activation email.
package verify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"immo-client/internal/model"
	"immo-client/internal/notify"
	"immo-client/pkg/apierror"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusExpired Status = "expired"
)

const (
	msgVerifying      = "Verifying your email..."
	msgRetrying       = "Retrying verification..."
	msgMissingToken   = "Activation token is missing"
	msgInvalidToken   = "The activation link is invalid or has already been used."
	msgUnexpected     = "An unexpected error occurred."
	msgEmailFormat    = "Invalid email format"
	msgResendSent     = "A new activation email has been sent"
	msgResendFallback = "Could not send the activation email"
)

// Delays before the page moves on to login on its own.
const (
	SuccessRedirectDelay = time.Minute
	ResendRedirectDelay  = 3 * time.Second
)

var (
	ErrFlowClosed     = errors.New("verification flow closed")
	ErrResendInFlight = errors.New("resend already in progress")
)

// API is the part of the session manager the flow calls.
type API interface {
	VerifyEmail(ctx context.Context, token string) (model.VerificationResponse, error)
	ResendActivation(ctx context.Context, email string) (model.VerificationResponse, error)
}

// State is what the page renders.
type State struct {
	Status        Status
	Message       string
	Code          string
	Email         string
	ResendEmail   string
	EmailError    string
	Resending     bool
	ResendMessage string
}

type Flow struct {
	mu      sync.Mutex
	api     API
	toasts  *notify.Toasts
	token   string
	state   State
	closed  bool
	nextID  int
	pending map[int]context.CancelFunc

	loginPath     string
	redirect      func(target string)
	successDelay  time.Duration
	resendDelay   time.Duration
	redirectTimer *time.Timer
}

type Option func(*Flow)

// WithToasts reports resend outcomes as toasts.
func WithToasts(toasts *notify.Toasts) Option {
	return func(f *Flow) {
		f.toasts = toasts
	}
}

// WithRedirect calls redirect with the login target a while after a
// verification or a resend succeeds. Close cancels a scheduled redirect.
func WithRedirect(loginPath string, redirect func(target string)) Option {
	return func(f *Flow) {
		f.loginPath = loginPath
		f.redirect = redirect
	}
}

func WithRedirectDelays(success time.Duration, resend time.Duration) Option {
	return func(f *Flow) {
		f.successDelay = success
		f.resendDelay = resend
	}
}

func New(api API, opts ...Option) *Flow {
	f := &Flow{
		api:          api,
		state:        State{Status: StatusLoading, Message: msgVerifying},
		pending:      map[int]context.CancelFunc{},
		successDelay: SuccessRedirectDelay,
		resendDelay:  ResendRedirectDelay,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Start verifies token. A missing token fails without calling the API.
func (f *Flow) Start(ctx context.Context, token string) State {
	token = strings.TrimSpace(token)

	f.mu.Lock()
	f.token = token
	if token == "" {
		f.setErrorLocked(msgMissingToken, apierror.CodeInvalidToken)
		state := f.state
		f.mu.Unlock()
		return state
	}
	f.state.Status = StatusLoading
	f.state.Message = msgVerifying
	f.mu.Unlock()

	return f.verify(ctx, token)
}

// Retry verifies the same token again.
func (f *Flow) Retry(ctx context.Context) State {
	f.mu.Lock()
	token := f.token
	if token == "" || f.closed {
		state := f.state
		f.mu.Unlock()
		return state
	}
	f.state.Status = StatusLoading
	f.state.Message = msgRetrying
	f.mu.Unlock()

	return f.verify(ctx, token)
}

func (f *Flow) verify(ctx context.Context, token string) State {
	callCtx, done, ok := f.begin(ctx)
	if !ok {
		return f.State()
	}
	resp, err := f.api.VerifyEmail(callCtx, token)
	done()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return f.state
	}

	if err != nil {
		f.classifyLocked(err)
		return f.state
	}

	f.state.Status = StatusSuccess
	f.state.Message = resp.Message
	f.state.Code = ""
	f.state.Email = resp.Data.Email
	f.scheduleRedirectLocked(f.successDelay)
	return f.state
}

func (f *Flow) classifyLocked(err error) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		f.setErrorLocked(msgUnexpected, apierror.CodeUnknown)
		return
	}

	switch apiErr.ErrorCode {
	case apierror.CodeTokenExpired:
		f.state.Status = StatusExpired
		f.state.Message = apiErr.Message
		f.state.Code = apierror.CodeTokenExpired
		f.state.Email = apiErr.Email
		f.state.ResendEmail = apiErr.Email
		f.state.EmailError = ""
	case apierror.CodeAlreadyActivated:
		f.setErrorLocked(apierror.MessageOr(err, "This account is already activated."), apierror.CodeAlreadyActivated)
	case apierror.CodeInvalidToken:
		f.setErrorLocked(msgInvalidToken, apierror.CodeInvalidToken)
	default:
		f.setErrorLocked(apierror.MessageOr(err, msgUnexpected), apierror.CodeUnknown)
	}
}

func (f *Flow) setErrorLocked(message string, code string) {
	f.state.Status = StatusError
	f.state.Message = message
	f.state.Code = code
}

// SetResendEmail updates the resend field and its format error. An empty
// value carries no error.
func (f *Flow) SetResendEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.ResendEmail = strings.TrimSpace(email)
	f.state.EmailError = ""
	if f.state.ResendEmail != "" && !model.IsEmail(f.state.ResendEmail) {
		f.state.EmailError = msgEmailFormat
	}
}

// Resend asks for a new activation email. It refuses an empty or invalid
// address and a resend already in progress.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	email := f.state.ResendEmail
	switch {
	case email == "" || f.state.EmailError != "":
		f.mu.Unlock()
		return model.ErrInvalidInput
	case f.state.Resending:
		f.mu.Unlock()
		return ErrResendInFlight
	}
	f.state.Resending = true
	f.mu.Unlock()

	callCtx, done, ok := f.begin(ctx)
	if !ok {
		f.mu.Lock()
		f.state.Resending = false
		f.mu.Unlock()
		return ErrFlowClosed
	}
	resp, err := f.api.ResendActivation(callCtx, email)
	done()

	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Resending = false
	if f.closed {
		return ErrFlowClosed
	}

	if err != nil {
		f.state.ResendMessage = apierror.MessageOr(err, msgResendFallback)
		if f.toasts != nil {
			f.toasts.Error(f.state.ResendMessage)
		}
		return err
	}

	f.state.ResendMessage = resp.Message
	if f.state.ResendMessage == "" {
		f.state.ResendMessage = msgResendSent
	}
	if f.toasts != nil {
		f.toasts.Success(f.state.ResendMessage)
	}
	f.scheduleRedirectLocked(f.resendDelay)

	return nil
}

func (f *Flow) scheduleRedirectLocked(delay time.Duration) {
	if f.redirect == nil {
		return
	}
	if f.redirectTimer != nil {
		f.redirectTimer.Stop()
	}

	f.redirectTimer = time.AfterFunc(delay, func() {
		f.mu.Lock()
		closed := f.closed
		success := f.state.Status == StatusSuccess
		f.mu.Unlock()
		if closed {
			return
		}

		f.redirect(loginTarget(f.loginPath, success))
	})
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LoginTarget is where the page sends the user next; a verified account
// is flagged so the login page can say so.
func (f *Flow) LoginTarget(loginPath string) string {
	return loginTarget(loginPath, f.State().Status == StatusSuccess)
}

func loginTarget(loginPath string, activated bool) string {
	if activated {
		return loginPath + "?activated=true"
	}
	return loginPath
}

// Close cancels in-flight calls. Their results are discarded.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.redirectTimer != nil {
		f.redirectTimer.Stop()
	}
	for id, cancel := range f.pending {
		cancel()
		delete(f.pending, id)
	}
}

func (f *Flow) begin(ctx context.Context) (context.Context, func(), bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, nil, false
	}

	callCtx, cancel := context.WithCancel(ctx)
	id := f.nextID
	f.nextID++
	f.pending[id] = cancel

	return callCtx, func() {
		f.mu.Lock()
		delete(f.pending, id)
		f.mu.Unlock()
		cancel()
	}, true
}
