package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immo-client/internal/api"
	"immo-client/internal/apitest"
	"immo-client/internal/model"
	"immo-client/internal/notify"
	"immo-client/pkg/apierror"
)

func newFlow(t *testing.T, opts ...Option) (*Flow, *apitest.Server) {
	t.Helper()

	fake := apitest.New()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	return New(client, opts...), fake
}

func TestStartOutcomes(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		flow, fake := newFlow(t)
		fake.AddUser("new@test.com", "password1", "particulier", false)
		token := fake.IssueActivation("new@test.com", time.Hour)

		state := flow.Start(context.Background(), token)
		require.Equal(t, StatusSuccess, state.Status)
		require.Equal(t, "new@test.com", state.Email)
		require.NotEmpty(t, state.Message)
		require.True(t, fake.IsActive("new@test.com"))
		require.Equal(t, "/login?activated=true", flow.LoginTarget("/login"))
	})

	t.Run("expired token prefills the resend email", func(t *testing.T) {
		flow, fake := newFlow(t)
		fake.AddUser("a@b.com", "password1", "particulier", false)
		token := fake.IssueActivation("a@b.com", -time.Minute)

		state := flow.Start(context.Background(), token)
		require.Equal(t, StatusExpired, state.Status)
		require.Equal(t, apierror.CodeTokenExpired, state.Code)
		require.Equal(t, "a@b.com", state.Email)
		require.Equal(t, "a@b.com", state.ResendEmail)
		require.Empty(t, state.EmailError)
		require.Equal(t, "/login", flow.LoginTarget("/login"))
	})

	t.Run("already activated keeps the server message", func(t *testing.T) {
		flow, fake := newFlow(t)
		fake.AddUser("done@test.com", "password1", "particulier", true)
		token := fake.IssueActivation("done@test.com", time.Hour)

		state := flow.Start(context.Background(), token)
		require.Equal(t, StatusError, state.Status)
		require.Equal(t, apierror.CodeAlreadyActivated, state.Code)
		require.Equal(t, "This account is already activated", state.Message)
	})

	t.Run("unknown token uses a fixed message", func(t *testing.T) {
		flow, _ := newFlow(t)

		state := flow.Start(context.Background(), "not-a-token")
		require.Equal(t, StatusError, state.Status)
		require.Equal(t, apierror.CodeInvalidToken, state.Code)
		require.Equal(t, msgInvalidToken, state.Message)
	})

	t.Run("missing token never calls the api", func(t *testing.T) {
		flow, fake := newFlow(t)

		state := flow.Start(context.Background(), "   ")
		require.Equal(t, StatusError, state.Status)
		require.Equal(t, msgMissingToken, state.Message)
		require.Zero(t, fake.CountRequests(api.PathVerifyEmail))
	})

	t.Run("server failure", func(t *testing.T) {
		flow, fake := newFlow(t)
		fake.FailNext(api.PathVerifyEmail, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Database unavailable",
		})

		state := flow.Start(context.Background(), "whatever")
		require.Equal(t, StatusError, state.Status)
		require.Equal(t, apierror.CodeUnknown, state.Code)
		require.Equal(t, "Database unavailable", state.Message)
	})
}

func TestRetryReusesToken(t *testing.T) {
	t.Parallel()

	flow, fake := newFlow(t)
	fake.AddUser("retry@test.com", "password1", "particulier", false)
	token := fake.IssueActivation("retry@test.com", time.Hour)
	fake.FailNext(api.PathVerifyEmail, http.StatusServiceUnavailable, map[string]any{"success": false})

	state := flow.Start(context.Background(), token)
	require.Equal(t, StatusError, state.Status)
	require.Equal(t, msgUnexpected, state.Message)

	state = flow.Retry(context.Background())
	require.Equal(t, StatusSuccess, state.Status)
	require.Equal(t, 2, fake.CountRequests(api.PathVerifyEmail))
}

func TestSetResendEmail(t *testing.T) {
	t.Parallel()

	flow, _ := newFlow(t)

	flow.SetResendEmail("not-an-email")
	assert.Equal(t, msgEmailFormat, flow.State().EmailError)

	flow.SetResendEmail("")
	assert.Empty(t, flow.State().EmailError)

	flow.SetResendEmail(" ok@test.com ")
	assert.Empty(t, flow.State().EmailError)
	assert.Equal(t, "ok@test.com", flow.State().ResendEmail)
}

func TestResend(t *testing.T) {
	t.Parallel()

	t.Run("guards skip the network", func(t *testing.T) {
		flow, fake := newFlow(t)

		require.ErrorIs(t, flow.Resend(context.Background()), model.ErrInvalidInput)
		flow.SetResendEmail("broken")
		require.ErrorIs(t, flow.Resend(context.Background()), model.ErrInvalidInput)
		require.Zero(t, fake.CountRequests(api.PathResendActivation))
	})

	t.Run("expired link then resend", func(t *testing.T) {
		toasts := notify.NewToasts()
		t.Cleanup(toasts.Clear)
		flow, fake := newFlow(t, WithToasts(toasts))
		fake.AddUser("a@b.com", "password1", "particulier", false)
		token := fake.IssueActivation("a@b.com", -time.Minute)

		require.Equal(t, StatusExpired, flow.Start(context.Background(), token).Status)
		require.NoError(t, flow.Resend(context.Background()))

		state := flow.State()
		require.False(t, state.Resending)
		require.Equal(t, "A new activation email has been sent", state.ResendMessage)
		require.Equal(t, 1, fake.CountRequests(api.PathResendActivation))

		list := toasts.List()
		require.Len(t, list, 1)
		require.Equal(t, notify.KindSuccess, list[0].Kind)
	})

	t.Run("failure reports the server message", func(t *testing.T) {
		toasts := notify.NewToasts()
		t.Cleanup(toasts.Clear)
		flow, _ := newFlow(t, WithToasts(toasts))

		flow.SetResendEmail("ghost@test.com")
		err := flow.Resend(context.Background())
		require.Error(t, err)
		require.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
		require.Equal(t, "No account matches this email", flow.State().ResendMessage)
		require.Equal(t, notify.KindError, toasts.List()[0].Kind)
	})
}

type blockingAPI struct {
	started chan struct{}
}

func (b *blockingAPI) VerifyEmail(ctx context.Context, _ string) (model.VerificationResponse, error) {
	close(b.started)
	<-ctx.Done()
	return model.VerificationResponse{}, ctx.Err()
}

func (b *blockingAPI) ResendActivation(ctx context.Context, _ string) (model.VerificationResponse, error) {
	<-ctx.Done()
	return model.VerificationResponse{}, ctx.Err()
}

func TestCloseCancelsPendingVerification(t *testing.T) {
	t.Parallel()

	stub := &blockingAPI{started: make(chan struct{})}
	flow := New(stub)

	done := make(chan State, 1)
	go func() {
		done <- flow.Start(context.Background(), "token")
	}()

	<-stub.started
	flow.Close()

	select {
	case state := <-done:
		require.Equal(t, StatusLoading, state.Status)
	case <-time.After(time.Second):
		t.Fatal("verification not cancelled")
	}

	flow.SetResendEmail("a@b.com")
	require.ErrorIs(t, flow.Resend(context.Background()), ErrFlowClosed)
	require.False(t, flow.State().Resending)
}

func TestRedirectsToLoginAfterSuccess(t *testing.T) {
	t.Parallel()

	targets := make(chan string, 1)
	flow, fake := newFlow(t,
		WithRedirect("/login", func(target string) { targets <- target }),
		WithRedirectDelays(10*time.Millisecond, time.Hour),
	)
	fake.AddUser("new@test.com", "password1", "particulier", false)

	flow.Start(context.Background(), fake.IssueActivation("new@test.com", time.Hour))

	select {
	case target := <-targets:
		assert.Equal(t, "/login?activated=true", target)
	case <-time.After(time.Second):
		t.Fatal("no redirect after a successful verification")
	}
}

func TestRedirectsToLoginAfterResend(t *testing.T) {
	t.Parallel()

	targets := make(chan string, 1)
	flow, fake := newFlow(t,
		WithRedirect("/login", func(target string) { targets <- target }),
		WithRedirectDelays(time.Hour, 10*time.Millisecond),
	)
	fake.AddUser("a@b.com", "password1", "particulier", false)

	state := flow.Start(context.Background(), fake.IssueActivation("a@b.com", -time.Minute))
	require.Equal(t, StatusExpired, state.Status)
	require.NoError(t, flow.Resend(context.Background()))

	select {
	case target := <-targets:
		assert.Equal(t, "/login", target)
	case <-time.After(time.Second):
		t.Fatal("no redirect after a resend")
	}
}

func TestCloseCancelsScheduledRedirect(t *testing.T) {
	t.Parallel()

	targets := make(chan string, 1)
	flow, fake := newFlow(t,
		WithRedirect("/login", func(target string) { targets <- target }),
		WithRedirectDelays(50*time.Millisecond, 50*time.Millisecond),
	)
	fake.AddUser("new@test.com", "password1", "particulier", false)

	state := flow.Start(context.Background(), fake.IssueActivation("new@test.com", time.Hour))
	require.Equal(t, StatusSuccess, state.Status)
	flow.Close()

	select {
	case target := <-targets:
		t.Fatalf("redirected to %s after Close", target)
	case <-time.After(200 * time.Millisecond):
	}
}
