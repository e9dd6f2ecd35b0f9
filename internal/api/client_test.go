package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immo-client/internal/apitest"
	"immo-client/internal/model"
	"immo-client/pkg/apierror"
)

func newTestClient(t *testing.T, token string, opts ...Option) (*Client, *apitest.Server) {
	t.Helper()

	fake := apitest.New()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithTokenSource(func() string { return token })}, opts...)
	client, err := New(srv.URL, opts...)
	require.NoError(t, err)

	return client, fake
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New("/api")
	require.Error(t, err)
}

func TestAuthorizationHeaderContract(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, "stored-token")
	fake.AddUser("user@test.com", "secret123", "particulier", true)
	ctx := context.Background()

	_, err := client.Login(ctx, model.LoginRequest{Email: "user@test.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = client.Register(ctx, model.RegisterRequest{Email: "new@test.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = client.ListAnnonces(ctx, model.ListAnnoncesQuery{})
	require.NoError(t, err)

	login, ok := fake.LastRequest(PathLogin)
	require.True(t, ok)
	assert.Empty(t, login.Authorization)
	assert.NotEmpty(t, login.RequestID)

	register, ok := fake.LastRequest(PathRegister)
	require.True(t, ok)
	assert.Empty(t, register.Authorization)

	list, ok := fake.LastRequest(PathAnnonces)
	require.True(t, ok)
	assert.Equal(t, "Bearer stored-token", list.Authorization)
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, "")

	_, err := client.ListAnnonces(context.Background(), model.ListAnnoncesQuery{City: "abidjan"})
	require.NoError(t, err)

	req, ok := fake.LastRequest(PathAnnonces)
	require.True(t, ok)
	assert.Empty(t, req.Authorization)
}

func TestLoginFailureCarriesServerMessage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, "")

	_, err := client.Login(context.Background(), model.LoginRequest{Email: "nobody@test.com", Password: "whatever"})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.Equal(t, "Invalid email or password", apierror.MessageOr(err, "fallback"))
	assert.True(t, IsUnauthorized(err))
}

func TestLoginValidatesBeforeSending(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, "")

	_, err := client.Login(context.Background(), model.LoginRequest{Email: "user@test.com"})
	require.Error(t, err)
	assert.Zero(t, fake.CountRequests(PathLogin))
}

func TestRefreshRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, "")
	fake.FailNext(PathRefresh, http.StatusOK, map[string]any{"success": true, "token": ""})

	_, err := client.Refresh(context.Background(), "r1")
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_RESPONSE", apiErr.Code)
}

func TestSuccessFalseOn2xxIsAnError(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, "t")
	fake.FailNext(PathAnnonces, http.StatusOK, map[string]any{"success": false, "message": "maintenance"})

	_, err := client.ListAnnonces(context.Background(), model.ListAnnoncesQuery{})
	require.Error(t, err)
	assert.Equal(t, "maintenance", apierror.MessageOr(err, "generic"))
}

func TestDecodeErrorShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		status        int
		body          string
		wantCode      string
		wantErrorCode string
		wantMessage   string
		wantEmail     string
		wantDetails   string
	}{
		{
			name:          "verification errors object",
			status:        http.StatusGone,
			body:          `{"success":false,"message":"expired","errors":{"errorCode":"TOKEN_EXPIRED","message":"link expired","email":"a@b.com"}}`,
			wantCode:      "HTTP_410",
			wantErrorCode: apierror.CodeTokenExpired,
			wantMessage:   "link expired",
			wantEmail:     "a@b.com",
		},
		{
			name:          "error object",
			status:        http.StatusConflict,
			body:          `{"error":{"errorCode":"ALREADY_ACTIVATED","message":"done"}}`,
			wantCode:      "HTTP_409",
			wantErrorCode: apierror.CodeAlreadyActivated,
			wantMessage:   "done",
		},
		{
			name:        "validation list",
			status:      http.StatusBadRequest,
			body:        `{"success":false,"message":"Validation failed","errors":["title is required","type is required"]}`,
			wantCode:    "HTTP_400",
			wantMessage: "Validation failed",
			wantDetails: "title is required; type is required",
		},
		{
			name:     "json without details",
			status:   http.StatusInternalServerError,
			body:     `{"success":false}`,
			wantCode: "HTTP_500",
		},
		{
			name:        "not json",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantCode:    "HTTP_502",
			wantDetails: "Bad Gateway",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			apiErr := decodeError(tc.status, []byte(tc.body))
			assert.Equal(t, tc.status, apiErr.HTTPStatus)
			assert.Equal(t, tc.wantCode, apiErr.Code)
			assert.Equal(t, tc.wantErrorCode, apiErr.ErrorCode)
			assert.Equal(t, tc.wantMessage, apiErr.Message)
			assert.Equal(t, tc.wantEmail, apiErr.Email)
			assert.Equal(t, tc.wantDetails, apiErr.Details)
		})
	}
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, "")
	fake.AddUser("a@b.com", "secret123", "particulier", false)
	token := fake.IssueActivation("a@b.com", -time.Hour)

	_, err := client.VerifyEmail(context.Background(), token)
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.CodeTokenExpired, apiErr.ErrorCode)
	assert.Equal(t, "a@b.com", apiErr.Email)
}

func TestResendActivation(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, "")
	fake.AddUser("a@b.com", "secret123", "particulier", false)

	resp, err := client.ResendActivation(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "a@b.com", resp.Data.Email)
	assert.NotEmpty(t, fake.ActivationToken("a@b.com"))
}

func TestAddAnnonceMultipartEncoding(t *testing.T) {
	t.Parallel()

	fake := apitest.New()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	user := fake.AddUser("owner@test.com", "secret123", "particulier", true)
	anon, err := New(srv.URL)
	require.NoError(t, err)
	login, err := anon.Login(context.Background(), model.LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)

	client, err := New(srv.URL, WithTokenSource(func() string { return login.Data.AccessToken }))
	require.NoError(t, err)

	req := model.AnnonceRequest{
		Title:                 "Villa Cocody",
		Description:           "Belle villa",
		Statut:                "available",
		Type:                  "villa",
		Surface:               250.5,
		Contact:               model.Contact{Name: "Awa", Phone: "+2250700000000", Email: "owner@test.com"},
		Localisation:          model.Localisation{City: "abidjan", District: "cocody", Address: "Rue des jardins"},
		Composition:           model.Composition{BedroomCount: 4, LivingRoomCount: 2, BathroomCount: 3, KitchenCount: 1},
		Transaction:           model.Transaction{TransactionType: model.TransactionSale, Price: 150000000, Currency: "XOF"},
		Visibilite:            model.Visibilite{Level: "standard"},
		EquipementsInterieurs: []string{"climatisation"},
		Medias: []model.MediaFile{
			{Name: "front.png", ContentType: "image/png", Content: []byte("\x89PNG\r\n\x1a\nfake")},
			{Name: "../plan.pdf", Content: []byte("%PDF-1.4 fake")},
		},
	}

	resp, err := client.AddAnnonce(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Villa Cocody", resp.Data.Title)
	assert.Equal(t, user.ID, resp.Data.OwnerID)
	assert.Len(t, resp.Data.Medias, 2)

	recorded, ok := fake.LastRequest(PathAddAnnonce)
	require.True(t, ok)
	assert.Equal(t, "Bearer "+login.Data.AccessToken, recorded.Authorization)
	assert.Equal(t, "Villa Cocody", recorded.Fields["title"])
	assert.Equal(t, "250.5", recorded.Fields["surface"])
	assert.Equal(t, "[]", recorded.Fields["equipementsExterieurs"])

	var transaction model.Transaction
	require.NoError(t, json.Unmarshal([]byte(recorded.Fields["transaction"]), &transaction))
	assert.Equal(t, int64(150000000), transaction.Price)

	require.Len(t, recorded.Files, 2)
	for _, file := range recorded.Files {
		assert.Equal(t, MediaField, file.Field)
	}
	assert.Equal(t, "image/png", recorded.Files[0].ContentType)
	assert.Equal(t, "plan.pdf", recorded.Files[1].Filename)
	assert.Equal(t, "application/pdf", recorded.Files[1].ContentType)
}

func TestAddAnnonceWithoutTokenIsUnauthorized(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, "")

	_, err := client.AddAnnonce(context.Background(), model.AnnonceRequest{Title: "x"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestListAnnoncesFilters(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, "")

	_, err := client.ListAnnonces(context.Background(), model.ListAnnoncesQuery{
		City:            "abidjan",
		TransactionType: model.TransactionRental,
		Page:            2,
		Limit:           5,
	})
	require.NoError(t, err)

	req, ok := fake.LastRequest(PathAnnonces)
	require.True(t, ok)
	assert.Equal(t, http.MethodGet, req.Method)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, "", WithRateLimit(1))

	_, err := client.ListAnnonces(context.Background(), model.ListAnnoncesQuery{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.ListAnnonces(ctx, model.ListAnnoncesQuery{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestThrottledLoginSurfacesServerMessage(t *testing.T) {
	t.Parallel()

	fake := apitest.New(apitest.WithAuthRateLimit(1))
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client, err := New(srv.URL)
	require.NoError(t, err)

	req := model.LoginRequest{Email: "nobody@test.com", Password: "secret123"}
	_, err = client.Login(context.Background(), req)
	require.True(t, IsUnauthorized(err))

	_, err = client.Login(context.Background(), req)
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, http.StatusTooManyRequests, apierror.StatusOf(err))
	assert.Equal(t, "Too many attempts, please wait a minute", apierror.MessageOr(err, "fallback"))

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "RATE_LIMITED", apiErr.Code)
}

func TestHTTPClientTimeoutIsAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	require.NoError(t, err)

	_, err = client.ListAnnonces(context.Background(), model.ListAnnoncesQuery{})
	require.Error(t, err)
	assert.Zero(t, apierror.StatusOf(err))
}

func TestWithTimeoutLeavesCallerClientAlone(t *testing.T) {
	t.Parallel()

	shared := &http.Client{Timeout: time.Minute}
	client, err := New("http://localhost:3000/api", WithHTTPClient(shared), WithTimeout(2*time.Second))
	require.NoError(t, err)

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
	assert.NotSame(t, shared, client.httpClient)
}
