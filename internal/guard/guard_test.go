package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immo-client/internal/api"
	"immo-client/internal/apitest"
	"immo-client/internal/model"
	"immo-client/internal/session"
	"immo-client/internal/storage"
	"immo-client/internal/vault"
)

type stubSession struct {
	loggedIn bool
	user     *model.UserProfile
}

func (s stubSession) IsLoggedIn() bool {
	return s.loggedIn
}

func (s stubSession) CurrentUser() (model.UserProfile, bool) {
	if s.user == nil {
		return model.UserProfile{}, false
	}
	return *s.user, true
}

func withRole(role string) stubSession {
	return stubSession{loggedIn: true, user: &model.UserProfile{ID: "u1", Role: role}}
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	t.Run("anonymous goes to login with return url", func(t *testing.T) {
		g := New(stubSession{}, DefaultPolicy())
		d := g.RequireAuth(Route{Path: "/dashboard/add-annonce?step=2"})
		assert.False(t, d.Allow)
		assert.Equal(t, "/login", d.Redirect)
		assert.Equal(t, "/dashboard/add-annonce?step=2", d.Query.Get(ReturnURLParam))
		assert.Equal(t, "/login?returnUrl=%2Fdashboard%2Fadd-annonce%3Fstep%3D2", d.Target())
	})

	t.Run("configurable login path", func(t *testing.T) {
		g := New(stubSession{}, Policy{LoginPath: "/authentification"})
		assert.Equal(t, "/authentification", g.RequireAuth(Route{Path: "/dashboard"}).Redirect)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		g := New(withRole("particulier"), DefaultPolicy())
		assert.True(t, g.RequireAuth(Route{Path: "/dashboard"}).Allow)
	})

	t.Run("role metadata is honoured", func(t *testing.T) {
		g := New(withRole("client"), DefaultPolicy())
		d := g.RequireAuth(Route{Path: "/dashboard", Roles: []string{"admin"}})
		assert.False(t, d.Allow)
		assert.Equal(t, "/unauthorized", d.Redirect)
	})
}

func TestGuestOnly(t *testing.T) {
	t.Parallel()

	g := New(withRole("particulier"), DefaultPolicy())
	for i := 0; i < 3; i++ {
		d := g.GuestOnly(Route{Path: "/login"})
		require.False(t, d.Allow)
		assert.Equal(t, "/dashboard", d.Redirect)
	}

	assert.True(t, New(stubSession{}, DefaultPolicy()).GuestOnly(Route{Path: "/login"}).Allow)
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	required := []string{"particulier", "entreprise"}

	cases := []struct {
		name     string
		session  stubSession
		roles    []string
		policy   EmptyRoles
		allow    bool
		redirect string
	}{
		{name: "client role denied", session: withRole("client"), roles: required, allow: false, redirect: "/unauthorized"},
		{name: "case insensitive match", session: withRole("Entreprise"), roles: required, allow: true},
		{name: "no user", session: stubSession{}, roles: required, allow: false, redirect: "/login"},
		{name: "user without role", session: withRole(""), roles: required, allow: false, redirect: "/unauthorized"},
		{name: "empty roles deny", session: withRole("particulier"), roles: nil, policy: EmptyRolesDeny, allow: false, redirect: "/unauthorized"},
		{name: "empty roles allow", session: withRole("particulier"), roles: []string{}, policy: EmptyRolesAllow, allow: true},
		{name: "no user on route without roles", session: stubSession{}, roles: nil, policy: EmptyRolesDeny, allow: false, redirect: "/login"},
		{name: "no user beats allow policy", session: stubSession{}, roles: nil, policy: EmptyRolesAllow, allow: false, redirect: "/login"},
		{name: "unknown policy fails closed", session: withRole("particulier"), roles: nil, policy: "maybe", allow: false, redirect: "/unauthorized"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := DefaultPolicy()
			policy.EmptyRoles = tc.policy
			d := New(tc.session, policy).RequireRoles(Route{Path: "/dashboard", Roles: tc.roles})
			assert.Equal(t, tc.allow, d.Allow)
			assert.Equal(t, tc.redirect, d.Redirect)
		})
	}
}

func TestMiddlewareOnRouter(t *testing.T) {
	t.Parallel()

	g := New(withRole("client"), DefaultPolicy())

	r := chi.NewRouter()
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	r.With(Middleware(g.RequireAuth)).Get("/dashboard", ok)
	r.With(Middleware(g.RequireRoles, "particulier", "entreprise")).Get("/dashboard/add-annonce", ok)
	r.With(Middleware(g.GuestOnly)).Get("/login", ok)

	cases := []struct {
		path     string
		status   int
		location string
	}{
		{path: "/dashboard", status: http.StatusOK},
		{path: "/dashboard/add-annonce", status: http.StatusFound, location: "/unauthorized"},
		{path: "/login", status: http.StatusFound, location: "/dashboard"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, tc.path)
		assert.Equal(t, tc.location, rec.Header().Get("Location"), tc.path)
	}
}

func TestLoginThenGuestGuardRedirects(t *testing.T) {
	t.Parallel()

	fake := apitest.New()
	fake.AddUser("user@test.com", "secret123", "particulier", true)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)
	v, err := vault.New("static-secret", "fp")
	require.NoError(t, err)

	manager := session.New(storage.NewMemoryStore(), v, client, nil)
	g := New(manager, DefaultPolicy())

	require.True(t, g.GuestOnly(Route{Path: "/login"}).Allow)

	_, err = manager.Login(context.Background(), model.LoginRequest{Email: "user@test.com", Password: "secret123"})
	require.NoError(t, err)
	require.True(t, manager.IsLoggedIn())

	d := g.GuestOnly(Route{Path: "/login"})
	assert.False(t, d.Allow)
	assert.Equal(t, "/dashboard", d.Redirect)
	assert.True(t, g.RequireRoles(Route{Path: "/dashboard/add-annonce", Roles: []string{"particulier", "entreprise"}}).Allow)
}
