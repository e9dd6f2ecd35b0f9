// Package guard decides whether a route may be entered and where to send
// the user otherwise.
package guard

import (
	"log/slog"
	"net/url"
	"strings"

	"immo-client/internal/config"
	"immo-client/internal/model"
)

// ReturnURLParam carries the originally requested path to the login route.
const ReturnURLParam = "returnUrl"

// EmptyRoles selects what a role guard does with a route that requires no
// role at all.
type EmptyRoles string

const (
	EmptyRolesDeny  EmptyRoles = EmptyRoles(config.EmptyRolesDeny)
	EmptyRolesAllow EmptyRoles = EmptyRoles(config.EmptyRolesAllow)
)

// Session is the read side of the session manager.
type Session interface {
	IsLoggedIn() bool
	CurrentUser() (model.UserProfile, bool)
}

type Policy struct {
	LoginPath        string
	LandingPath      string
	UnauthorizedPath string
	EmptyRoles       EmptyRoles
}

func DefaultPolicy() Policy {
	return Policy{
		LoginPath:        "/login",
		LandingPath:      "/dashboard",
		UnauthorizedPath: "/unauthorized",
		EmptyRoles:       EmptyRolesDeny,
	}
}

func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		LoginPath:        cfg.LoginPath,
		LandingPath:      cfg.LandingPath,
		UnauthorizedPath: cfg.UnauthorizedPath,
		EmptyRoles:       EmptyRoles(cfg.EmptyRolesPolicy),
	}
}

// Route is the requested path plus its role metadata.
type Route struct {
	Path  string
	Roles []string
}

type Decision struct {
	Allow    bool
	Redirect string
	Query    url.Values
}

// Target is the redirect location including its query string.
func (d Decision) Target() string {
	if d.Redirect == "" || len(d.Query) == 0 {
		return d.Redirect
	}
	return d.Redirect + "?" + d.Query.Encode()
}

type Guards struct {
	session Session
	policy  Policy
}

func New(session Session, policy Policy) *Guards {
	defaults := DefaultPolicy()
	if policy.LoginPath == "" {
		policy.LoginPath = defaults.LoginPath
	}
	if policy.LandingPath == "" {
		policy.LandingPath = defaults.LandingPath
	}
	if policy.UnauthorizedPath == "" {
		policy.UnauthorizedPath = defaults.UnauthorizedPath
	}
	if policy.EmptyRoles != EmptyRolesAllow {
		policy.EmptyRoles = EmptyRolesDeny
	}

	return &Guards{session: session, policy: policy}
}

func (g *Guards) Policy() Policy {
	return g.policy
}

// RequireAuth lets authenticated users through. Role metadata on the route
// is checked as well when present.
func (g *Guards) RequireAuth(route Route) Decision {
	if !g.session.IsLoggedIn() {
		slog.Debug("auth guard redirect to login", "path", route.Path)
		return g.toLogin(route)
	}

	if len(route.Roles) > 0 && !g.hasRole(route.Roles) {
		slog.Debug("auth guard role mismatch", "path", route.Path, "required", route.Roles)
		return Decision{Redirect: g.policy.UnauthorizedPath}
	}

	return Decision{Allow: true}
}

// GuestOnly keeps authenticated users away from login and registration.
func (g *Guards) GuestOnly(route Route) Decision {
	if g.session.IsLoggedIn() {
		slog.Debug("guest guard redirect to landing", "path", route.Path)
		return Decision{Redirect: g.policy.LandingPath}
	}

	return Decision{Allow: true}
}

// RequireRoles sends visitors without a user to login before looking at
// the route's roles.
func (g *Guards) RequireRoles(route Route) Decision {
	if _, ok := g.session.CurrentUser(); !ok {
		return Decision{Redirect: g.policy.LoginPath}
	}

	if len(route.Roles) == 0 {
		if g.policy.EmptyRoles == EmptyRolesAllow {
			return Decision{Allow: true}
		}
		slog.Warn("role guard denied route without required roles", "path", route.Path)
		return Decision{Redirect: g.policy.UnauthorizedPath}
	}

	if !g.hasRole(route.Roles) {
		slog.Debug("role guard denied", "path", route.Path, "required", route.Roles)
		return Decision{Redirect: g.policy.UnauthorizedPath}
	}

	return Decision{Allow: true}
}

func (g *Guards) toLogin(route Route) Decision {
	query := url.Values{}
	if route.Path != "" {
		query.Set(ReturnURLParam, route.Path)
	}

	return Decision{Redirect: g.policy.LoginPath, Query: query}
}

func (g *Guards) hasRole(required []string) bool {
	user, ok := g.session.CurrentUser()
	if !ok {
		return false
	}

	role := strings.ToLower(strings.TrimSpace(user.Role))
	if role == "" {
		return false
	}

	for _, candidate := range required {
		if strings.ToLower(strings.TrimSpace(candidate)) == role {
			return true
		}
	}

	return false
}
