// Package apitest is an in-memory fake of the classifieds API. Tests run it
// behind httptest; cmd/mockapi serves it for local development.
package apitest

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"immo-client/internal/model"
)

type fakeUser struct {
	profile model.UserProfile
	hash    []byte
	active  bool
}

type activation struct {
	email   string
	expires time.Time
	used    bool
}

type failure struct {
	status int
	body   any
}

type Server struct {
	mu          sync.Mutex
	secret      []byte
	accessTTL   time.Duration
	cost        int
	now         func() time.Time
	origins     []string
	authRPM     int
	users       map[string]*fakeUser
	refresh     map[string]string
	activations map[string]*activation
	annonces    []model.Annonce
	failures    map[string][]failure
	requests    []RecordedRequest
	router      http.Handler
}

type Option func(*Server)

func WithSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.accessTTL = ttl
		}
	}
}

// WithBcryptCost sets the hashing cost of fake user passwords.
func WithBcryptCost(cost int) Option {
	return func(s *Server) {
		s.cost = cost
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithAuthRateLimit caps credential requests per client and minute; 0
// leaves them unlimited.
func WithAuthRateLimit(rpm int) Option {
	return func(s *Server) {
		s.authRPM = rpm
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		secret:      []byte("test-secret"),
		accessTTL:   15 * time.Minute,
		cost:        bcrypt.MinCost,
		now:         time.Now,
		users:       map[string]*fakeUser{},
		refresh:     map[string]string{},
		activations: map[string]*activation{},
		failures:    map[string][]failure{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(recovery)
	r.Use(logging)
	r.Use(corsHandler(s.origins))
	r.Use(s.record)
	r.Use(newAuthLimiter(s.authRPM).handler)
	r.Use(s.injectFailures)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/register", s.handleRegister)
	r.Post("/refresh", s.handleRefresh)

	r.Route("/users", func(users chi.Router) {
		users.Post("/login", s.handleLogin)
		users.Post("/verify-email", s.handleVerifyEmail)
		users.Post("/resend-activation", s.handleResendActivation)
	})

	r.Route("/annonces", func(annonces chi.Router) {
		annonces.Get("/", s.handleListAnnonces)
		annonces.With(s.requireAuth).Post("/add-annonce", s.handleAddAnnonce)
	})

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AddUser registers a user directly; active users can log in immediately.
func (s *Server) AddUser(email string, password string, role string, active bool) model.UserProfile {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		panic(err)
	}

	email = strings.TrimSpace(email)
	profile := model.UserProfile{
		ID:    uuid.NewString(),
		Name:  strings.Split(email, "@")[0],
		Email: email,
		Role:  role,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(email)] = &fakeUser{profile: profile, hash: hash, active: active}

	return profile
}

// IssueActivation creates an activation token for email valid for ttl. A
// negative ttl yields an already expired token.
func (s *Server) IssueActivation(email string, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.issueActivationLocked(email, ttl)
}

func (s *Server) issueActivationLocked(email string, ttl time.Duration) string {
	token := uuid.NewString()
	s.activations[token] = &activation{email: email, expires: s.now().Add(ttl)}
	return token
}

// IssueRefreshToken returns a refresh token bound to the user with email.
func (s *Server) IssueRefreshToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return ""
	}

	token := uuid.NewString()
	s.refresh[token] = user.profile.ID
	return token
}

// RevokeRefreshTokens invalidates every refresh token handed out so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = map[string]string{}
}

// ActivationToken returns the most recent unused activation token for email.
func (s *Server) ActivationToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		latest  string
		expires time.Time
	)
	for token, act := range s.activations {
		if act.used || !strings.EqualFold(act.email, email) {
			continue
		}
		if latest == "" || act.expires.After(expires) {
			latest = token
			expires = act.expires
		}
	}

	return latest
}

// IsActive reports whether the user with email has verified their address.
func (s *Server) IsActive(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	return ok && user.active
}

// FailNext makes the next request whose path ends with path answer with
// status and body instead of reaching its handler.
func (s *Server) FailNext(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = append(s.failures[path], failure{status: status, body: body})
}

func (s *Server) Annonces() []model.Annonce {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Annonce, len(s.annonces))
	copy(out, s.annonces)
	return out
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f, ok := s.popFailure(r.URL.Path); ok {
			writeJSON(w, f.status, f.body)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) popFailure(path string) (failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, queue := range s.failures {
		if len(queue) == 0 || !strings.HasSuffix(path, key) {
			continue
		}

		f := queue[0]
		s.failures[key] = queue[1:]
		return f, true
	}

	return failure{}, false
}

type userIDKey struct{}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeFailure(w, http.StatusUnauthorized, "Authentication required", nil)
			return
		}

		userID, ok := s.validateAccessToken(strings.TrimSpace(header[7:]))
		if !ok {
			writeFailure(w, http.StatusUnauthorized, "Token expired or invalid", nil)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

func (s *Server) userByID(id string) (*fakeUser, bool) {
	for _, user := range s.users {
		if user.profile.ID == id {
			return user, true
		}
	}

	return nil, false
}
