package apitest

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// throttledSuffixes are the credential endpoints guarded by the auth
// limiter.
var throttledSuffixes = []string{"/users/login", "/register", "/users/resend-activation"}

type authLimiter struct {
	rpm     int
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newAuthLimiter(rpm int) *authLimiter {
	return &authLimiter{rpm: rpm, clients: map[string]*clientLimiter{}}
}

func (l *authLimiter) handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.rpm <= 0 || !throttled(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if !l.get(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"success": false,
				"message": "Too many attempts, please wait a minute",
				"error":   map[string]string{"code": "RATE_LIMITED"},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *authLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if c, ok := l.clients[ip]; ok {
		c.lastSeen = now
		return c.limiter
	}

	c := &clientLimiter{
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.rpm)), l.rpm),
		lastSeen: now,
	}
	l.clients[ip] = c
	l.gcLocked(now)

	return c.limiter
}

func (l *authLimiter) gcLocked(now time.Time) {
	if len(l.clients) < 1000 {
		return
	}

	cutoff := now.Add(-10 * time.Minute)
	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

func throttled(path string) bool {
	path = strings.ToLower(strings.TrimRight(path, "/"))
	for _, suffix := range throttledSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil && host != "" {
		return host
	}

	if r.RemoteAddr == "" {
		return "unknown"
	}
	return r.RemoteAddr
}
