package guard

import "net/http"

// Check is any of the guard predicates.
type Check func(Route) Decision

// Middleware runs check before the handler and answers 302 when it denies.
func Middleware(check Check, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := check(Route{Path: r.URL.RequestURI(), Roles: roles})
			if !decision.Allow {
				http.Redirect(w, r, decision.Target(), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
