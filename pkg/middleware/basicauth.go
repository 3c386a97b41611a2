package middleware

import (
	"crypto/subtle"
	"net/http"
)

// BasicAuth returns middleware enforcing HTTP basic auth with the given
// credentials. When either credential is empty the middleware is a
// pass-through, matching deployments that run without auth configured.
func BasicAuth(user, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if user == "" || password == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqUser, reqPassword, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
				http.Error(w, "Missing authorization credentials", http.StatusUnauthorized)
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(reqUser), []byte(user)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(reqPassword), []byte(password)) == 1
			if !userMatch || !passMatch {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
