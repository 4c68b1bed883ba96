package http

import (
	"net/http"
)

// realm is the basic-auth realm presented in 401 challenges.
const realm = "shelfserve"

// CredentialVerifier checks one username/password pair.
type CredentialVerifier interface {
	Verify(user, pass string) bool
}

// BasicAuthMiddleware creates middleware that enforces HTTP basic
// authentication through the given verifier. Pass nil to disable
// authentication (public access).
func BasicAuthMiddleware(verifier CredentialVerifier) func(http.Handler) http.Handler {
	if verifier == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || !verifier.Verify(user, pass) {
				w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`"`)
				WriteText(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
