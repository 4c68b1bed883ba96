package shelfserve

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/shelfserve/shelfserve/metrics"
)

// Authenticator verifies basic-auth credentials against one configured
// (username, bcrypt hash) pair. bcrypt is deliberately slow, so the first
// successful verification caches the plaintext password in a single
// mutex-guarded slot; later requests from the same client are answered by
// an equality check instead of a fresh hash comparison.
//
// The slot has no expiry. It is overwritten only by a new successful bcrypt
// verification and is never cleared by failed attempts, so a wrong password
// cannot evict a legitimate client's cached credential.
type Authenticator struct {
	user string
	hash string

	mu         sync.Mutex
	cachedPass string
}

// NewAuthenticator creates an Authenticator for the configured username and
// bcrypt password hash.
func NewAuthenticator(user, hash string) *Authenticator {
	return &Authenticator{user: user, hash: hash}
}

// Verify reports whether the presented credentials are valid. The outcome is
// uniform regardless of which part of the credential was wrong.
func (a *Authenticator) Verify(user, pass string) bool {
	if user != a.user {
		metrics.RecordAuthVerification("user", false)
		return false
	}

	a.mu.Lock()
	cached := a.cachedPass
	a.mu.Unlock()

	if cached != "" {
		ok := cached == pass
		metrics.RecordAuthVerification("cached", ok)
		return ok
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.hash), []byte(pass)); err != nil {
		metrics.RecordAuthVerification("bcrypt", false)
		return false
	}

	a.mu.Lock()
	a.cachedPass = pass
	a.mu.Unlock()

	metrics.RecordAuthVerification("bcrypt", true)
	return true
}

// HashPassword bcrypt-hashes a plaintext password for use in the config
// file's auth.password_hash field.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
