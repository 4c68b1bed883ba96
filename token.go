package shelfserve

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// EncodePath encodes an archive's root-relative path into a single opaque
// URL path segment. The encoding is URL-safe base64 without padding, so the
// token never contains "/" and round-trips through a route parameter intact.
func EncodePath(path string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(path))
}

// DecodePath is the inverse of EncodePath. Malformed tokens yield an error
// wrapping ErrBadToken.
func DecodePath(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrBadToken, token, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: %q: decoded bytes are not valid UTF-8", ErrBadToken, token)
	}
	return string(raw), nil
}
