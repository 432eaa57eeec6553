package utils // package utils provides helpers for token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for token secrets
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// TokenPrefix marks raw bearer tokens issued by this service. A raw token
// looks like:
//
//	sfa_<base64url token id>.<hex secret>
//
// The id segment lets the guard locate the row with a primary-key lookup;
// the secret segment is stored only as a SHA-256 hash, so a leaked token
// table cannot be replayed against the API.
const TokenPrefix = "sfa_"

// ErrMalformedToken is returned when a presented bearer value does not have
// the prefix/id/secret shape. The guard maps it to a generic 401.
var ErrMalformedToken = errors.New("malformed access token")

// TokenSecret holds the freshly generated secret segment of a token and its
// expiry. The raw token cannot be composed yet because the token id is only
// known after the row is inserted.
type TokenSecret struct {
	Secret string    // hex-encoded random secret, returned to the client
	Exp    time.Time // UTC expiration time
}

// NewTokenSecret generates a cryptographically random token secret and its
// expiration ttlDays from now.
func NewTokenSecret(ttlDays int) (TokenSecret, error) {
	secret, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return TokenSecret{}, err
	}
	return TokenSecret{
		Secret: secret,
		Exp:    time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// ComposeToken builds the opaque bearer value from a stored token id and
// its secret segment.
func ComposeToken(id uint64, secret string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(id, 10)))
	return TokenPrefix + encoded + "." + secret
}

// ParseToken splits a raw bearer value into the token id and secret
// segment. It only checks shape; expiry and revocation are the token
// store's concern.
func ParseToken(raw string) (uint64, string, error) {
	if !strings.HasPrefix(raw, TokenPrefix) {
		return 0, "", ErrMalformedToken
	}
	rest := strings.TrimPrefix(raw, TokenPrefix)
	encoded, secret, ok := strings.Cut(rest, ".")
	if !ok || encoded == "" || secret == "" {
		return 0, "", ErrMalformedToken
	}
	decoded, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, "", ErrMalformedToken
	}
	id, err := strconv.ParseUint(string(decoded), 10, 64)
	if err != nil || id == 0 {
		return 0, "", ErrMalformedToken
	}
	return id, secret, nil
}

// HashTokenSecret returns the SHA-256 hash of a token secret as a hex
// string. Storing only the hash prevents stolen database rows from being
// used as live credentials.
func HashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
