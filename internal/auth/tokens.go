package auth

import (
	"fmt"
	"strings"
	"time"
)

// Tokens here are deliberately opaque placeholders: a fixed prefix, an
// owner hint and a high-resolution timestamp. They carry no integrity
// and are only ever checked by prefix. The shape is the contract under
// test, not the (absent) security.
const (
	accessPrefix  = "token_"
	refreshPrefix = "refresh_"

	// ExpiresInSeconds is the advertised validity window (1 hour).
	ExpiresInSeconds = 3600
)

type Issuer struct {
	now func() time.Time
}

func NewIssuer() *Issuer {
	return &Issuer{now: time.Now}
}

// NewIssuerWithClock exists for tests that need deterministic token
// suffixes.
func NewIssuerWithClock(now func() time.Time) *Issuer {
	return &Issuer{now: now}
}

// Pair mints the access/refresh pair returned on login.
func (i *Issuer) Pair(userID string) (token, refreshToken string) {
	ts := i.timestamp()
	token = fmt.Sprintf("token_jwt_%s_%s", userID, ts)
	refreshToken = fmt.Sprintf("refresh_%s_%s", userID, ts)

	return token, refreshToken
}

// RefreshedPair mints the pair returned on token refresh. The refresh
// endpoint never resolves the presented token to an owner, so the new
// pair carries a "refreshed" marker instead of a user id.
func (i *Issuer) RefreshedPair() (token, refreshToken string) {
	ts := i.timestamp()
	token = fmt.Sprintf("token_jwt_refreshed_%s", ts)
	refreshToken = fmt.Sprintf("refresh_refreshed_%s", ts)

	return token, refreshToken
}

// timestamp matches the source fixture's epoch-seconds-with-micros
// suffix format.
func (i *Issuer) timestamp() string {
	t := i.now()

	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}

// IsAccessToken reports whether s is structurally an access token.
// Prefix matching is the only validation the service performs.
func IsAccessToken(s string) bool {
	return strings.HasPrefix(s, accessPrefix)
}

// IsRefreshToken reports whether s is structurally a refresh token.
func IsRefreshToken(s string) bool {
	return strings.HasPrefix(s, refreshPrefix)
}
