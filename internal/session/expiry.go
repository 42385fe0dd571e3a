package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xhit/go-str2duration/v2"
)

// ParseExpiry derives when token stops being valid.
// The exp claim of a JWT wins; otherwise expiresIn is read as a duration
// ("1h", "7d", "1w2d") or as plain seconds ("3600") counted from now.
// ok is false when neither source yields an expiry.
func ParseExpiry(token, expiresIn string, now time.Time) (expiresAt time.Time, ok bool) {
	if exp, found := tokenExpiry(token); found {
		return exp, true
	}

	hint := strings.TrimSpace(expiresIn)
	if hint == "" {
		return time.Time{}, false
	}
	if d, err := str2duration.ParseDuration(hint); err == nil && d > 0 {
		return now.Add(d), true
	}
	if secs, err := strconv.ParseInt(hint, 10, 64); err == nil && secs > 0 {
		return now.Add(time.Duration(secs) * time.Second), true
	}
	return time.Time{}, false
}

// tokenExpiry reads the exp claim without verifying the signature
func tokenExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
