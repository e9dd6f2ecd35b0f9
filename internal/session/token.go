package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var segmentParser = jwt.NewParser()

// tokenExpired decodes the payload segment without checking the signature.
// The client only uses it to avoid sending a stale token; the API remains
// the authority. Anything unreadable counts as expired.
func tokenExpired(token string, now time.Time) bool {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return true
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return true
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.Unix() <= now.Unix()
}
