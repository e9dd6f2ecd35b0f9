package apitest

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignToken returns an HS256 token carrying claims.
func SignToken(secret []byte, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// TokenExpiringAt is a signed access token whose exp claim is exp.
func TokenExpiringAt(exp time.Time) string {
	return SignToken([]byte("test-secret"), jwt.MapClaims{
		"sub": "user-1",
		"jti": uuid.NewString(),
		"exp": exp.Unix(),
	})
}

func (s *Server) issueAccessToken(user *fakeUser) string {
	now := s.now()
	return SignToken(s.secret, jwt.MapClaims{
		"sub":   user.profile.ID,
		"email": user.profile.Email,
		"role":  user.profile.Role,
		"typ":   "access",
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	})
}

func (s *Server) validateAccessToken(raw string) (string, bool) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", false
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}

	return sub, true
}
