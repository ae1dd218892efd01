// Package jwttoken issues and validates the signed identity tokens the
// service hands out at login. Tokens are stateless: there is no
// server-side session or revocation list, only signature and expiry.
package jwttoken

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "pandacare-authprofile"

// Service handles JWT creation and validation with a single shared
// symmetric secret.
type Service struct {
	signingKey []byte
	ttl        time.Duration
}

func New(signingKey string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		ttl:        ttl,
	}
}

// Generate issues a token for a subject whose credentials were just
// verified (login).
func (s *Service) Generate(userID int64) (string, error) {
	return s.sign(userID)
}

// GenerateFromUserID issues a token for an already-authenticated
// subject without re-checking credentials, e.g. after a profile update
// changed the login email.
func (s *Service) GenerateFromUserID(userID int64) (string, error) {
	return s.sign(userID)
}

func (s *Service) sign(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	})
	return token.SignedString(s.signingKey)
}

// Validate reports whether the token is well-formed, carries a valid
// HMAC signature and has not expired. Every failure mode collapses to
// false here so callers never learn why a token was rejected.
func (s *Service) Validate(token string) bool {
	_, err := s.parse(token)
	return err == nil
}

// Subject extracts the user id a valid token asserts. It is only
// meaningful for tokens that pass Validate; invalid input yields an
// error.
func (s *Service) Subject(token string) (int64, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(claims.Subject, 10, 64)
}

// Claims returns a valid token's registered claims. Callers that only
// need the subject should use Subject instead.
func (s *Service) Claims(token string) (*jwt.RegisteredClaims, error) {
	return s.parse(token)
}

func (s *Service) parse(token string) (*jwt.RegisteredClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Tokens claiming any non-HMAC algorithm are rejected outright
		// rather than attempting cross-algorithm verification.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
