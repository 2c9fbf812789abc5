package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken means the session credential is missing, malformed,
	// tampered with or expired.
	ErrInvalidToken = errors.New("invalid token")
)

// JWTService signs and validates session credentials. Claims carry only
// {sub: user_id, exp}; the role is resolved from the store on each request.
type JWTService struct {
	secret      []byte
	expireHours int
}

// NewJWTService creates a JWT service.
func NewJWTService(secret string, sessionExpireHours int) *JWTService {
	return &JWTService{
		secret:      []byte(secret),
		expireHours: sessionExpireHours,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *JWTService) SessionTTL() time.Duration {
	return time.Duration(s.expireHours) * time.Hour
}

// Generate creates a session JWT bound to the user id.
func (s *JWTService) Generate(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.SessionTTL())),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses a session JWT and returns the user id it is bound to.
func (s *JWTService) Validate(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
