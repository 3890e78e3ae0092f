package auth

import (
	"errors"
	"time"

	"github.com/ShivamNishad0/tasktracker/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService issues and verifies stateless HS256 JWTs. There is no
// server-side revocation: an expired token forces a fresh login.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenService(key []byte) *TokenService {
	return &TokenService{key: key, ttl: defaultTokenTTL, now: time.Now}
}

// Issue signs a token embedding the user ID, valid for 24 hours.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.key)
}

// Verify parses and validates a raw token and returns the embedded user ID.
// Malformed, mis-signed and expired tokens all come back as ErrTokenInvalid.
func (s *TokenService) Verify(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenInvalid
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", domain.ErrTokenInvalid
	}
	return userID, nil
}
