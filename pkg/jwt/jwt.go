package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for any token that does not check out
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the session token payload
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"id"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens with HS256
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates new JWT manager. A zero ttl issues tokens without expiry.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for username/userID
func (m *Manager) Issue(username, userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify validates and parses token
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return claims, nil
}
