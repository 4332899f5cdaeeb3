package auth

import (
	"dm-lab/domain"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "dm-lab"

// CustomClaims defines the data stored inside the JWT.
type CustomClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens with a single shared key.
type TokenManager struct {
	key      []byte
	duration time.Duration
	now      func() time.Time
}

func NewTokenManager(key string, duration time.Duration) *TokenManager {
	return &TokenManager{key: []byte(key), duration: duration, now: time.Now}
}

// GenerateToken creates a signed JWT for user, valid for the configured duration.
func (m *TokenManager) GenerateToken(user domain.User) (string, error) {
	now := m.now()
	claims := &CustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

// ValidateToken checks signature, algorithm, issuer and expiration.
func (m *TokenManager) ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return m.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing username", jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}
