package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
)

// TokenTTL is the validity window of a session token
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, wrong algorithm and expiry are not told apart.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager handles generation and validation of session tokens
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager builds a manager signing with secret. An empty secret is a
// configuration error, never a usable default.
func NewJWTManager(secret string) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTManager{secret: []byte(secret), ttl: TokenTTL, now: time.Now}, nil
}

// WithClock returns a copy of m reading the current time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	cp := *m
	cp.now = now
	return &cp
}

// TokenClaims identify the principal a token was issued to
type TokenClaims struct {
	UserID int64       `json:"userId"`
	Email  string      `json:"email"`
	Role   entity.Role `json:"role"`
}

type Claims struct {
	TokenClaims
	jwt.RegisteredClaims
}

// IssueToken signs claims with HS256, valid for TokenTTL from now.
func (m *JWTManager) IssueToken(c TokenClaims) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		TokenClaims: c,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(c.UserID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// VerifyToken validates tokenStr and returns its claims, or ErrInvalidToken.
func (m *JWTManager) VerifyToken(tokenStr string) (TokenClaims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	if claims.UserID <= 0 || !claims.Role.Valid() {
		return TokenClaims{}, ErrInvalidToken
	}
	return claims.TokenClaims, nil
}
