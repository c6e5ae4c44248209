package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ridloal/e-commerce-storefront/internal/platform/clock"
	"github.com/ridloal/e-commerce-storefront/internal/user/domain"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// SessionIssuer signs and verifies the bearer tokens handed out at login.
type SessionIssuer interface {
	Issue(user domain.User) (string, error)
	// Verify returns the user id carried by a valid token.
	Verify(token string) (string, error)
}

type jwtSessionIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewJWTSessionIssuer(secret string, ttl time.Duration, clk clock.Clock) SessionIssuer {
	return &jwtSessionIssuer{secret: []byte(secret), ttl: ttl, clock: clk}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (i *jwtSessionIssuer) Issue(user domain.User) (string, error) {
	now := i.clock.Now()
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return signed, nil
}

func (i *jwtSessionIssuer) Verify(tokenString string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
