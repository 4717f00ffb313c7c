package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hambax/entity"
)

const (
	sessionTokenTTL      = time.Hour
	verificationTokenTTL = 24 * time.Hour
)

// Tokens signs and parses the two token kinds the service hands out: short
// session tokens and longer-lived email verification tokens. They are signed
// with different secrets so one can never stand in for the other.
type Tokens struct {
	sessionSecret      []byte
	verificationSecret []byte
}

func NewTokens(sessionSecret, verificationSecret string) Tokens {
	if sessionSecret == "" || verificationSecret == "" {
		panic("missing token secrets")
	}

	return Tokens{
		sessionSecret:      []byte(sessionSecret),
		verificationSecret: []byte(verificationSecret),
	}
}

func (t Tokens) NewSessionToken(userID string) (string, error) {
	return sign(userID, sessionTokenTTL, t.sessionSecret)
}

func (t Tokens) ParseSessionToken(token string) (string, error) {
	return parse(token, t.sessionSecret)
}

func (t Tokens) NewVerificationToken(userID string) (string, error) {
	return sign(userID, verificationTokenTTL, t.verificationSecret)
}

func (t Tokens) ParseVerificationToken(token string) (string, error) {
	return parse(token, t.verificationSecret)
}

func sign(userID string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return signed, nil
}

func parse(token string, secret []byte) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", mapJWTError(err)
	}

	if claims.Subject == "" {
		return "", entity.ErrInvalidToken
	}

	return claims.Subject, nil
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: expired", entity.ErrInvalidToken)
	}
	return fmt.Errorf("%w: %s", entity.ErrInvalidToken, err)
}
