package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
)

type Claims struct {
	Role value.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) UserID() string {
	return c.Subject
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *TokenIssuer) Issue(user entity.User) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token.SignedString: %w", err)
	}

	return signed, expiresAt, nil
}

func (t *TokenIssuer) Parse(token string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, domain.WrapError(err, errcodes.AccessTokenExpired, "access token expired")
	case err != nil:
		return Claims{}, domain.WrapError(err, errcodes.AccessTokenInvalid, "access token is invalid")
	case claims.Subject == "":
		return Claims{}, domain.NewError(errcodes.AccessTokenInvalid, "access token has no subject")
	}

	return claims, nil
}
