// Package auth validates credentials and mints/verifies the bearer
// tokens that carry the caller's identity between requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"notes-api/store"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password, so the login response cannot be used to enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenExpired   = errors.New("token expired")
	ErrInvalidToken   = errors.New("invalid token")
	ErrMalformedToken = errors.New("malformed token")
)

// Claims carries a single identity field alongside the registered set.
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	users    store.UserStore
	secret   []byte
	tokenTTL time.Duration
}

func New(users store.UserStore, secret []byte, tokenTTL time.Duration) *Authenticator {
	return &Authenticator{users: users, secret: secret, tokenTTL: tokenTTL}
}

// Validate checks the credentials and returns a signed token plus the
// authenticated user's id. Token issuance is stateless; nothing is
// stored server-side.
func (a *Authenticator) Validate(ctx context.Context, username, password string) (string, int, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", 0, ErrInvalidCredentials
	}

	token, err := a.mintToken(user.ID)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return token, user.ID, nil
}

func (a *Authenticator) mintToken(userID int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ExtractIdentity verifies the token and returns the subject user id.
// Failures are classified for diagnostics; callers collapse them all
// into a single unauthenticated response.
func (a *Authenticator) ExtractIdentity(tokenStr string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidToken
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	if claims.UserID <= 0 {
		return 0, ErrMalformedToken
	}
	return claims.UserID, nil
}
