package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskflow/config"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, expired, malformed, or signed with the wrong secret.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// TokenIssuer creates and verifies the access/refresh token pair. Access and
// refresh tokens are signed with distinct secrets so one can never stand in
// for the other. The issuer is stateless: refreshing does not invalidate the
// previously issued refresh token.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
	}
}

// Issue produces a fresh access/refresh pair for the given user.
func (ti *TokenIssuer) Issue(userID uint) (string, string, error) {
	accessToken, err := ti.sign(userID, ti.accessSecret, ti.accessExpiry)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := ti.sign(userID, ti.refreshSecret, ti.refreshExpiry)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// VerifyAccess validates an access token and returns the user it asserts.
func (ti *TokenIssuer) VerifyAccess(tokenString string) (uint, error) {
	claims, err := ti.parse(tokenString, ti.accessSecret)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// Refresh validates a refresh token against the refresh secret and issues a
// new pair for the same user.
func (ti *TokenIssuer) Refresh(tokenString string) (string, string, error) {
	claims, err := ti.parse(tokenString, ti.refreshSecret)
	if err != nil {
		return "", "", err
	}
	return ti.Issue(claims.UserID)
}

func (ti *TokenIssuer) sign(userID uint, secret []byte, expiry time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (ti *TokenIssuer) parse(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
