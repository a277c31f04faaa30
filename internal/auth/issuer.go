package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mintgate/merchant-gateway/internal/model"
)

// TokenPair is a matched access/refresh pair issued for one principal.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// ErrInvalidToken is returned by the verify helpers for any signature,
// format or claim-shape failure. Expiry is reported separately via
// ErrTokenExpired so callers can surface it as a distinct 401.
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenExpired is returned when a token is well-formed and correctly
// signed but past its expiry.
var ErrTokenExpired = errors.New("token expired")

// Issuer mints HS256 access/refresh token pairs. Access and refresh tokens
// are signed with distinct secrets so the blast radius of a leaked
// access-token secret stays bounded. The refresh token is persisted onto
// the principal row, overwriting any prior value: exactly one refresh token
// is valid per principal at a time.
type Issuer struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Stores        Stores
}

// NewIssuer builds an Issuer from TTLs expressed the way the config
// carries them (minutes for access, days for refresh).
func NewIssuer(accessSecret, refreshSecret string, accessTTLMin, refreshTTLDays int, stores Stores) *Issuer {
	return &Issuer{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     time.Duration(accessTTLMin) * time.Minute,
		RefreshTTL:    time.Duration(refreshTTLDays) * 24 * time.Hour,
		Stores:        stores,
	}
}

// Issue signs a token pair for the principal and persists the refresh
// token. On success the returned refresh token and the persisted value are
// guaranteed to agree; on any failure nothing usable is returned.
func (i *Issuer) Issue(ctx context.Context, p model.Principal) (TokenPair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(i.AccessTTL)
	refreshExp := now.Add(i.RefreshTTL)

	access, err := signToken(i.AccessSecret, jwt.MapClaims{
		"sub":       p.ID(),
		"role":      p.Role(),
		"email":     p.Email(),
		"name":      p.Name(),
		"tokenType": "access",
		"exp":       accessExp.Unix(),
		"iat":       now.Unix(),
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := signToken(i.RefreshSecret, jwt.MapClaims{
		"sub":       p.ID(),
		"tokenType": "refresh",
		"exp":       refreshExp.Unix(),
		"iat":       now.Unix(),
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := i.Stores.SetRefreshToken(ctx, p, refresh); err != nil {
		return TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// VerifyAccess validates an access token and returns its subject id and
// role claim. Expired tokens map to ErrTokenExpired, everything else to
// ErrInvalidToken; the underlying cause never reaches the client.
func (i *Issuer) VerifyAccess(raw string) (id, role string, err error) {
	claims, err := parseToken(i.AccessSecret, raw)
	if err != nil {
		return "", "", err
	}
	id, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if id == "" {
		return "", "", ErrInvalidToken
	}
	return id, role, nil
}

// VerifyRefresh validates a refresh token and returns its subject id. The
// tokenType claim must be "refresh" so an access token can never be
// replayed against the refresh endpoint.
func (i *Issuer) VerifyRefresh(raw string) (string, error) {
	claims, err := parseToken(i.RefreshSecret, raw)
	if err != nil {
		return "", err
	}
	if t, _ := claims["tokenType"].(string); t != "refresh" {
		return "", ErrInvalidToken
	}
	id, _ := claims["sub"].(string)
	if id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}

func signToken(secret string, claims jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

func parseToken(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
