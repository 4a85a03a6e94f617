package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

type TokenConfig struct {
	Secret string
	TTL    time.Duration
	// RefreshWindow bounds how long after expiry a token may still be
	// exchanged for a new one.
	RefreshWindow time.Duration
}

type Tokens struct {
	secret        []byte
	ttl           time.Duration
	refreshWindow time.Duration
	now           func() time.Time
}

func NewTokens(cfg TokenConfig) *Tokens {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	if cfg.RefreshWindow < 0 {
		cfg.RefreshWindow = 0
	}
	return &Tokens{
		secret:        []byte(cfg.Secret),
		ttl:           cfg.TTL,
		refreshWindow: cfg.RefreshWindow,
		now:           time.Now,
	}
}

// Issue signs an HS256 access token with the user id as subject.
func (t *Tokens) Issue(userID string) (Token, error) {
	now := t.now().UTC()
	exp := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, TokenType: "bearer", ExpiresAt: exp}, nil
}

// Parse validates signature and expiry and returns the subject.
func (t *Tokens) Parse(raw string) (string, error) {
	claims, err := t.parse(raw, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// ParseForRefresh accepts expired tokens within the refresh window.
func (t *Tokens) ParseForRefresh(raw string) (string, error) {
	claims, err := t.parse(raw, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return "", ErrInvalidToken
	}
	if t.now().After(claims.ExpiresAt.Add(t.refreshWindow)) {
		return "", ErrTokenExpired
	}
	return claims.Subject, nil
}

func (t *Tokens) parse(raw string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
