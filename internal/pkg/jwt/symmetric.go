package jwt

import (
	"errors"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric implements JWT signing and verification using an HMAC secret.
type Symmetric struct {
	secret    []byte
	method    *libJWT.SigningMethodHMAC
	issuer    string
	audiences []string
	ttl       time.Duration
	clock     clocker
	uuid      generator
}

// NewHS256 constructs a Symmetric JWT implementation using HS256.
//
// It fails with ErrSecretRequired when cfg.Secret is empty, which callers
// treat as a startup precondition.
func NewHS256(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretRequired
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Symmetric{
		secret:    cfg.Secret,
		method:    libJWT.SigningMethodHS256,
		issuer:    cfg.Issuer,
		audiences: cfg.Audiences,
		ttl:       ttl,
		clock:     cfg.Clock,
		uuid:      cfg.UUID,
	}, nil
}

// Generate creates a signed JWT for the user. Every token carries a random
// jti, so two tokens minted within the same second still differ.
func (s *Symmetric) Generate(uid int64, email string) (string, error) {
	now := s.clock.Now()

	claims := Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.uuid.Generate(),
			Subject:   strconv.FormatInt(uid, 10),
			Issuer:    s.issuer,
			Audience:  s.audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: uid,
		Email:  email,
	}

	return libJWT.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify parses and validates a JWT string.
func (s *Symmetric) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{s.method.Alg()}),
		libJWT.WithTimeFunc(s.clock.Now),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, libJWT.WithIssuer(s.issuer))
	}
	if len(s.audiences) > 0 {
		opts = append(opts, libJWT.WithAudience(s.audiences...))
	}

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != s.method {
				return nil, ErrInvalidSigningMethod
			}
			return s.secret, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
