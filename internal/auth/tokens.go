package auth

import (
	"crypto/rand"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token signed out")
)

// Claims defines what is inside the token (The "ID Card")
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and checks admin session tokens. Signed-out token ids are
// remembered until they would have expired anyway.
type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewTokens uses secret as the HMAC key. With an empty secret a random key
// is generated, so tokens do not survive a restart.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(err)
		}
		log.Println("⚠️ JWT_SECRET not set, using a random signing key")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{key: key, ttl: ttl, now: time.Now, revoked: make(map[string]time.Time)}
}

// Issue creates a signed token for subject.
func (t *Tokens) Issue(subject, role string) (string, *Claims, error) {
	now := t.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Validate checks if a token is fake, expired or signed out.
func (t *Tokens) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.revoked[claims.ID]; ok {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Revoke signs the token with claims out.
func (t *Tokens) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	exp := t.now().Add(t.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for id, until := range t.revoked {
		if until.Before(now) {
			delete(t.revoked, id)
		}
	}
	t.revoked[claims.ID] = exp
}
