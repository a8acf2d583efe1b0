package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go-boutique-store/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"

	// SharedSubject names the single identity behind a shared secret.
	SharedSubject = "admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfigured      = errors.New("admin password is not configured")
	ErrAccountExists      = errors.New("account already exists")
)

// Principal is who a successful credential check identified.
type Principal struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// Authenticator checks a login attempt.
type Authenticator interface {
	Authenticate(ctx context.Context, identity, password string) (Principal, error)
}

// SharedSecret compares against one admin password. A value that looks
// like a bcrypt hash is checked with bcrypt, anything else in constant time.
type SharedSecret struct {
	secret string
}

func NewSharedSecret(secret string) *SharedSecret {
	return &SharedSecret{secret: secret}
}

func (s *SharedSecret) Authenticate(_ context.Context, _, password string) (Principal, error) {
	if s.secret == "" {
		return Principal{}, ErrNotConfigured
	}
	if isBcrypt(s.secret) {
		if bcrypt.CompareHashAndPassword([]byte(s.secret), []byte(password)) != nil {
			return Principal{}, ErrInvalidCredentials
		}
	} else if subtle.ConstantTimeCompare([]byte(s.secret), []byte(password)) != 1 {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Subject: SharedSubject, Role: RoleAdmin}, nil
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Accounts checks email and password against the users table.
type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

func (a *Accounts) Authenticate(ctx context.Context, email, password string) (Principal, error) {
	var user models.User
	err := a.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return Principal{}, fmt.Errorf("lookup account: %w", err)
	}

	// This compares the input password with the hash from DB
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Subject: user.Email, Role: user.Role}, nil
}

// Register creates an account with a bcrypt-hashed password.
func (a *Accounts) Register(ctx context.Context, email, password, role string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	if role == "" {
		role = RoleAdmin
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	var existing int64
	if err := a.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return models.User{}, fmt.Errorf("lookup account: %w", err)
	}
	if existing > 0 {
		return models.User{}, ErrAccountExists
	}

	user := models.User{Email: email, PasswordHash: string(hash), Role: role}
	if err := a.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("create account: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
