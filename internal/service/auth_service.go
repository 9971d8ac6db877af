package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"taskmanager/internal/domain"
	"taskmanager/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxNameLength     = 255
	maxEmailLength    = 255
)

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService struct {
	users   UserStore
	revoker TokenRevoker
	audit   *AuditService
}

func NewAuthService(users UserStore, revoker TokenRevoker, audit *AuditService) *AuthService {
	return &AuthService{users: users, revoker: revoker, audit: audit}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	v := domain.ValidationErrors{}
	name = validateName(v, name)
	email = validateEmail(v, email)
	if utf8.RuneCountInString(password) < minPasswordLength {
		v.Add("password", "min")
	}
	if err := v.Err("user"); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login checks the credentials. Unknown email and wrong password are
// reported the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	s.audit.LogLogin(ctx, user.ID)
	return s.issue(user)
}

// Logout revokes the token described by claims.
func (s *AuthService) Logout(ctx context.Context, claims TokenClaims) error {
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return err
	}
	s.audit.LogLogout(ctx, claims.UserID)
	return nil
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := ParseJWT(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		// revocation store unavailable: fail open like the rate limiter
		logger.Warn("token revocation check failed", "error", err)
		return claims, nil
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, _, err := GenerateJWT(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func validateName(v domain.ValidationErrors, name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		v.Add("name", "required")
	case utf8.RuneCountInString(name) > maxNameLength:
		v.Add("name", "max")
	}
	return name
}

func validateEmail(v domain.ValidationErrors, email string) string {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		v.Add("email", "required")
	case len(email) > maxEmailLength:
		v.Add("email", "max")
	default:
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			v.Add("email", "email")
		}
	}
	return email
}
