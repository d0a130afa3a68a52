package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/redis"
	"whatsapp_dashboard/internal/repository"
)

type SessionStore interface {
	SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

type authService struct {
	users    repository.UserRepository
	sessions SessionStore
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(users repository.UserRepository, sessions SessionStore, ttl time.Duration) AuthService {
	return &authService{users: users, sessions: sessions, ttl: ttl, now: time.Now}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !passwordMatches(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	now := s.now()
	if user.SubscriptionExpiresAt != nil && dateBefore(*user.SubscriptionExpiresAt, now) {
		return nil, ErrSubscriptionExpired
	}

	owner := user.Owner()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    owner.UserID,
		ClientID:  owner.ClientID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.SetSession(ctx, session, s.ttl); err != nil {
		return nil, err
	}

	user.ClientID = owner.ClientID
	user.Password = ""
	return &LoginResult{Token: session.Token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	session, err := s.sessions.GetSession(ctx, token)
	if errors.Is(err, redis.ErrSessionNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// passwordMatches accepts bcrypt hashes and, for rows created before hashing was introduced, plaintext.
func passwordMatches(stored, given string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// dateBefore compares calendar dates, each read in its own location. Expiry dates carry no zone.
func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Before(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC))
}
