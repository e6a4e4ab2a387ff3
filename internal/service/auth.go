// Package service holds the business logic of the application: credentials and
// sessions, the vocabulary store with its extension mirror, the extension-side
// word list and the quiz. Persistence is reached through repository interfaces.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a login stays valid when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	// Create inserts the user, returning false if the username is taken.
	Create(ctx context.Context, user *models.User) (bool, error)
	// GetByUsername loads a user by login name.
	GetByUsername(ctx context.Context, username string) (*models.User, bool, error)
	// GetByID loads a user by id.
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
	// UpdateSettings overwrites the non-empty profile fields.
	UpdateSettings(ctx context.Context, id int64, s models.Settings) (bool, error)
}

// SessionRepository stores bearer-token sessions.
type SessionRepository interface {
	Create(ctx context.Context, s models.Session) error
	Lookup(ctx context.Context, token string, now time.Time) (int64, bool, error)
	Delete(ctx context.Context, token string) error
}

// PasswordHasher turns passwords into opaque verification tokens.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// BcryptHasher is a PasswordHasher backed by bcrypt.
type BcryptHasher struct {
	Cost int
}

// Hash returns the bcrypt hash of password.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether password matches hash.
func (h BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthService implements registration, login and sessions.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	ttl      time.Duration

	now      func() time.Time
	newToken func() string
}

// NewAuthService constructs an AuthService. A non-positive ttl falls back to DefaultSessionTTL.
func NewAuthService(users UserRepository, sessions SessionRepository, hasher PasswordHasher, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		ttl:      ttl,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Register creates a user with the default profile. The boolean is false when the
// username is already taken; in that case nothing is written.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, models.ErrEmptyUsername
	}
	if strings.TrimSpace(password) == "" {
		return nil, false, models.ErrEmptyPassword
	}
	if len(password) > 72 {
		return nil, false, models.ErrLongPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:       username,
		PasswordHash:   hash,
		NativeLanguage: models.DefaultNativeLanguage,
		TargetLanguage: models.DefaultTargetLanguage,
		Proficiency:    models.DefaultProficiency,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil || !created {
		return nil, false, err
	}
	return user, true, nil
}

// Authenticate checks the credentials. An unknown user and a wrong password
// both yield ok=false.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, bool, error) {
	user, found, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil || !found {
		return nil, false, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, false, nil
	}
	return user, true, nil
}

// StartSession issues a fresh token for the user.
func (s *AuthService) StartSession(ctx context.Context, userID int64) (models.Session, error) {
	session := models.Session{
		Token:     s.newToken(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// ResolveSession returns the user bound to a live token.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (int64, bool, error) {
	if token == "" {
		return 0, false, nil
	}
	return s.sessions.Lookup(ctx, token, s.now())
}

// Logout ends the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// GetUser loads the profile of the user.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, bool, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateSettings applies the non-empty fields of settings and returns the updated profile.
func (s *AuthService) UpdateSettings(ctx context.Context, id int64, settings models.Settings) (*models.User, bool, error) {
	settings = models.Settings{
		NativeLanguage: strings.TrimSpace(settings.NativeLanguage),
		TargetLanguage: strings.TrimSpace(settings.TargetLanguage),
		Proficiency:    strings.TrimSpace(settings.Proficiency),
	}
	ok, err := s.users.UpdateSettings(ctx, id, settings)
	if err != nil || !ok {
		return nil, false, err
	}
	return s.users.GetByID(ctx, id)
}
