package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridloal/e-commerce-storefront/internal/platform/clock"
	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-storefront/internal/platform/storage"
	"github.com/ridloal/e-commerce-storefront/internal/user/domain"
	"github.com/ridloal/e-commerce-storefront/internal/user/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingCredentials = errors.New("Email and password are required")
	ErrMissingFields      = errors.New("All fields are required")
	ErrUserExists         = errors.New("User with this email already exists")
	ErrInvalidCredentials = errors.New("Invalid email or password")
)

const avatarURLFormat = "https://ui-avatars.com/api/?name=%s&background=9b87f5&color=fff"

var hashCost = bcrypt.DefaultCost

// AuthStore simulates an account backend on top of local storage. Login and
// Register wait a configurable delay first; cancelling ctx during the wait
// aborts without touching any state.
type AuthStore interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error

	CurrentUser() *domain.User
	IsAuthenticated() bool
}

type authStore struct {
	mu      sync.RWMutex
	repo    repository.UserRepository
	clock   clock.Clock
	delay   time.Duration
	current *domain.User
}

// NewAuthStore restores the signed-in user, if any. An unreadable record is
// treated as signed out.
func NewAuthStore(ctx context.Context, repo repository.UserRepository, clk clock.Clock, delay time.Duration) (AuthStore, error) {
	current, err := repo.LoadCurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptValue) {
			return nil, err
		}
		logger.Warn("Auth: discarding unreadable current user")
		current = nil
	}
	return &authStore{repo: repo, clock: clk, delay: delay, current: current}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func avatarURL(name string) string {
	return fmt.Sprintf(avatarURLFormat, url.PathEscape(name))
}

// loadUsers reads the registered users; a corrupt list counts as empty.
func (s *authStore) loadUsers(ctx context.Context) ([]domain.StoredUser, error) {
	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptValue) {
			return nil, err
		}
		logger.Warn("Auth: ignoring unreadable users list")
		return []domain.StoredUser{}, nil
	}
	return users, nil
}

func findByEmail(users []domain.StoredUser, email string) (domain.StoredUser, bool) {
	for _, u := range users {
		if normalizeEmail(u.Email) == email {
			return u, true
		}
	}
	return domain.StoredUser{}, false
}

// signIn persists user as the current user and, on success, publishes it. Callers hold mu.
func (s *authStore) signIn(ctx context.Context, user domain.User) error {
	if err := s.repo.SaveCurrentUser(ctx, user); err != nil {
		return fmt.Errorf("could not save session: %w", err)
	}
	s.current = &user
	return nil
}

func (s *authStore) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if err := s.clock.Sleep(ctx, s.delay); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		logger.Error("Login: failed to load users", err)
		return nil, err
	}
	stored, ok := findByEmail(users, email)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.signIn(ctx, stored.User); err != nil {
		logger.Error("Login: failed to persist current user", err)
		return nil, err
	}
	logger.Info("Auth: user %s logged in", stored.ID)
	user := stored.User
	return &user, nil
}

func (s *authStore) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if err := s.clock.Sleep(ctx, s.delay); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		logger.Error("Register: failed to load users", err)
		return nil, err
	}
	if _, exists := findByEmail(users, email); exists {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		logger.Error("Register: failed to hash password", err)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	user := domain.User{
		ID:     "user-" + uuid.NewString(),
		Name:   name,
		Email:  email,
		Avatar: avatarURL(name),
	}
	next := append(append(make([]domain.StoredUser, 0, len(users)+1), users...),
		domain.StoredUser{User: user, PasswordHash: string(hashed)})
	if err := s.repo.SaveUsers(ctx, next); err != nil {
		logger.Error("Register: failed to persist users", err)
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	if err := s.signIn(ctx, user); err != nil {
		logger.Error("Register: failed to persist current user", err)
		return nil, err
	}
	logger.Info("Auth: registered user %s", user.ID)
	return &user, nil
}

func (s *authStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.ClearCurrentUser(ctx); err != nil {
		return fmt.Errorf("could not clear session: %w", err)
	}
	s.current = nil
	return nil
}

func (s *authStore) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

func (s *authStore) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}
