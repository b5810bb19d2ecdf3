package projects

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/studydesk/internal/store"
)

const (
	MinUsernameLength = 4
	MaxUsernameLength = 20
)

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// ProfileUpdate changes the fields that are set.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *store.User `json:"user"`
}

// Register creates a user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*store.User, error) {
	username := strings.TrimSpace(in.Username)
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return nil, fmt.Errorf("%w: username must be %d to %d characters", ErrInvalidInput, MinUsernameLength, MaxUsernameLength)
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	taken, err := s.repo.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username %q is taken", ErrInvalidInput, username)
	}
	if err := s.checkEmail(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &store.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", u.ID, "username", username)
	return u, nil
}

// Authenticate checks the password and issues a login token.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.repo.UserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login rejected", "username", u.Username)
		return nil, ErrUnauthenticated
	}
	token, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// UserFromToken verifies a login token and loads its user.
func (s *Service) UserFromToken(ctx context.Context, token string) (*store.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.User(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
	}
	return u, err
}

func (s *Service) User(ctx context.Context, id uint) (*store.User, error) {
	return s.repo.User(ctx, id)
}

func (s *Service) UserByUsername(ctx context.Context, username string) (*store.User, error) {
	return s.repo.UserByUsername(ctx, strings.TrimSpace(username))
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, up ProfileUpdate) (*store.User, error) {
	u, err := s.repo.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	if up.Email != nil {
		email, err := normalizeEmail(*up.Email)
		if err != nil {
			return nil, err
		}
		if err := s.checkEmail(ctx, email, u.ID); err != nil {
			return nil, err
		}
		u.Email = email
	}
	if up.FirstName != nil {
		u.FirstName = strings.TrimSpace(*up.FirstName)
	}
	if up.LastName != nil {
		u.LastName = strings.TrimSpace(*up.LastName)
	}
	if up.Phone != nil {
		u.Phone = strings.TrimSpace(*up.Phone)
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// RecordActivity stores one authenticated request of a user.
func (s *Service) RecordActivity(ctx context.Context, a *store.UserActivity) error {
	if a.UserID == 0 {
		return fmt.Errorf("%w: activity without user", ErrInvalidInput)
	}
	return s.repo.AppendActivity(ctx, a)
}

// Activity returns the most recent activity of a user, newest first.
func (s *Service) Activity(ctx context.Context, userID uint, limit int) ([]store.UserActivity, error) {
	return s.repo.ListActivity(ctx, userID, limit)
}

func (s *Service) checkEmail(ctx context.Context, email string, exceptID uint) error {
	taken, err := s.repo.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: email is already in use", ErrInvalidInput)
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: invalid email %q", ErrInvalidInput, raw)
	}
	return strings.ToLower(addr.Address), nil
}
