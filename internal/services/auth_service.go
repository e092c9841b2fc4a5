package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"petcare/internal/domain"
	"petcare/internal/validate"
)

var ErrBadCreds = errors.New("invalid username or password")

type SignupInput struct {
	Username string
	Email    string
	Phone    string
	Password string
	Confirm  string
}

type AuthService struct {
	Users UserStore
	now   func() time.Time
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{Users: users, now: time.Now}
}

// Signup creates the account and its profile, then logs the session in.
func (s *AuthService) Signup(ctx context.Context, sid string, in SignupInput) (*domain.User, error) {
	username, ok := validate.Username(in.Username)
	if !ok {
		return nil, domain.Invalid("username", "150 characters or fewer; letters, digits and @/./+/-/_ only")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return nil, domain.Invalid("email", "enter a valid email address")
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		return nil, domain.Invalid("phone_number", "enter a valid phone number")
	}
	if !validate.Password(in.Password) {
		return nil, domain.Invalid("password", "8-64 characters with upper and lower case letters, a digit and a symbol")
	}
	if in.Password != in.Confirm {
		return nil, domain.Invalid("password2", "the two passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    strings.ToLower(email),
		Hash:     string(hash),
		Role:     domain.RoleUser,
	}
	p := domain.Profile{UserID: u.ID, Phone: phone, CreatedAt: domain.Stamp(s.now())}
	if err := s.Users.CreateWithProfile(ctx, u, p); err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, fmt.Errorf("bind session: %w", err)
	}
	return &u, nil
}

func (s *AuthService) Login(ctx context.Context, sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	return s.Users.SessionUser(ctx, sid)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Users.List(ctx)
}

// DeleteUser removes the account with everything it owns.
func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	return s.Users.DeleteUserCascade(ctx, userID)
}
