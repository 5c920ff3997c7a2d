package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/listinghub/listinghub/internal/trust"
)

const minPasswordLength = 8

// Service manages identity lifecycle.
type Service struct {
	repo   Repository
	now    func() time.Time
	admins map[string]struct{}
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return NewServiceWithClock(repo, time.Now)
}

// NewServiceWithClock creates a service with an injected clock.
func NewServiceWithClock(repo Repository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now, admins: map[string]struct{}{}}
}

// WithAdmins marks the given emails as administrators at registration.
func (s *Service) WithAdmins(emails []string) *Service {
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			s.admins[e] = struct{}{}
		}
	}
	return s
}

// Register creates a new unverified user with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	email := normalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, errors.New("a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return User{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	userType, err := parseUserType(input.UserType)
	if err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Type:         userType,
		Role:         s.roleFor(email),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies credentials and stamps the login time.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.TouchLogin(ctx, user.ID, now); err != nil {
		return User{}, err
	}
	user.LastLogin = &now

	return user, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// GrantPremium starts or extends a purchased premium period.
func (s *Service) GrantPremium(ctx context.Context, id string, until time.Time) (User, error) {
	if !until.After(s.now()) {
		return User{}, ErrPremiumInPast
	}
	if err := s.repo.UpdatePremium(ctx, id, &until); err != nil {
		return User{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// RevokePremium ends a premium period immediately.
func (s *Service) RevokePremium(ctx context.Context, id string) (User, error) {
	if err := s.repo.UpdatePremium(ctx, id, nil); err != nil {
		return User{}, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) roleFor(email string) Role {
	if _, ok := s.admins[email]; ok {
		return RoleAdmin
	}
	return RoleUser
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseUserType(v string) (trust.UserType, error) {
	raw := strings.ToLower(strings.TrimSpace(v))
	if raw == "" {
		return trust.UserTypeIndividual, nil
	}
	if t := trust.ParseUserType(raw); string(t) == raw {
		return t, nil
	}
	return "", fmt.Errorf("unknown user type %q", v)
}
