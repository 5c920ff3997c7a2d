package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/listinghub/listinghub/internal/identity"
	"github.com/listinghub/listinghub/internal/notification"
)

var (
	// ErrRejected is returned when the provider declines a submission.
	ErrRejected = errors.New("verification rejected")
	// ErrPhoneMissing is returned when confirming a phone the user never gave.
	ErrPhoneMissing = errors.New("no phone number on file")
)

// UserStore is the slice of the identity repository verification needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (identity.User, error)
	UpdateVerification(ctx context.Context, id string, v identity.Verification) error
}

// Service updates verification flags after each check.
type Service struct {
	users    UserStore
	provider Provider
	notifier notification.Notifier
}

// NewService builds a verification service. A nil provider falls back to
// StaticProvider.
func NewService(users UserStore, provider Provider, notifier notification.Notifier) *Service {
	if provider == nil {
		provider = StaticProvider{}
	}
	return &Service{users: users, provider: provider, notifier: notifier}
}

// Result is the user's verification state after a step, plus the provider
// decision when one was involved.
type Result struct {
	Verification identity.Verification
	Decision     *Decision
}

// ConfirmEmail marks the user's email as verified.
func (s *Service) ConfirmEmail(ctx context.Context, userID string) (Result, error) {
	return s.apply(ctx, userID, "email", nil, func(v *identity.Verification) { v.Email = true })
}

// ConfirmPhone marks the user's phone as verified.
func (s *Service) ConfirmPhone(ctx context.Context, userID string) (Result, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(user.Phone) == "" {
		return Result{}, ErrPhoneMissing
	}
	return s.apply(ctx, userID, "phone", nil, func(v *identity.Verification) { v.Phone = true })
}

// SubmitDocument sends an identity document to the provider.
func (s *Service) SubmitDocument(ctx context.Context, userID string, doc DocumentSubmission) (Result, error) {
	decision, err := s.provider.CheckDocument(ctx, doc)
	if err != nil {
		return Result{}, err
	}
	if !decision.Approved() {
		return Result{Decision: &decision}, fmt.Errorf("%w: %s", ErrRejected, decision.Reason)
	}
	return s.apply(ctx, userID, "identity document", &decision, func(v *identity.Verification) { v.IdentityDocument = true })
}

// SubmitAddress sends a proof of address to the provider.
func (s *Service) SubmitAddress(ctx context.Context, userID string, addr AddressSubmission) (Result, error) {
	decision, err := s.provider.CheckAddress(ctx, addr)
	if err != nil {
		return Result{}, err
	}
	if !decision.Approved() {
		return Result{Decision: &decision}, fmt.Errorf("%w: %s", ErrRejected, decision.Reason)
	}
	return s.apply(ctx, userID, "address", &decision, func(v *identity.Verification) { v.AddressProof = true })
}

func (s *Service) apply(ctx context.Context, userID, step string, decision *Decision, mutate func(*identity.Verification)) (Result, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	v := user.Verification
	mutate(&v)
	v = v.WithAggregate()
	if err := s.users.UpdateVerification(ctx, userID, v); err != nil {
		return Result{}, err
	}

	if s.notifier != nil {
		body := fmt.Sprintf("Your %s is verified", step)
		if v.Verified && !user.Verification.Verified {
			body += ". Your identity is now fully verified"
		}
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindVerificationUpdated,
			Destination: userID,
			Body:        body,
		})
	}
	return Result{Verification: v, Decision: decision}, nil
}
