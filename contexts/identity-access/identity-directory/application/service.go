package application

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainerrors "placerly/contexts/identity-access/identity-directory/domain/errors"
	"placerly/contexts/identity-access/identity-directory/ports"
)

// Service is the account directory: lookups plus just-in-time provisioning
// of executor accounts. Registration, password reset and OTP flows live in
// the external authentication system.
type Service struct {
	Repo        ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (s Service) GetAccount(ctx context.Context, userID string) (ports.Account, error) {
	if strings.TrimSpace(userID) == "" {
		return ports.Account{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.FindByID(ctx, strings.TrimSpace(userID))
}

func (s Service) GetAccountByEmail(ctx context.Context, email string) (ports.Account, bool, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return ports.Account{}, false, err
	}
	return s.Repo.FindByEmail(ctx, normalized)
}

func (s Service) ProvisionAccount(ctx context.Context, input ports.NewAccountInput) (ports.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.Account{}, domainerrors.ErrInvalidRequest
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return ports.Account{}, err
	}
	role := strings.TrimSpace(input.Role)
	if !ports.IsValidRole(role) {
		return ports.Account{}, domainerrors.ErrInvalidRequest
	}

	if _, exists, err := s.Repo.FindByEmail(ctx, email); err != nil {
		return ports.Account{}, err
	} else if exists {
		return ports.Account{}, domainerrors.ErrEmailTaken
	}

	// Only the bcrypt digest is persisted; the raw credential stays with
	// the caller for one-time delivery to the account holder.
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return ports.Account{}, err
	}

	userID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.Account{}, err
	}
	now := s.now()
	account := ports.Account{
		UserID:       userID,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: string(hash),
		Role:         role,
		Status:       ports.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, account); err != nil {
		return ports.Account{}, err
	}

	resolveLogger(s.Logger).Info("account provisioned",
		"event", "identity_account_provisioned",
		"module", "identity-access/identity-directory",
		"layer", "application",
		"user_id", userID,
		"role", role,
	)
	return account, nil
}

func (s Service) AppendDelegation(ctx context.Context, userID string, delegationID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(delegationID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	return s.Repo.AppendDelegation(ctx, strings.TrimSpace(userID), strings.TrimSpace(delegationID), s.now())
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", domainerrors.ErrInvalidRequest
	}
	normalized := strings.ToLower(strings.TrimSpace(addr.Address))
	if normalized == "" {
		return "", domainerrors.ErrInvalidRequest
	}
	return normalized, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
