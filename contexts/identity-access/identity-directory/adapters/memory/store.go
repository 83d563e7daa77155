package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "placerly/contexts/identity-access/identity-directory/domain/errors"
	"placerly/contexts/identity-access/identity-directory/ports"
)

type Store struct {
	mu            sync.RWMutex
	accountsByID  map[string]ports.Account
	userIDByEmail map[string]string
	sequence      uint64
}

// NewStore seeds a couple of active principals so local runs and tests can
// exercise the delegation flow without the external registration system.
func NewStore() *Store {
	now := time.Now().UTC()
	accounts := []ports.Account{
		{
			UserID:    "user_principal_1",
			Name:      "Avery Whitfield",
			Email:     "avery@example.com",
			Phone:     "5550100",
			Role:      ports.RoleUser,
			Status:    ports.StatusActive,
			CreatedAt: now.Add(-30 * 24 * time.Hour),
			UpdatedAt: now.Add(-30 * 24 * time.Hour),
		},
		{
			UserID:    "user_principal_2",
			Name:      "Morgan Leal",
			Email:     "morgan@example.com",
			Phone:     "5550101",
			Role:      ports.RoleUser,
			Status:    ports.StatusActive,
			CreatedAt: now.Add(-14 * 24 * time.Hour),
			UpdatedAt: now.Add(-14 * 24 * time.Hour),
		},
	}

	store := &Store{
		accountsByID:  make(map[string]ports.Account, len(accounts)),
		userIDByEmail: make(map[string]string, len(accounts)),
	}
	for _, account := range accounts {
		store.accountsByID[account.UserID] = account
		store.userIDByEmail[account.Email] = account.UserID
	}
	return store
}

func (s *Store) FindByID(ctx context.Context, userID string) (ports.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accountsByID[strings.TrimSpace(userID)]
	if !ok {
		return ports.Account{}, domainerrors.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (ports.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.userIDByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return ports.Account{}, false, nil
	}
	account, ok := s.accountsByID[userID]
	if !ok {
		return ports.Account{}, false, nil
	}
	return cloneAccount(account), true, nil
}

func (s *Store) Create(ctx context.Context, account ports.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(account.Email))
	if _, exists := s.userIDByEmail[email]; exists {
		return domainerrors.ErrEmailTaken
	}
	s.accountsByID[account.UserID] = cloneAccount(account)
	s.userIDByEmail[email] = account.UserID
	return nil
}

func (s *Store) AppendDelegation(ctx context.Context, userID string, delegationID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accountsByID[userID]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	for _, existing := range account.Delegations {
		if existing == delegationID {
			return nil
		}
	}
	account.Delegations = append(account.Delegations, delegationID)
	account.UpdatedAt = now.UTC()
	s.accountsByID[userID] = account
	return nil
}

func (s *Store) NewID(ctx context.Context) (string, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("user_%d", n), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func cloneAccount(in ports.Account) ports.Account {
	out := in
	out.Delegations = append([]string(nil), in.Delegations...)
	return out
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
