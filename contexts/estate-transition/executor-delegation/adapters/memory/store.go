package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domainerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	"placerly/contexts/estate-transition/executor-delegation/ports"
)

// Store is an in-memory Repository used by tests and local runs. All state
// transitions happen under the write lock, which gives the same
// exactly-one-winner guarantee the postgres adapter gets from conditional
// updates.
type Store struct {
	mu       sync.RWMutex
	records  map[string]ports.DelegationRecord
	sequence uint64
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]ports.DelegationRecord),
	}
}

func (s *Store) Create(ctx context.Context, record ports.DelegationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(record.DelegationID) == "" || strings.TrimSpace(record.OwnerID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	s.records[record.DelegationID] = cloneRecord(record)
	return nil
}

func (s *Store) AttachToken(ctx context.Context, delegationID string, token string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[delegationID]
	if !ok {
		return domainerrors.ErrExecutorNotFound
	}
	record.InviteToken = &token
	record.UpdatedAt = now.UTC()
	s.records[delegationID] = record
	return nil
}

func (s *Store) FindByID(ctx context.Context, delegationID string) (ports.DelegationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[strings.TrimSpace(delegationID)]
	if !ok {
		return ports.DelegationRecord{}, domainerrors.ErrExecutorNotFound
	}
	return cloneRecord(record), nil
}

func (s *Store) FindByOwner(ctx context.Context, ownerID string, filter ports.DelegationFilter) ([]ports.DelegationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.DelegationRecord, 0)
	for _, record := range s.records {
		if record.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(record.Name), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, cloneRecord(record))
	}
	sort.Slice(items, func(i int, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) FindApprovedByEmail(ctx context.Context, email string) (ports.DelegationRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best ports.DelegationRecord
	found := false
	for _, record := range s.records {
		if record.Status != ports.StatusApproved {
			continue
		}
		if !strings.EqualFold(record.Email, strings.TrimSpace(email)) {
			continue
		}
		// Most recently approved wins; id breaks exact ties so the pick
		// stays deterministic.
		if !found ||
			record.UpdatedAt.After(best.UpdatedAt) ||
			(record.UpdatedAt.Equal(best.UpdatedAt) && record.DelegationID > best.DelegationID) {
			best = record
			found = true
		}
	}
	if !found {
		return ports.DelegationRecord{}, false, nil
	}
	return cloneRecord(best), true, nil
}

func (s *Store) TransitionToApproved(ctx context.Context, delegationID string, executorUserID string, now time.Time) (ports.DelegationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[delegationID]
	if !ok {
		return ports.DelegationRecord{}, domainerrors.ErrExecutorNotFound
	}
	if record.Status != ports.StatusPending {
		return ports.DelegationRecord{}, domainerrors.ErrInvalidState
	}
	record.Status = ports.StatusApproved
	record.ExecutorUserID = &executorUserID
	record.InviteToken = nil
	record.UpdatedAt = now.UTC()
	s.records[delegationID] = record
	return cloneRecord(record), nil
}

func (s *Store) TransitionToRevoked(ctx context.Context, delegationID string, now time.Time) (ports.DelegationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[delegationID]
	if !ok {
		return ports.DelegationRecord{}, domainerrors.ErrExecutorNotFound
	}
	if record.Status != ports.StatusPending {
		return ports.DelegationRecord{}, domainerrors.ErrInvalidState
	}
	record.Status = ports.StatusRevoked
	record.InviteToken = nil
	record.UpdatedAt = now.UTC()
	s.records[delegationID] = record
	return cloneRecord(record), nil
}

func (s *Store) UpdateFields(ctx context.Context, delegationID string, ownerID string, patch ports.UpdatePatch, now time.Time) (ports.DelegationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[delegationID]
	if !ok || record.OwnerID != ownerID {
		return ports.DelegationRecord{}, domainerrors.ErrExecutorNotFound
	}
	if patch.Name != nil {
		record.Name = *patch.Name
	}
	if patch.Email != nil {
		record.Email = *patch.Email
	}
	if patch.ContactNumber != nil {
		record.ContactNumber = *patch.ContactNumber
	}
	record.UpdatedAt = now.UTC()
	s.records[delegationID] = record
	return cloneRecord(record), nil
}

func (s *Store) Delete(ctx context.Context, delegationID string, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[delegationID]
	if !ok || record.OwnerID != ownerID {
		return domainerrors.ErrExecutorNotFound
	}
	delete(s.records, delegationID)
	return nil
}

func (s *Store) NewID(ctx context.Context) (string, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("executor_%d", n), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func cloneRecord(in ports.DelegationRecord) ports.DelegationRecord {
	out := in
	if in.ExecutorUserID != nil {
		v := *in.ExecutorUserID
		out.ExecutorUserID = &v
	}
	if in.InviteToken != nil {
		v := *in.InviteToken
		out.InviteToken = &v
	}
	return out
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
