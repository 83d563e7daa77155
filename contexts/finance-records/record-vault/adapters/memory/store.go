package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	domainerrors "placerly/contexts/finance-records/record-vault/domain/errors"
	"placerly/contexts/finance-records/record-vault/ports"
)

type Store struct {
	mu       sync.RWMutex
	records  map[string]ports.FinancialRecord
	sequence uint64
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]ports.FinancialRecord),
	}
}

func (s *Store) Create(ctx context.Context, record ports.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(record.RecordID) == "" || strings.TrimSpace(record.OwnerID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	s.records[record.RecordID] = record
	return nil
}

func (s *Store) FindByID(ctx context.Context, recordID string, ownerID string) (ports.FinancialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[recordID]
	if !ok || record.OwnerID != ownerID {
		return ports.FinancialRecord{}, domainerrors.ErrRecordNotFound
	}
	return record, nil
}

func (s *Store) FindByOwner(ctx context.Context, ownerID string, filter ports.RecordFilter) ([]ports.FinancialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.FinancialRecord, 0)
	for _, record := range s.records {
		if record.OwnerID != ownerID {
			continue
		}
		if filter.RecordType != "" && record.RecordType != filter.RecordType {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(record.Name), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, record)
	}
	sort.Slice(items, func(i int, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateFields(ctx context.Context, recordID string, ownerID string, patch ports.RecordPatch, now time.Time) (ports.FinancialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[recordID]
	if !ok || record.OwnerID != ownerID {
		return ports.FinancialRecord{}, domainerrors.ErrRecordNotFound
	}
	if patch.Name != nil {
		record.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.AccountNumber != nil {
		record.AccountNumber = strings.TrimSpace(*patch.AccountNumber)
	}
	if patch.Provider != nil {
		record.Provider = strings.TrimSpace(*patch.Provider)
	}
	if patch.Amount != nil {
		record.Amount = *patch.Amount
	}
	if patch.Notes != nil {
		record.Notes = strings.TrimSpace(*patch.Notes)
	}
	record.UpdatedAt = now.UTC()
	s.records[recordID] = record
	return record, nil
}

func (s *Store) Delete(ctx context.Context, recordID string, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[recordID]
	if !ok || record.OwnerID != ownerID {
		return domainerrors.ErrRecordNotFound
	}
	delete(s.records, recordID)
	return nil
}

func (s *Store) SummarizeByType(ctx context.Context, ownerID string) ([]ports.TypeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byType := make(map[string]ports.TypeSummary)
	for _, record := range s.records {
		if record.OwnerID != ownerID {
			continue
		}
		summary, ok := byType[record.RecordType]
		if !ok {
			summary = ports.TypeSummary{RecordType: record.RecordType, Total: decimal.Zero}
		}
		summary.Count++
		summary.Total = summary.Total.Add(record.Amount)
		byType[record.RecordType] = summary
	}

	items := make([]ports.TypeSummary, 0, len(byType))
	for _, summary := range byType {
		items = append(items, summary)
	}
	sort.Slice(items, func(i int, j int) bool {
		return items[i].RecordType < items[j].RecordType
	})
	return items, nil
}

func (s *Store) NewID(ctx context.Context) (string, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("record_%d", n), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
