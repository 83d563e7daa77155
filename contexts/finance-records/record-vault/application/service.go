package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainerrors "placerly/contexts/finance-records/record-vault/domain/errors"
	"placerly/contexts/finance-records/record-vault/ports"
)

// Service is the uniform financial-record CRUD-plus-aggregation layer.
// Every operation resolves the session through the ScopeResolver before
// touching persistence, so an approved executor transparently operates
// against the delegating principal's records.
type Service struct {
	Repo        ports.Repository
	Scope       ports.ScopeResolver
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

type CreateRecordInput struct {
	RecordType    string
	Name          string
	AccountNumber string
	Provider      string
	Amount        decimal.Decimal
	Notes         string
}

type DashboardSummary struct {
	OwnerID   string
	Types     []ports.TypeSummary
	NetTotal  decimal.Decimal
	Generated time.Time
}

func (s Service) CreateRecord(ctx context.Context, session ports.Session, input CreateRecordInput) (ports.FinancialRecord, error) {
	if !ports.IsValidRecordType(input.RecordType) {
		return ports.FinancialRecord{}, domainerrors.ErrInvalidRecordType
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.FinancialRecord{}, domainerrors.ErrInvalidRequest
	}

	ownerID, err := s.Scope.Resolve(ctx, session)
	if err != nil {
		return ports.FinancialRecord{}, err
	}
	recordID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.FinancialRecord{}, err
	}
	now := s.now()
	record := ports.FinancialRecord{
		RecordID:      recordID,
		OwnerID:       ownerID,
		RecordType:    input.RecordType,
		Name:          name,
		AccountNumber: strings.TrimSpace(input.AccountNumber),
		Provider:      strings.TrimSpace(input.Provider),
		Amount:        input.Amount,
		Notes:         strings.TrimSpace(input.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return ports.FinancialRecord{}, err
	}

	resolveLogger(s.Logger).Info("financial record created",
		"event", "record_vault_record_created",
		"module", "finance-records/record-vault",
		"layer", "application",
		"record_id", recordID,
		"record_type", record.RecordType,
		"owner_id", ownerID,
	)
	return record, nil
}

func (s Service) ListRecords(ctx context.Context, session ports.Session, filter ports.RecordFilter) ([]ports.FinancialRecord, error) {
	if filter.RecordType != "" && !ports.IsValidRecordType(filter.RecordType) {
		return nil, domainerrors.ErrInvalidRecordType
	}
	ownerID, err := s.Scope.Resolve(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.Repo.FindByOwner(ctx, ownerID, filter)
}

func (s Service) GetRecord(ctx context.Context, session ports.Session, recordID string) (ports.FinancialRecord, error) {
	if strings.TrimSpace(recordID) == "" {
		return ports.FinancialRecord{}, domainerrors.ErrInvalidRequest
	}
	ownerID, err := s.Scope.Resolve(ctx, session)
	if err != nil {
		return ports.FinancialRecord{}, err
	}
	return s.Repo.FindByID(ctx, strings.TrimSpace(recordID), ownerID)
}

func (s Service) UpdateRecord(ctx context.Context, session ports.Session, recordID string, patch ports.RecordPatch) (ports.FinancialRecord, error) {
	if strings.TrimSpace(recordID) == "" {
		return ports.FinancialRecord{}, domainerrors.ErrInvalidRequest
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ports.FinancialRecord{}, domainerrors.ErrInvalidRequest
	}
	ownerID, err := s.Scope.Resolve(ctx, session)
	if err != nil {
		return ports.FinancialRecord{}, err
	}
	return s.Repo.UpdateFields(ctx, strings.TrimSpace(recordID), ownerID, patch, s.now())
}

func (s Service) DeleteRecord(ctx context.Context, session ports.Session, recordID string) error {
	if strings.TrimSpace(recordID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	ownerID, err := s.Scope.Resolve(ctx, session)
	if err != nil {
		return err
	}
	return s.Repo.Delete(ctx, strings.TrimSpace(recordID), ownerID)
}

func (s Service) GetDashboard(ctx context.Context, session ports.Session) (DashboardSummary, error) {
	ownerID, err := s.Scope.Resolve(ctx, session)
	if err != nil {
		return DashboardSummary{}, err
	}
	summaries, err := s.Repo.SummarizeByType(ctx, ownerID)
	if err != nil {
		return DashboardSummary{}, err
	}

	byType := make(map[string]ports.TypeSummary, len(summaries))
	for _, summary := range summaries {
		byType[summary.RecordType] = summary
	}

	net := decimal.Zero
	rows := make([]ports.TypeSummary, 0, len(ports.RecordTypes()))
	for _, recordType := range ports.RecordTypes() {
		summary, ok := byType[recordType]
		if !ok {
			summary = ports.TypeSummary{RecordType: recordType, Total: decimal.Zero}
		}
		rows = append(rows, summary)
		// Debts reduce net worth; everything else adds to it.
		if recordType == ports.TypeDebt {
			net = net.Sub(summary.Total)
		} else {
			net = net.Add(summary.Total)
		}
	}

	return DashboardSummary{
		OwnerID:   ownerID,
		Types:     rows,
		NetTotal:  net,
		Generated: s.now(),
	}, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
