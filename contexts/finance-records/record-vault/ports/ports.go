package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeAsset      = "asset"
	TypeDebt       = "debt"
	TypeInsurance  = "insurance"
	TypeUtility    = "utility"
	TypeBanking    = "banking"
	TypeInvestment = "investment"
)

func IsValidRecordType(recordType string) bool {
	switch recordType {
	case TypeAsset, TypeDebt, TypeInsurance, TypeUtility, TypeBanking, TypeInvestment:
		return true
	default:
		return false
	}
}

// RecordTypes lists the supported types in stable display order.
func RecordTypes() []string {
	return []string{TypeAsset, TypeDebt, TypeInsurance, TypeUtility, TypeBanking, TypeInvestment}
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Session mirrors the identity attached to a request by the external auth
// layer. The record vault never reads Session.UserID directly for data
// access; it goes through the ScopeResolver first.
type Session struct {
	UserID string
	Role   string
	Email  string
}

// ScopeResolver yields the effective owner id for a session. For approved
// executor sessions that is the delegating principal, not the caller.
type ScopeResolver interface {
	Resolve(ctx context.Context, session Session) (string, error)
}

type FinancialRecord struct {
	RecordID      string
	OwnerID       string
	RecordType    string
	Name          string
	AccountNumber string
	Provider      string
	Amount        decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RecordFilter struct {
	RecordType string
	Search     string
}

type RecordPatch struct {
	Name          *string
	AccountNumber *string
	Provider      *string
	Amount        *decimal.Decimal
	Notes         *string
}

// TypeSummary is one dashboard row: the record count and amount total for a
// single record type.
type TypeSummary struct {
	RecordType string
	Count      int
	Total      decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, record FinancialRecord) error
	FindByID(ctx context.Context, recordID string, ownerID string) (FinancialRecord, error)
	FindByOwner(ctx context.Context, ownerID string, filter RecordFilter) ([]FinancialRecord, error)
	UpdateFields(ctx context.Context, recordID string, ownerID string, patch RecordPatch, now time.Time) (FinancialRecord, error)
	Delete(ctx context.Context, recordID string, ownerID string) error
	SummarizeByType(ctx context.Context, ownerID string) ([]TypeSummary, error)
}
