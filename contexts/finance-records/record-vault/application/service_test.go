package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"placerly/contexts/finance-records/record-vault/adapters/memory"
	domainerrors "placerly/contexts/finance-records/record-vault/domain/errors"
	"placerly/contexts/finance-records/record-vault/ports"
)

// scopeTable resolves executor emails to principal ids, everyone else to
// themselves, mirroring the delegation resolver contract.
type scopeTable struct {
	principals map[string]string
}

func (s scopeTable) Resolve(_ context.Context, session ports.Session) (string, error) {
	if session.UserID == "" {
		return "", errors.New("missing user id")
	}
	if session.Role != "executor" {
		return session.UserID, nil
	}
	ownerID, ok := s.principals[session.Email]
	if !ok {
		return "", errors.New("no active delegation")
	}
	return ownerID, nil
}

func ownerSession(userID string) ports.Session {
	return ports.Session{UserID: userID, Role: "user"}
}

func executorSession(email string) ports.Session {
	return ports.Session{UserID: "user_exec_1", Role: "executor", Email: email}
}

func newRecordService(store *memory.Store, principals map[string]string) Service {
	return Service{
		Repo:        store,
		Scope:       scopeTable{principals: principals},
		Clock:       store,
		IDGenerator: store,
	}
}

func mustCreate(t *testing.T, service Service, session ports.Session, recordType string, name string, amount string) ports.FinancialRecord {
	t.Helper()
	value, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("bad amount %s: %v", amount, err)
	}
	record, err := service.CreateRecord(context.Background(), session, CreateRecordInput{
		RecordType: recordType,
		Name:       name,
		Amount:     value,
	})
	if err != nil {
		t.Fatalf("create record failed: %v", err)
	}
	return record
}

func TestExecutorSessionOperatesOnPrincipalData(t *testing.T) {
	store := memory.NewStore()
	service := newRecordService(store, map[string]string{"morgan.exec@example.com": "user_owner_1"})

	created := mustCreate(t, service, executorSession("morgan.exec@example.com"), ports.TypeAsset, "Family Home", "450000")
	if created.OwnerID != "user_owner_1" {
		t.Fatalf("expected record owned by principal, got %s", created.OwnerID)
	}

	// The principal sees the record the executor created.
	items, err := service.ListRecords(context.Background(), ownerSession("user_owner_1"), ports.RecordFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].RecordID != created.RecordID {
		t.Fatalf("expected principal to see the record, got %+v", items)
	}

	// The executor's own id holds nothing.
	own, err := service.ListRecords(context.Background(), ownerSession("user_exec_1"), ports.RecordFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(own) != 0 {
		t.Fatalf("executor's own scope must be empty, got %+v", own)
	}
}

func TestExecutorWithoutDelegationBlocked(t *testing.T) {
	store := memory.NewStore()
	service := newRecordService(store, nil)

	_, err := service.ListRecords(context.Background(), executorSession("morgan.exec@example.com"), ports.RecordFilter{})
	if err == nil {
		t.Fatal("expected scope resolution failure")
	}
}

func TestRecordsDoNotLeakAcrossOwners(t *testing.T) {
	store := memory.NewStore()
	service := newRecordService(store, nil)

	created := mustCreate(t, service, ownerSession("user_owner_1"), ports.TypeBanking, "Checking Account", "1200.50")

	if _, err := service.GetRecord(context.Background(), ownerSession("user_owner_2"), created.RecordID); !errors.Is(err, domainerrors.ErrRecordNotFound) {
		t.Fatalf("expected record not found for foreign owner, got %v", err)
	}
	if err := service.DeleteRecord(context.Background(), ownerSession("user_owner_2"), created.RecordID); !errors.Is(err, domainerrors.ErrRecordNotFound) {
		t.Fatalf("expected record not found on foreign delete, got %v", err)
	}
}

func TestCreateRecordValidation(t *testing.T) {
	store := memory.NewStore()
	service := newRecordService(store, nil)

	_, err := service.CreateRecord(context.Background(), ownerSession("user_owner_1"), CreateRecordInput{
		RecordType: "vehicle",
		Name:       "Sedan",
	})
	if !errors.Is(err, domainerrors.ErrInvalidRecordType) {
		t.Fatalf("expected invalid record type, got %v", err)
	}

	_, err = service.CreateRecord(context.Background(), ownerSession("user_owner_1"), CreateRecordInput{
		RecordType: ports.TypeAsset,
		Name:       "   ",
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request for blank name, got %v", err)
	}
}

func TestDashboardTotals(t *testing.T) {
	store := memory.NewStore()
	service := newRecordService(store, nil)
	owner := ownerSession("user_owner_1")

	mustCreate(t, service, owner, ports.TypeAsset, "Family Home", "450000")
	mustCreate(t, service, owner, ports.TypeAsset, "Brokerage", "25000.25")
	mustCreate(t, service, owner, ports.TypeDebt, "Mortgage", "300000")
	mustCreate(t, service, ownerSession("user_owner_2"), ports.TypeAsset, "Other Home", "999999")

	summary, err := service.GetDashboard(context.Background(), owner)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if len(summary.Types) != len(ports.RecordTypes()) {
		t.Fatalf("expected one row per record type, got %d", len(summary.Types))
	}

	rows := make(map[string]ports.TypeSummary, len(summary.Types))
	for _, row := range summary.Types {
		rows[row.RecordType] = row
	}
	if rows[ports.TypeAsset].Count != 2 || rows[ports.TypeAsset].Total.String() != "475000.25" {
		t.Fatalf("unexpected asset row %+v", rows[ports.TypeAsset])
	}
	if rows[ports.TypeDebt].Count != 1 || rows[ports.TypeDebt].Total.String() != "300000" {
		t.Fatalf("unexpected debt row %+v", rows[ports.TypeDebt])
	}
	if rows[ports.TypeInsurance].Count != 0 || !rows[ports.TypeInsurance].Total.IsZero() {
		t.Fatalf("expected zero row for insurance, got %+v", rows[ports.TypeInsurance])
	}

	// Debts subtract from net worth.
	if summary.NetTotal.String() != "175000.25" {
		t.Fatalf("unexpected net total %s", summary.NetTotal)
	}
}

func TestUpdateRecordPatchesFields(t *testing.T) {
	store := memory.NewStore()
	service := newRecordService(store, nil)
	owner := ownerSession("user_owner_1")

	created := mustCreate(t, service, owner, ports.TypeUtility, "Electric", "120")

	newAmount := decimal.RequireFromString("135.40")
	name := "Electric Co"
	updated, err := service.UpdateRecord(context.Background(), owner, created.RecordID, ports.RecordPatch{
		Name:   &name,
		Amount: &newAmount,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Electric Co" || updated.Amount.String() != "135.4" {
		t.Fatalf("unexpected updated record %+v", updated)
	}

	blank := "  "
	if _, err := service.UpdateRecord(context.Background(), owner, created.RecordID, ports.RecordPatch{Name: &blank}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request for blank name, got %v", err)
	}
}
