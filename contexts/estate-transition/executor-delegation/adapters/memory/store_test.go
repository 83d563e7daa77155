package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	"placerly/contexts/estate-transition/executor-delegation/ports"
)

func pendingRecord(delegationID string, ownerID string) ports.DelegationRecord {
	now := time.Now().UTC()
	return ports.DelegationRecord{
		DelegationID: delegationID,
		OwnerID:      ownerID,
		Name:         "Morgan Leal",
		Email:        "morgan.exec@example.com",
		Status:       ports.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestTransitionToApprovedExactlyOnce(t *testing.T) {
	store := NewStore()
	if err := store.Create(context.Background(), pendingRecord("executor_1", "user_owner_1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	now := time.Now().UTC()
	updated, err := store.TransitionToApproved(context.Background(), "executor_1", "user_exec_1", now)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if updated.Status != ports.StatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
	if updated.ExecutorUserID == nil || *updated.ExecutorUserID != "user_exec_1" {
		t.Fatal("expected executor user id on approved record")
	}

	if _, err := store.TransitionToApproved(context.Background(), "executor_1", "user_exec_2", now); !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state on second transition, got %v", err)
	}
	if _, err := store.TransitionToRevoked(context.Background(), "executor_1", now); !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state revoking approved record, got %v", err)
	}
}

func TestConcurrentTransitionsSingleWinner(t *testing.T) {
	store := NewStore()
	if err := store.Create(context.Background(), pendingRecord("executor_1", "user_owner_1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	wins := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			now := time.Now().UTC()
			if n%2 == 0 {
				if _, err := store.TransitionToApproved(context.Background(), "executor_1", "user_exec_1", now); err == nil {
					wins <- ports.StatusApproved
				}
			} else {
				if _, err := store.TransitionToRevoked(context.Background(), "executor_1", now); err == nil {
					wins <- ports.StatusRevoked
				}
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for status := range wins {
		winners = append(winners, status)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one winning transition, got %d", len(winners))
	}

	record, err := store.FindByID(context.Background(), "executor_1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if record.Status != winners[0] {
		t.Fatalf("stored status %s does not match winner %s", record.Status, winners[0])
	}
}

func TestFindApprovedByEmailPrefersLatest(t *testing.T) {
	store := NewStore()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	for i, delegationID := range []string{"executor_1", "executor_2"} {
		record := pendingRecord(delegationID, "user_owner_"+delegationID)
		if err := store.Create(context.Background(), record); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if _, err := store.TransitionToApproved(context.Background(), delegationID, "user_exec_1", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("transition failed: %v", err)
		}
	}

	record, found, err := store.FindApprovedByEmail(context.Background(), "MORGAN.EXEC@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !found {
		t.Fatal("expected an approved record")
	}
	if record.DelegationID != "executor_2" {
		t.Fatalf("expected the later approval, got %s", record.DelegationID)
	}
}

func TestFindApprovedByEmailMisses(t *testing.T) {
	store := NewStore()
	if err := store.Create(context.Background(), pendingRecord("executor_1", "user_owner_1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, found, err := store.FindApprovedByEmail(context.Background(), "morgan.exec@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found {
		t.Fatal("pending record must not match approved lookup")
	}
}

func TestCloneIsolation(t *testing.T) {
	store := NewStore()
	if err := store.Create(context.Background(), pendingRecord("executor_1", "user_owner_1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.AttachToken(context.Background(), "executor_1", "token_1", time.Now().UTC()); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	record, err := store.FindByID(context.Background(), "executor_1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	*record.InviteToken = "mutated"

	again, err := store.FindByID(context.Background(), "executor_1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if *again.InviteToken != "token_1" {
		t.Fatal("returned record must be isolated from caller mutation")
	}
}
