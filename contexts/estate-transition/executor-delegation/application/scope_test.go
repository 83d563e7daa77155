package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"placerly/contexts/estate-transition/executor-delegation/adapters/memory"
	domainerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	"placerly/contexts/estate-transition/executor-delegation/ports"
)

func seedApproved(t *testing.T, store *memory.Store, delegationID string, ownerID string, email string, approvedAt time.Time) {
	t.Helper()
	if err := store.Create(context.Background(), ports.DelegationRecord{
		DelegationID: delegationID,
		OwnerID:      ownerID,
		Name:         "Morgan Leal",
		Email:        email,
		Status:       ports.StatusPending,
		CreatedAt:    approvedAt.Add(-time.Hour),
		UpdatedAt:    approvedAt.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if _, err := store.TransitionToApproved(context.Background(), delegationID, "user_exec_1", approvedAt); err != nil {
		t.Fatalf("seed transition failed: %v", err)
	}
}

func TestResolveNonExecutorPassthrough(t *testing.T) {
	resolver := ScopeResolver{Repo: memory.NewStore()}

	for _, role := range []string{ports.RoleUser, ports.RoleAdmin, ""} {
		ownerID, err := resolver.Resolve(context.Background(), ports.Session{
			UserID: "user_owner_1",
			Role:   role,
			Email:  "avery@example.com",
		})
		if err != nil {
			t.Fatalf("role %q: resolve failed: %v", role, err)
		}
		if ownerID != "user_owner_1" {
			t.Fatalf("role %q: expected own id, got %s", role, ownerID)
		}
	}
}

func TestResolveExecutorScopesToPrincipal(t *testing.T) {
	store := memory.NewStore()
	seedApproved(t, store, "executor_10", "user_owner_1", "morgan.exec@example.com", time.Now().UTC())
	resolver := ScopeResolver{Repo: store}

	ownerID, err := resolver.Resolve(context.Background(), ports.Session{
		UserID: "user_exec_1",
		Role:   ports.RoleExecutor,
		Email:  "Morgan.Exec@Example.com",
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if ownerID != "user_owner_1" {
		t.Fatalf("expected principal owner id, got %s", ownerID)
	}
}

func TestResolveExecutorWithoutDelegation(t *testing.T) {
	resolver := ScopeResolver{Repo: memory.NewStore()}

	_, err := resolver.Resolve(context.Background(), ports.Session{
		UserID: "user_exec_1",
		Role:   ports.RoleExecutor,
		Email:  "morgan.exec@example.com",
	})
	if !errors.Is(err, domainerrors.ErrNoActiveDelegation) {
		t.Fatalf("expected no active delegation, got %v", err)
	}
}

func TestResolveExecutorIgnoresPendingAndRevoked(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()
	if err := store.Create(context.Background(), ports.DelegationRecord{
		DelegationID: "executor_20",
		OwnerID:      "user_owner_1",
		Email:        "morgan.exec@example.com",
		Status:       ports.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := store.Create(context.Background(), ports.DelegationRecord{
		DelegationID: "executor_21",
		OwnerID:      "user_owner_2",
		Email:        "morgan.exec@example.com",
		Status:       ports.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.TransitionToRevoked(context.Background(), "executor_21", now); err != nil {
		t.Fatalf("seed revoke failed: %v", err)
	}

	resolver := ScopeResolver{Repo: store}
	_, err := resolver.Resolve(context.Background(), ports.Session{
		UserID: "user_exec_1",
		Role:   ports.RoleExecutor,
		Email:  "morgan.exec@example.com",
	})
	if !errors.Is(err, domainerrors.ErrNoActiveDelegation) {
		t.Fatalf("expected no active delegation, got %v", err)
	}
}

func TestResolveMostRecentlyApprovedWins(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	seedApproved(t, store, "executor_30", "user_owner_1", "morgan.exec@example.com", base)
	seedApproved(t, store, "executor_31", "user_owner_2", "morgan.exec@example.com", base.Add(time.Hour))

	resolver := ScopeResolver{Repo: store}
	ownerID, err := resolver.Resolve(context.Background(), ports.Session{
		UserID: "user_exec_1",
		Role:   ports.RoleExecutor,
		Email:  "morgan.exec@example.com",
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if ownerID != "user_owner_2" {
		t.Fatalf("expected the later approval's owner, got %s", ownerID)
	}
}

func TestResolveRequiresUserID(t *testing.T) {
	resolver := ScopeResolver{Repo: memory.NewStore()}

	_, err := resolver.Resolve(context.Background(), ports.Session{Role: ports.RoleExecutor})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}
