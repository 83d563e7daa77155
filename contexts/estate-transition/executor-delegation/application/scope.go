package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	"placerly/contexts/estate-transition/executor-delegation/ports"
)

// ScopeResolver is the single choke point every financial-record operation
// passes through before touching persistence. It maps an authenticated
// session to the effective owner id for the request.
type ScopeResolver struct {
	Repo   ports.Repository
	Logger *slog.Logger
}

// Resolve returns the owner id record queries must be scoped to. Sessions
// with a non-executor role always scope to themselves. Executor sessions
// scope to the principal of their approved delegation; when several exist
// for the same email the most recently approved one wins.
func (r ScopeResolver) Resolve(ctx context.Context, session ports.Session) (string, error) {
	if strings.TrimSpace(session.UserID) == "" {
		return "", domainerrors.ErrInvalidRequest
	}
	if session.Role != ports.RoleExecutor {
		return session.UserID, nil
	}

	record, found, err := r.Repo.FindApprovedByEmail(ctx, strings.ToLower(strings.TrimSpace(session.Email)))
	if err != nil {
		return "", err
	}
	if !found {
		return "", domainerrors.ErrNoActiveDelegation
	}

	resolveLogger(r.Logger).Debug("executor session scoped to principal",
		"event", "delegation_scope_resolved",
		"module", "estate-transition/executor-delegation",
		"layer", "application",
		"delegation_id", record.DelegationID,
		"owner_id", record.OwnerID,
	)
	return record.OwnerID, nil
}
