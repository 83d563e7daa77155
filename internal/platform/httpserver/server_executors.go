package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	delegationerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	delegationports "placerly/contexts/estate-transition/executor-delegation/ports"
	delegationhttp "placerly/contexts/estate-transition/executor-delegation/transport/http"
)

func (s *Server) handleCreateExecutor(w http.ResponseWriter, r *http.Request) {
	session := resolveDelegationSession(r)
	if session.UserID == "" {
		writeExecutorError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	// Executors act on behalf of a principal; they cannot delegate onward.
	if session.Role == delegationports.RoleExecutor {
		writeExecutorError(w, http.StatusForbidden, "forbidden", "executor sessions cannot designate executors")
		return
	}

	var req delegationhttp.CreateExecutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExecutorError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.executors.Handler.CreateExecutorHandler(r.Context(), session.UserID, req)
	if err != nil {
		writeExecutorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleInviteAction is unauthenticated on purpose: the invitee proves
// entitlement with the single-use token, not with a session.
func (s *Server) handleInviteAction(w http.ResponseWriter, r *http.Request) {
	var req delegationhttp.InviteActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExecutorError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.executors.Handler.InviteActionHandler(r.Context(), req)
	if err != nil {
		writeExecutorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListExecutors(w http.ResponseWriter, r *http.Request) {
	session := resolveDelegationSession(r)
	if session.UserID == "" {
		writeExecutorError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	query := r.URL.Query()
	resp, err := s.executors.Handler.ListExecutorsHandler(
		r.Context(),
		session.UserID,
		query.Get("status"),
		query.Get("search"),
	)
	if err != nil {
		writeExecutorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetExecutor(w http.ResponseWriter, r *http.Request) {
	session := resolveDelegationSession(r)
	if session.UserID == "" {
		writeExecutorError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.executors.Handler.GetExecutorHandler(r.Context(), session.UserID, r.PathValue("executor_id"))
	if err != nil {
		writeExecutorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateExecutor(w http.ResponseWriter, r *http.Request) {
	session := resolveDelegationSession(r)
	if session.UserID == "" {
		writeExecutorError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req delegationhttp.UpdateExecutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExecutorError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.executors.Handler.UpdateExecutorHandler(r.Context(), session.UserID, r.PathValue("executor_id"), req)
	if err != nil {
		writeExecutorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteExecutor(w http.ResponseWriter, r *http.Request) {
	session := resolveDelegationSession(r)
	if session.UserID == "" {
		writeExecutorError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.executors.Handler.DeleteExecutorHandler(r.Context(), session.UserID, r.PathValue("executor_id"))
	if err != nil {
		writeExecutorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeExecutorDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, delegationerrors.ErrInvalidRequest):
		writeExecutorError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, delegationerrors.ErrInvalidToken):
		writeExecutorError(w, http.StatusBadRequest, "invalid_token", err.Error())
	case errors.Is(err, delegationerrors.ErrInvalidAction):
		writeExecutorError(w, http.StatusBadRequest, "invalid_action", err.Error())
	case errors.Is(err, delegationerrors.ErrUserNotFound):
		writeExecutorError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, delegationerrors.ErrExecutorNotFound):
		writeExecutorError(w, http.StatusNotFound, "executor_not_found", err.Error())
	case errors.Is(err, delegationerrors.ErrInvalidState):
		writeExecutorError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, delegationerrors.ErrNoActiveDelegation):
		writeExecutorError(w, http.StatusForbidden, "no_active_delegation", err.Error())
	case errors.Is(err, delegationerrors.ErrDependencyUnavailable):
		writeExecutorError(w, http.StatusFailedDependency, "dependency_unavailable", err.Error())
	default:
		writeExecutorError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeExecutorError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, delegationhttp.ErrorResponse{
		Code:    code,
		Message: strings.TrimSpace(message),
	})
}
