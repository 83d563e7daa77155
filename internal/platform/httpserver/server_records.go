package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	delegationerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	recorderrors "placerly/contexts/finance-records/record-vault/domain/errors"
	recordhttp "placerly/contexts/finance-records/record-vault/transport/http"
)

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	session := resolveRecordSession(r)
	if session.UserID == "" {
		writeRecordError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req recordhttp.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRecordError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.records.Handler.CreateRecordHandler(r.Context(), session, r.PathValue("record_type"), req)
	if err != nil {
		writeRecordDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	session := resolveRecordSession(r)
	if session.UserID == "" {
		writeRecordError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.records.Handler.ListRecordsHandler(
		r.Context(),
		session,
		r.PathValue("record_type"),
		r.URL.Query().Get("search"),
	)
	if err != nil {
		writeRecordDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	session := resolveRecordSession(r)
	if session.UserID == "" {
		writeRecordError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.records.Handler.GetRecordHandler(r.Context(), session, r.PathValue("record_id"))
	if err != nil {
		writeRecordDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	session := resolveRecordSession(r)
	if session.UserID == "" {
		writeRecordError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req recordhttp.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRecordError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.records.Handler.UpdateRecordHandler(r.Context(), session, r.PathValue("record_id"), req)
	if err != nil {
		writeRecordDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	session := resolveRecordSession(r)
	if session.UserID == "" {
		writeRecordError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.records.Handler.DeleteRecordHandler(r.Context(), session, r.PathValue("record_id"))
	if err != nil {
		writeRecordDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session := resolveRecordSession(r)
	if session.UserID == "" {
		writeRecordError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.records.Handler.DashboardHandler(r.Context(), session)
	if err != nil {
		writeRecordDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeRecordDomainError also maps the scope-resolution errors that surface
// through record operations when an executor session has no approved
// delegation behind it.
func writeRecordDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recorderrors.ErrInvalidRequest):
		writeRecordError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, recorderrors.ErrInvalidRecordType):
		writeRecordError(w, http.StatusBadRequest, "invalid_record_type", err.Error())
	case errors.Is(err, recorderrors.ErrInvalidAmount):
		writeRecordError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, recorderrors.ErrRecordNotFound):
		writeRecordError(w, http.StatusNotFound, "record_not_found", err.Error())
	case errors.Is(err, delegationerrors.ErrNoActiveDelegation):
		writeRecordError(w, http.StatusForbidden, "no_active_delegation", err.Error())
	case errors.Is(err, delegationerrors.ErrInvalidRequest):
		writeRecordError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRecordError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRecordError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, recordhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
