package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	executordelegation "placerly/contexts/estate-transition/executor-delegation"
	delegationports "placerly/contexts/estate-transition/executor-delegation/ports"
	recordvault "placerly/contexts/finance-records/record-vault"
	recordports "placerly/contexts/finance-records/record-vault/ports"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	executors executordelegation.Module
	records   recordvault.Module
}

func New(
	executors executordelegation.Module,
	records recordvault.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		executors: executors,
		records:   records,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/executors", s.handleCreateExecutor)
	s.mux.HandleFunc("POST /api/executors/invite", s.handleInviteAction)
	s.mux.HandleFunc("GET /api/executors", s.handleListExecutors)
	s.mux.HandleFunc("GET /api/executors/{executor_id}", s.handleGetExecutor)
	s.mux.HandleFunc("PUT /api/executors/{executor_id}", s.handleUpdateExecutor)
	s.mux.HandleFunc("DELETE /api/executors/{executor_id}", s.handleDeleteExecutor)

	s.mux.HandleFunc("POST /api/records/{record_type}", s.handleCreateRecord)
	s.mux.HandleFunc("GET /api/records/{record_type}", s.handleListRecords)
	s.mux.HandleFunc("GET /api/records/{record_type}/{record_id}", s.handleGetRecord)
	s.mux.HandleFunc("PUT /api/records/{record_type}/{record_id}", s.handleUpdateRecord)
	s.mux.HandleFunc("DELETE /api/records/{record_type}/{record_id}", s.handleDeleteRecord)
	s.mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolveDelegationSession reads the gateway-trusted identity headers for the
// executor-delegation routes.
func resolveDelegationSession(r *http.Request) delegationports.Session {
	return delegationports.Session{
		UserID: strings.TrimSpace(r.Header.Get("X-User-Id")),
		Role:   strings.TrimSpace(strings.ToLower(r.Header.Get("X-User-Role"))),
		Email:  strings.TrimSpace(r.Header.Get("X-User-Email")),
	}
}

func resolveRecordSession(r *http.Request) recordports.Session {
	return recordports.Session{
		UserID: strings.TrimSpace(r.Header.Get("X-User-Id")),
		Role:   strings.TrimSpace(strings.ToLower(r.Header.Get("X-User-Role"))),
		Email:  strings.TrimSpace(r.Header.Get("X-User-Email")),
	}
}
