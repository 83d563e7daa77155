package recordvault

import (
	"log/slog"

	httpadapter "placerly/contexts/finance-records/record-vault/adapters/http"
	"placerly/contexts/finance-records/record-vault/application"
	"placerly/contexts/finance-records/record-vault/ports"
)

// Module exposes the record-vault entrypoints for composition roots.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Repository  ports.Repository
	Scope       ports.ScopeResolver
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Scope:       deps.Scope,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}
