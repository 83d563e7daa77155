package identitydirectory

import (
	"log/slog"

	"placerly/contexts/identity-access/identity-directory/application"
	"placerly/contexts/identity-access/identity-directory/ports"
)

type Module struct {
	Service application.Service
}

type Dependencies struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Repo:        deps.Repository,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
	}
}
