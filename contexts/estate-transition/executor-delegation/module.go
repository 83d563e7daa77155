package executordelegation

import (
	"log/slog"
	"time"

	httpadapter "placerly/contexts/estate-transition/executor-delegation/adapters/http"
	"placerly/contexts/estate-transition/executor-delegation/application"
	"placerly/contexts/estate-transition/executor-delegation/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Scope   application.ScopeResolver
}

type Dependencies struct {
	Repository    ports.Repository
	Codec         ports.TokenCodec
	Identity      ports.IdentityDirectory
	Notifications ports.NotificationGateway
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	InviteTTL     time.Duration
	InviteBaseURL string
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:          deps.Repository,
		Codec:         deps.Codec,
		Identity:      deps.Identity,
		Notifications: deps.Notifications,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Logger:        deps.Logger,
		InviteTTL:     deps.InviteTTL,
		InviteBaseURL: deps.InviteBaseURL,
	}
	scope := application.ScopeResolver{
		Repo:   deps.Repository,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Scope:   scope,
			Logger:  deps.Logger,
		},
		Scope: scope,
	}
}
