package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	executordelegation "placerly/contexts/estate-transition/executor-delegation"
	jwtadapter "placerly/contexts/estate-transition/executor-delegation/adapters/jwt"
	delegationpostgres "placerly/contexts/estate-transition/executor-delegation/adapters/postgres"
	delegationapp "placerly/contexts/estate-transition/executor-delegation/application"
	delegationerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	delegationports "placerly/contexts/estate-transition/executor-delegation/ports"
	recordvault "placerly/contexts/finance-records/record-vault"
	recordpostgres "placerly/contexts/finance-records/record-vault/adapters/postgres"
	recordports "placerly/contexts/finance-records/record-vault/ports"
	identitydirectory "placerly/contexts/identity-access/identity-directory"
	identitypostgres "placerly/contexts/identity-access/identity-directory/adapters/postgres"
	identityapp "placerly/contexts/identity-access/identity-directory/application"
	identityerrors "placerly/contexts/identity-access/identity-directory/domain/errors"
	identityports "placerly/contexts/identity-access/identity-directory/ports"
	"placerly/internal/platform/config"
	"placerly/internal/platform/db"
	"placerly/internal/platform/httpserver"
	"placerly/internal/platform/mailer"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	identityRepo := identitypostgres.NewRepository(pg.DB, logger)
	identityModule := identitydirectory.NewModule(identitydirectory.Dependencies{
		Repository:  identityRepo,
		Clock:       identitypostgres.SystemClock{},
		IDGenerator: identitypostgres.UUIDGenerator{},
		Logger:      logger,
	})

	delegationRepo := delegationpostgres.NewRepository(pg.DB, logger)
	delegationModule := executordelegation.NewModule(executordelegation.Dependencies{
		Repository: delegationRepo,
		Codec: jwtadapter.Codec{
			Secret: []byte(cfg.JWTSecret),
			Logger: logger,
		},
		Identity: identityBridge{identityModule.Service},
		Notifications: mailer.SMTP{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		},
		Clock:         delegationpostgres.SystemClock{},
		IDGenerator:   delegationpostgres.UUIDGenerator{},
		InviteTTL:     cfg.InviteTTL,
		InviteBaseURL: cfg.InviteBaseURL,
		Logger:        logger,
	})

	recordRepo := recordpostgres.NewRepository(pg.DB, logger)
	recordModule := recordvault.NewModule(recordvault.Dependencies{
		Repository:  recordRepo,
		Scope:       scopeBridge{delegationModule.Scope},
		Clock:       recordpostgres.SystemClock{},
		IDGenerator: recordpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	server := httpserver.New(delegationModule, recordModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// identityBridge adapts the identity-directory service to the account
// directory port the executor-delegation module consumes. Identity errors
// are translated so delegation callers only ever see their own vocabulary.
type identityBridge struct {
	service identityapp.Service
}

var _ delegationports.IdentityDirectory = identityBridge{}

func (b identityBridge) FindByID(ctx context.Context, userID string) (delegationports.Account, error) {
	account, err := b.service.GetAccount(ctx, userID)
	if err != nil {
		return delegationports.Account{}, translateIdentityError(err)
	}
	return toDelegationAccount(account), nil
}

func (b identityBridge) FindByEmail(ctx context.Context, email string) (delegationports.Account, bool, error) {
	account, found, err := b.service.GetAccountByEmail(ctx, email)
	if err != nil {
		return delegationports.Account{}, false, translateIdentityError(err)
	}
	if !found {
		return delegationports.Account{}, false, nil
	}
	return toDelegationAccount(account), true, nil
}

func (b identityBridge) Create(ctx context.Context, input delegationports.NewAccountInput) (delegationports.Account, error) {
	account, err := b.service.ProvisionAccount(ctx, identityports.NewAccountInput{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return delegationports.Account{}, translateIdentityError(err)
	}
	return toDelegationAccount(account), nil
}

func (b identityBridge) AppendDelegation(ctx context.Context, userID string, delegationID string) error {
	return b.service.AppendDelegation(ctx, userID, delegationID)
}

func translateIdentityError(err error) error {
	switch {
	case errors.Is(err, identityerrors.ErrAccountNotFound):
		return delegationerrors.ErrUserNotFound
	case errors.Is(err, identityerrors.ErrInvalidRequest):
		return delegationerrors.ErrInvalidRequest
	default:
		return delegationerrors.ErrDependencyUnavailable
	}
}

func toDelegationAccount(account identityports.Account) delegationports.Account {
	return delegationports.Account{
		UserID: account.UserID,
		Name:   account.Name,
		Email:  account.Email,
		Role:   account.Role,
	}
}

// scopeBridge hands the delegation scope resolver to the record vault, which
// declares its own port to avoid a package dependency between contexts.
type scopeBridge struct {
	resolver delegationapp.ScopeResolver
}

var _ recordports.ScopeResolver = scopeBridge{}

func (b scopeBridge) Resolve(ctx context.Context, session recordports.Session) (string, error) {
	return b.resolver.Resolve(ctx, delegationports.Session{
		UserID: session.UserID,
		Role:   session.Role,
		Email:  session.Email,
	})
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
