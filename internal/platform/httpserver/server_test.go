package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"time"

	executordelegation "placerly/contexts/estate-transition/executor-delegation"
	jwtadapter "placerly/contexts/estate-transition/executor-delegation/adapters/jwt"
	delegationmemory "placerly/contexts/estate-transition/executor-delegation/adapters/memory"
	delegationerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	delegationports "placerly/contexts/estate-transition/executor-delegation/ports"
	recordvault "placerly/contexts/finance-records/record-vault"
	recordmemory "placerly/contexts/finance-records/record-vault/adapters/memory"
	recordports "placerly/contexts/finance-records/record-vault/ports"
	identitydirectory "placerly/contexts/identity-access/identity-directory"
	identitymemory "placerly/contexts/identity-access/identity-directory/adapters/memory"
	identityerrors "placerly/contexts/identity-access/identity-directory/domain/errors"
	identityports "placerly/contexts/identity-access/identity-directory/ports"
)

// capturingNotifier records outbound mail so tests can pull invite tokens
// out of the generated links.
type capturingNotifier struct {
	mu   sync.Mutex
	sent []delegationports.Message
}

func (n *capturingNotifier) Send(_ context.Context, message delegationports.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, message)
	return nil
}

var inviteLinkPattern = regexp.MustCompile(`/executor/invite/([A-Za-z0-9._-]+)`)

func (n *capturingNotifier) lastInviteToken() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if match := inviteLinkPattern.FindStringSubmatch(n.sent[i].HTMLBody); match != nil {
			return match[1]
		}
	}
	return ""
}

type testIdentityBridge struct {
	module identitydirectory.Module
}

func (b testIdentityBridge) FindByID(ctx context.Context, userID string) (delegationports.Account, error) {
	account, err := b.module.Service.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, identityerrors.ErrAccountNotFound) {
			return delegationports.Account{}, delegationerrors.ErrUserNotFound
		}
		return delegationports.Account{}, delegationerrors.ErrInvalidRequest
	}
	return delegationports.Account{UserID: account.UserID, Name: account.Name, Email: account.Email, Role: account.Role}, nil
}

func (b testIdentityBridge) FindByEmail(ctx context.Context, email string) (delegationports.Account, bool, error) {
	account, found, err := b.module.Service.GetAccountByEmail(ctx, email)
	if err != nil || !found {
		return delegationports.Account{}, false, err
	}
	return delegationports.Account{UserID: account.UserID, Name: account.Name, Email: account.Email, Role: account.Role}, true, nil
}

func (b testIdentityBridge) Create(ctx context.Context, input delegationports.NewAccountInput) (delegationports.Account, error) {
	account, err := b.module.Service.ProvisionAccount(ctx, identityports.NewAccountInput{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return delegationports.Account{}, err
	}
	return delegationports.Account{UserID: account.UserID, Name: account.Name, Email: account.Email, Role: account.Role}, nil
}

func (b testIdentityBridge) AppendDelegation(ctx context.Context, userID string, delegationID string) error {
	return b.module.Service.AppendDelegation(ctx, userID, delegationID)
}

type testScopeBridge struct {
	module executordelegation.Module
}

func (b testScopeBridge) Resolve(ctx context.Context, session recordports.Session) (string, error) {
	return b.module.Scope.Resolve(ctx, delegationports.Session{
		UserID: session.UserID,
		Role:   session.Role,
		Email:  session.Email,
	})
}

type testHarness struct {
	server   *Server
	notifier *capturingNotifier
}

func newTestServer() testHarness {
	logger := slog.Default()
	notifier := &capturingNotifier{}

	identityStore := identitymemory.NewStore()
	identityModule := identitydirectory.NewModule(identitydirectory.Dependencies{
		Repository:  identityStore,
		Clock:       identityStore,
		IDGenerator: identityStore,
		Logger:      logger,
	})

	delegationStore := delegationmemory.NewStore()
	delegationModule := executordelegation.NewModule(executordelegation.Dependencies{
		Repository:    delegationStore,
		Codec:         jwtadapter.Codec{Secret: []byte("test-secret")},
		Identity:      testIdentityBridge{module: identityModule},
		Notifications: notifier,
		Clock:         delegationStore,
		IDGenerator:   delegationStore,
		InviteTTL:     7 * 24 * time.Hour,
		InviteBaseURL: "https://app.placerly.test",
		Logger:        logger,
	})

	recordStore := recordmemory.NewStore()
	recordModule := recordvault.NewModule(recordvault.Dependencies{
		Repository:  recordStore,
		Scope:       testScopeBridge{module: delegationModule},
		Clock:       recordStore,
		IDGenerator: recordStore,
		Logger:      logger,
	})

	return testHarness{
		server:   New(delegationModule, recordModule, logger, ":0"),
		notifier: notifier,
	}
}
