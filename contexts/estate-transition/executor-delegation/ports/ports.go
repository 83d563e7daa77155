package ports

import (
	"context"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRevoked  = "revoked"
)

const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleExecutor = "executor"
)

const (
	ActionValidate = "validate"
	ActionAccept   = "accept"
	ActionReject   = "reject"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRevoked:
		return true
	default:
		return false
	}
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// DelegationRecord is the persisted executor relationship and its lifecycle
// state. ExecutorUserID is set exactly when Status is approved; InviteToken
// is present only while Status is pending and is cleared by the first
// terminal transition.
type DelegationRecord struct {
	DelegationID   string
	OwnerID        string
	Name           string
	Email          string
	ContactNumber  string
	Status         string
	ExecutorUserID *string
	InviteToken    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type DelegationFilter struct {
	Status string
	Search string
}

type UpdatePatch struct {
	Name          *string
	Email         *string
	ContactNumber *string
}

// InvitePayload is the claim set carried by an invite token.
type InvitePayload struct {
	DelegationID  string
	OwnerID       string
	ExecutorEmail string
}

type TokenCodec interface {
	Issue(payload InvitePayload, ttl time.Duration) (string, error)
	Verify(token string) (InvitePayload, error)
}

// Session is the already-verified identity attached to a request by the
// external auth layer.
type Session struct {
	UserID string
	Role   string
	Email  string
}

// Account is the read model of the identity directory this module consumes.
type Account struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

type NewAccountInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

type IdentityDirectory interface {
	FindByID(ctx context.Context, userID string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, bool, error)
	Create(ctx context.Context, input NewAccountInput) (Account, error)
	AppendDelegation(ctx context.Context, userID string, delegationID string) error
}

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// NotificationGateway dispatches transactional email. Callers treat sends as
// fire-and-forget: failures are logged, never escalated.
type NotificationGateway interface {
	Send(ctx context.Context, message Message) error
}

// Repository owns DelegationRecord persistence. The two Transition methods
// are conditional updates guarded on Status == pending at the storage layer
// so concurrent double-submission resolves to exactly one winner; both clear
// the invite token.
type Repository interface {
	Create(ctx context.Context, record DelegationRecord) error
	AttachToken(ctx context.Context, delegationID string, token string, now time.Time) error
	FindByID(ctx context.Context, delegationID string) (DelegationRecord, error)
	FindByOwner(ctx context.Context, ownerID string, filter DelegationFilter) ([]DelegationRecord, error)
	FindApprovedByEmail(ctx context.Context, email string) (DelegationRecord, bool, error)
	TransitionToApproved(ctx context.Context, delegationID string, executorUserID string, now time.Time) (DelegationRecord, error)
	TransitionToRevoked(ctx context.Context, delegationID string, now time.Time) (DelegationRecord, error)
	UpdateFields(ctx context.Context, delegationID string, ownerID string, patch UpdatePatch, now time.Time) (DelegationRecord, error)
	Delete(ctx context.Context, delegationID string, ownerID string) error
}
