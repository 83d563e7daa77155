package ports

import (
	"context"
	"time"
)

const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleExecutor = "executor"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleExecutor:
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

// Account is the durable identity root. Delegations is a back-reference
// list of delegation record ids the account participates in; forward
// ownership lives on the delegation records themselves. PasswordHash is a
// bcrypt digest; the raw credential is never stored.
type Account struct {
	UserID       string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	Status       string
	Delegations  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type NewAccountInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

type Repository interface {
	FindByID(ctx context.Context, userID string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, bool, error)
	Create(ctx context.Context, account Account) error
	AppendDelegation(ctx context.Context, userID string, delegationID string, now time.Time) error
}
