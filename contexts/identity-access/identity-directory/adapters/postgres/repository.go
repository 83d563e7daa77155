package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "placerly/contexts/identity-access/identity-directory/domain/errors"
	"placerly/contexts/identity-access/identity-directory/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) FindByID(ctx context.Context, userID string) (ports.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Account{}, domainerrors.ErrAccountNotFound
		}
		return ports.Account{}, err
	}
	return r.toPort(ctx, row)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (ports.Account, bool, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Account{}, false, nil
		}
		return ports.Account{}, false, err
	}
	account, err := r.toPort(ctx, row)
	if err != nil {
		return ports.Account{}, false, err
	}
	return account, true, nil
}

func (r *Repository) Create(ctx context.Context, account ports.Account) error {
	row := accountModelFromPort(account)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) AppendDelegation(ctx context.Context, userID string, delegationID string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&accountModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrAccountNotFound
		}

		link := accountDelegationModel{
			UserID:       userID,
			DelegationID: delegationID,
			CreatedAt:    now.UTC(),
		}
		if err := tx.Create(&link).Error; err != nil {
			// Re-linking the same delegation is a no-op.
			if isUniqueViolation(err) {
				return nil
			}
			return err
		}
		return tx.Model(&accountModel{}).
			Where("user_id = ?", userID).
			Update("updated_at", now.UTC()).
			Error
	})
}

func (r *Repository) toPort(ctx context.Context, row accountModel) (ports.Account, error) {
	var links []accountDelegationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", row.UserID).
		Order("created_at ASC").
		Find(&links).
		Error; err != nil {
		return ports.Account{}, err
	}

	account := row.toPort()
	for _, link := range links {
		account.Delegations = append(account.Delegations, link.DelegationID)
	}
	return account, nil
}

type accountModel struct {
	UserID       string    `gorm:"column:user_id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Phone        string    `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "accounts"
}

func (m accountModel) toPort() ports.Account {
	return ports.Account{
		UserID:       m.UserID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func accountModelFromPort(account ports.Account) accountModel {
	return accountModel{
		UserID:       account.UserID,
		Name:         account.Name,
		Email:        account.Email,
		Phone:        account.Phone,
		PasswordHash: account.PasswordHash,
		Role:         account.Role,
		Status:       account.Status,
		CreatedAt:    account.CreatedAt.UTC(),
		UpdatedAt:    account.UpdatedAt.UTC(),
	}
}

// accountDelegationModel is the back-reference list of delegation ids an
// account participates in.
type accountDelegationModel struct {
	UserID       string    `gorm:"column:user_id;primaryKey"`
	DelegationID string    `gorm:"column:delegation_id;primaryKey"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (accountDelegationModel) TableName() string {
	return "account_delegations"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ ports.Repository = (*Repository)(nil)
