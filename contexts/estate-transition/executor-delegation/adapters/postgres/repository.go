package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	"placerly/contexts/estate-transition/executor-delegation/ports"
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

func (r *Repository) Create(ctx context.Context, record ports.DelegationRecord) error {
	row := delegationModelFromPort(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidRequest
		}
		return err
	}
	return nil
}

func (r *Repository) AttachToken(ctx context.Context, delegationID string, token string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&delegationModel{}).
		Where("delegation_id = ?", delegationID).
		Updates(map[string]any{
			"invite_token": token,
			"updated_at":   now.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrExecutorNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, delegationID string) (ports.DelegationRecord, error) {
	var row delegationModel
	err := r.db.WithContext(ctx).
		Where("delegation_id = ?", delegationID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DelegationRecord{}, domainerrors.ErrExecutorNotFound
		}
		return ports.DelegationRecord{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) FindByOwner(ctx context.Context, ownerID string, filter ports.DelegationFilter) ([]ports.DelegationRecord, error) {
	tx := r.db.WithContext(ctx).
		Model(&delegationModel{}).
		Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		tx = tx.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var rows []delegationModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.DelegationRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) FindApprovedByEmail(ctx context.Context, email string) (ports.DelegationRecord, bool, error) {
	var row delegationModel
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ? AND status = ?", strings.ToLower(strings.TrimSpace(email)), ports.StatusApproved).
		Order("updated_at DESC, delegation_id DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DelegationRecord{}, false, nil
		}
		return ports.DelegationRecord{}, false, err
	}
	return row.toPort(), true, nil
}

func (r *Repository) TransitionToApproved(ctx context.Context, delegationID string, executorUserID string, now time.Time) (ports.DelegationRecord, error) {
	return r.transition(ctx, delegationID, map[string]any{
		"status":           ports.StatusApproved,
		"executor_user_id": executorUserID,
		"invite_token":     nil,
		"updated_at":       now.UTC(),
	})
}

func (r *Repository) TransitionToRevoked(ctx context.Context, delegationID string, now time.Time) (ports.DelegationRecord, error) {
	return r.transition(ctx, delegationID, map[string]any{
		"status":       ports.StatusRevoked,
		"invite_token": nil,
		"updated_at":   now.UTC(),
	})
}

// transition is a conditional update on status = pending so that of two
// simultaneous submissions exactly one write wins; the loser observes zero
// affected rows and reports the terminal state.
func (r *Repository) transition(ctx context.Context, delegationID string, fields map[string]any) (ports.DelegationRecord, error) {
	result := r.db.WithContext(ctx).
		Model(&delegationModel{}).
		Where("delegation_id = ? AND status = ?", delegationID, ports.StatusPending).
		Updates(fields)
	if result.Error != nil {
		return ports.DelegationRecord{}, result.Error
	}
	if result.RowsAffected == 0 {
		var row delegationModel
		err := r.db.WithContext(ctx).
			Where("delegation_id = ?", delegationID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.DelegationRecord{}, domainerrors.ErrExecutorNotFound
			}
			return ports.DelegationRecord{}, err
		}
		return ports.DelegationRecord{}, domainerrors.ErrInvalidState
	}
	return r.FindByID(ctx, delegationID)
}

func (r *Repository) UpdateFields(ctx context.Context, delegationID string, ownerID string, patch ports.UpdatePatch, now time.Time) (ports.DelegationRecord, error) {
	fields := map[string]any{"updated_at": now.UTC()}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.ContactNumber != nil {
		fields["contact_number"] = *patch.ContactNumber
	}

	result := r.db.WithContext(ctx).
		Model(&delegationModel{}).
		Where("delegation_id = ? AND owner_id = ?", delegationID, ownerID).
		Updates(fields)
	if result.Error != nil {
		return ports.DelegationRecord{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.DelegationRecord{}, domainerrors.ErrExecutorNotFound
	}
	return r.FindByID(ctx, delegationID)
}

func (r *Repository) Delete(ctx context.Context, delegationID string, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("delegation_id = ? AND owner_id = ?", delegationID, ownerID).
		Delete(&delegationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrExecutorNotFound
	}
	return nil
}

type delegationModel struct {
	DelegationID   string    `gorm:"column:delegation_id;primaryKey"`
	OwnerID        string    `gorm:"column:owner_id;index"`
	Name           string    `gorm:"column:name"`
	Email          string    `gorm:"column:email;index"`
	ContactNumber  string    `gorm:"column:contact_number"`
	Status         string    `gorm:"column:status"`
	ExecutorUserID *string   `gorm:"column:executor_user_id"`
	InviteToken    *string   `gorm:"column:invite_token"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (delegationModel) TableName() string {
	return "executor_delegations"
}

func (m delegationModel) toPort() ports.DelegationRecord {
	return ports.DelegationRecord{
		DelegationID:   m.DelegationID,
		OwnerID:        m.OwnerID,
		Name:           m.Name,
		Email:          m.Email,
		ContactNumber:  m.ContactNumber,
		Status:         m.Status,
		ExecutorUserID: m.ExecutorUserID,
		InviteToken:    m.InviteToken,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func delegationModelFromPort(record ports.DelegationRecord) delegationModel {
	return delegationModel{
		DelegationID:   record.DelegationID,
		OwnerID:        record.OwnerID,
		Name:           record.Name,
		Email:          record.Email,
		ContactNumber:  record.ContactNumber,
		Status:         record.Status,
		ExecutorUserID: record.ExecutorUserID,
		InviteToken:    record.InviteToken,
		CreatedAt:      record.CreatedAt.UTC(),
		UpdatedAt:      record.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ ports.Repository = (*Repository)(nil)
