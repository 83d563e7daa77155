package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domainerrors "placerly/contexts/finance-records/record-vault/domain/errors"
	"placerly/contexts/finance-records/record-vault/ports"
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

func (r *Repository) Create(ctx context.Context, record ports.FinancialRecord) error {
	row := recordModelFromPort(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidRequest
		}
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, recordID string, ownerID string) (ports.FinancialRecord, error) {
	var row recordModel
	err := r.db.WithContext(ctx).
		Where("record_id = ? AND owner_id = ?", recordID, ownerID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.FinancialRecord{}, domainerrors.ErrRecordNotFound
		}
		return ports.FinancialRecord{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) FindByOwner(ctx context.Context, ownerID string, filter ports.RecordFilter) ([]ports.FinancialRecord, error) {
	tx := r.db.WithContext(ctx).
		Model(&recordModel{}).
		Where("owner_id = ?", ownerID)
	if filter.RecordType != "" {
		tx = tx.Where("record_type = ?", filter.RecordType)
	}
	if filter.Search != "" {
		tx = tx.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var rows []recordModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.FinancialRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) UpdateFields(ctx context.Context, recordID string, ownerID string, patch ports.RecordPatch, now time.Time) (ports.FinancialRecord, error) {
	fields := map[string]any{"updated_at": now.UTC()}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.AccountNumber != nil {
		fields["account_number"] = *patch.AccountNumber
	}
	if patch.Provider != nil {
		fields["provider"] = *patch.Provider
	}
	if patch.Amount != nil {
		fields["amount"] = *patch.Amount
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}

	result := r.db.WithContext(ctx).
		Model(&recordModel{}).
		Where("record_id = ? AND owner_id = ?", recordID, ownerID).
		Updates(fields)
	if result.Error != nil {
		return ports.FinancialRecord{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.FinancialRecord{}, domainerrors.ErrRecordNotFound
	}
	return r.FindByID(ctx, recordID, ownerID)
}

func (r *Repository) Delete(ctx context.Context, recordID string, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("record_id = ? AND owner_id = ?", recordID, ownerID).
		Delete(&recordModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) SummarizeByType(ctx context.Context, ownerID string) ([]ports.TypeSummary, error) {
	type summaryRow struct {
		RecordType string          `gorm:"column:record_type"`
		Count      int             `gorm:"column:count"`
		Total      decimal.Decimal `gorm:"column:total"`
	}

	var rows []summaryRow
	err := r.db.WithContext(ctx).
		Model(&recordModel{}).
		Select("record_type, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("owner_id = ?", ownerID).
		Group("record_type").
		Order("record_type ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.TypeSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.TypeSummary{
			RecordType: row.RecordType,
			Count:      row.Count,
			Total:      row.Total,
		})
	}
	return items, nil
}

type recordModel struct {
	RecordID      string          `gorm:"column:record_id;primaryKey"`
	OwnerID       string          `gorm:"column:owner_id;index"`
	RecordType    string          `gorm:"column:record_type;index"`
	Name          string          `gorm:"column:name"`
	AccountNumber string          `gorm:"column:account_number"`
	Provider      string          `gorm:"column:provider"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(18,2)"`
	Notes         string          `gorm:"column:notes"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (recordModel) TableName() string {
	return "financial_records"
}

func (m recordModel) toPort() ports.FinancialRecord {
	return ports.FinancialRecord{
		RecordID:      m.RecordID,
		OwnerID:       m.OwnerID,
		RecordType:    m.RecordType,
		Name:          m.Name,
		AccountNumber: m.AccountNumber,
		Provider:      m.Provider,
		Amount:        m.Amount,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func recordModelFromPort(record ports.FinancialRecord) recordModel {
	return recordModel{
		RecordID:      record.RecordID,
		OwnerID:       record.OwnerID,
		RecordType:    record.RecordType,
		Name:          record.Name,
		AccountNumber: record.AccountNumber,
		Provider:      record.Provider,
		Amount:        record.Amount,
		Notes:         record.Notes,
		CreatedAt:     record.CreatedAt.UTC(),
		UpdatedAt:     record.UpdatedAt.UTC(),
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
