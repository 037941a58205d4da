package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) Create(ctx context.Context, commission *domain.Commission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(commission).Error
}

func (r *CommissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Commission, error) {
	var commission domain.Commission
	err := r.db.WithContext(ctx).
		Preload("Negotiation").
		Where("id = ?", id).
		First(&commission).Error
	if err != nil {
		return nil, err
	}
	return &commission, nil
}

func (r *CommissionRepository) GetByNegotiation(ctx context.Context, negotiationID uuid.UUID) ([]domain.Commission, error) {
	var commissions []domain.Commission
	err := r.db.WithContext(ctx).
		Where("negotiation_id = ?", negotiationID).
		Order("created_at DESC").
		Find(&commissions).Error
	return commissions, err
}

func (r *CommissionRepository) List(ctx context.Context, page, pageSize int, status *domain.CommissionStatus) ([]domain.Commission, int64, error) {
	var commissions []domain.Commission
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Commission{}).Preload("Negotiation")

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("payment_date ASC").Find(&commissions).Error

	return commissions, total, err
}

// ListPending returns pending commissions, oldest payment date first.
// Used by the ledger reconciliation job.
func (r *CommissionRepository) ListPending(ctx context.Context) ([]domain.Commission, error) {
	var commissions []domain.Commission
	err := r.db.WithContext(ctx).
		Preload("Negotiation").
		Where("status = ?", domain.CommissionPending).
		Order("payment_date ASC").
		Find(&commissions).Error
	return commissions, err
}

// MarkPaid records a ledger match.
func (r *CommissionRepository) MarkPaid(ctx context.Context, id uuid.UUID, ledgerRef string) error {
	updates := map[string]interface{}{
		"status":     domain.CommissionPaid,
		"ledger_ref": ledgerRef,
		"updated_at": time.Now(),
	}
	return r.db.WithContext(ctx).Model(&domain.Commission{}).Where("id = ?", id).Updates(updates).Error
}

// MarkOverdue flips pending commissions whose payment date passed.
func (r *CommissionRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Commission{}).
		Where("status = ?", domain.CommissionPending).
		Where("payment_date < ?", now).
		Updates(map[string]interface{}{
			"status":     domain.CommissionOverdue,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
