package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FinancingRepository struct {
	db *gorm.DB
}

func NewFinancingRepository(db *gorm.DB) *FinancingRepository {
	return &FinancingRepository{db: db}
}

func (r *FinancingRepository) Create(ctx context.Context, process *domain.FinancingProcess) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(process).Error
}

func (r *FinancingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancingProcess, error) {
	var process domain.FinancingProcess
	err := r.db.WithContext(ctx).
		Preload("Negotiation").
		Where("id = ?", id).
		First(&process).Error
	if err != nil {
		return nil, err
	}
	return &process, nil
}

func (r *FinancingRepository) GetByNegotiation(ctx context.Context, negotiationID uuid.UUID) (*domain.FinancingProcess, error) {
	var process domain.FinancingProcess
	err := r.db.WithContext(ctx).
		Where("negotiation_id = ?", negotiationID).
		First(&process).Error
	if err != nil {
		return nil, err
	}
	return &process, nil
}

func (r *FinancingRepository) Update(ctx context.Context, process *domain.FinancingProcess) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(process).Error
}

func (r *FinancingRepository) List(ctx context.Context, page, pageSize int, status *domain.FinancingStatus, pendencyOnly bool) ([]domain.FinancingProcess, int64, error) {
	var processes []domain.FinancingProcess
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.FinancingProcess{}).Preload("Negotiation")

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if pendencyOnly {
		query = query.Where("has_pendency = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&processes).Error

	return processes, total, err
}
