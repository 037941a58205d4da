package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProcessRepository struct {
	db *gorm.DB
}

func NewProcessRepository(db *gorm.DB) *ProcessRepository {
	return &ProcessRepository{db: db}
}

func (r *ProcessRepository) Create(ctx context.Context, process *domain.Process) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(process).Error
}

func (r *ProcessRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Process, error) {
	var process domain.Process
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&process).Error
	if err != nil {
		return nil, err
	}
	return &process, nil
}

func (r *ProcessRepository) Update(ctx context.Context, process *domain.Process) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(process).Error
}

func (r *ProcessRepository) GetByNegotiation(ctx context.Context, negotiationID uuid.UUID) ([]domain.Process, error) {
	var processes []domain.Process
	err := r.db.WithContext(ctx).
		Where("negotiation_id = ?", negotiationID).
		Order("created_at DESC").
		Find(&processes).Error
	return processes, err
}

func (r *ProcessRepository) List(ctx context.Context, page, pageSize int, status *domain.ProcessStatus) ([]domain.Process, int64, error) {
	var processes []domain.Process
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Process{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&processes).Error

	return processes, total, err
}
