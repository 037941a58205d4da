package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"gorm.io/gorm"
)

type CaptureRepository struct {
	db *gorm.DB
}

func NewCaptureRepository(db *gorm.DB) *CaptureRepository {
	return &CaptureRepository{db: db}
}

func (r *CaptureRepository) Create(ctx context.Context, capture *domain.Capture) error {
	return r.db.WithContext(ctx).Create(capture).Error
}

func (r *CaptureRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Capture, error) {
	var capture domain.Capture
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&capture).Error
	if err != nil {
		return nil, err
	}
	return &capture, nil
}

func (r *CaptureRepository) Update(ctx context.Context, capture *domain.Capture) error {
	return r.db.WithContext(ctx).Save(capture).Error
}

// SetStatus updates only the kanban activity status.
func (r *CaptureRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.ActivityStatus) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	return r.db.WithContext(ctx).Model(&domain.Capture{}).Where("id = ?", id).Updates(updates).Error
}

// GetByRealtor returns a realtor's captures for the activity board.
func (r *CaptureRepository) GetByRealtor(ctx context.Context, realtorID string) ([]domain.Capture, error) {
	var captures []domain.Capture
	err := r.db.WithContext(ctx).
		Where("realtor_id = ?", realtorID).
		Order("updated_at DESC").
		Find(&captures).Error
	return captures, err
}

func (r *CaptureRepository) List(ctx context.Context, page, pageSize int) ([]domain.Capture, int64, error) {
	var captures []domain.Capture
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Capture{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&captures).Error

	return captures, total, err
}
