package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(property).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var property domain.Property
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) GetByCode(ctx context.Context, code string) (*domain.Property, error) {
	var property domain.Property
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// SetStatus updates only the availability status.
func (r *PropertyRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.PropertyStatus) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	return r.db.WithContext(ctx).Model(&domain.Property{}).Where("id = ?", id).Updates(updates).Error
}

func (r *PropertyRepository) List(ctx context.Context, page, pageSize int, status *domain.PropertyStatus, search string) ([]domain.Property, int64, error) {
	var properties []domain.Property
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Property{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(city) LIKE ?",
			pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&properties).Error

	return properties, total, err
}
