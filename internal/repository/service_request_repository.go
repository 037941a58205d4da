package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"gorm.io/gorm"
)

type ServiceRequestRepository struct {
	db *gorm.DB
}

func NewServiceRequestRepository(db *gorm.DB) *ServiceRequestRepository {
	return &ServiceRequestRepository{db: db}
}

func (r *ServiceRequestRepository) Create(ctx context.Context, request *domain.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *ServiceRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error) {
	var request domain.ServiceRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// SetStatus updates only the routing status.
func (r *ServiceRequestRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.ServiceRequestStatus) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	return r.db.WithContext(ctx).Model(&domain.ServiceRequest{}).Where("id = ?", id).Updates(updates).Error
}

func (r *ServiceRequestRepository) List(ctx context.Context, page, pageSize int, requestType *domain.ServiceRequestType, status *domain.ServiceRequestStatus) ([]domain.ServiceRequest, int64, error) {
	var requests []domain.ServiceRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ServiceRequest{})

	if requestType != nil {
		query = query.Where("type = ?", *requestType)
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&requests).Error

	return requests, total, err
}
