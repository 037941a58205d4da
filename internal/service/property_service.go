package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PropertyService struct {
	propertyRepo *repository.PropertyRepository
	logger       *zap.Logger
}

func NewPropertyService(propertyRepo *repository.PropertyRepository, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

func (s *PropertyService) Create(ctx context.Context, req *domain.CreatePropertyRequest, captorID string) (*domain.Property, error) {
	property := &domain.Property{
		Code:      req.Code,
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		Type:      req.Type,
		Value:     req.Value,
		Status:    domain.PropertyAvailable,
		CaptorID:  captorID,
		OwnerInfo: req.OwnerInfo,
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return property, nil
}

func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return property, nil
}

func (s *PropertyService) List(ctx context.Context, page, pageSize int, status *domain.PropertyStatus, search string) ([]domain.Property, int64, error) {
	return s.propertyRepo.List(ctx, page, pageSize, status, search)
}
