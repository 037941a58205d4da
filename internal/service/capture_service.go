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

type CaptureService struct {
	captureRepo *repository.CaptureRepository
	logger      *zap.Logger
}

func NewCaptureService(captureRepo *repository.CaptureRepository, logger *zap.Logger) *CaptureService {
	return &CaptureService{
		captureRepo: captureRepo,
		logger:      logger,
	}
}

func (s *CaptureService) Create(ctx context.Context, req *domain.CreateCaptureRequest, realtorID string) (*domain.Capture, error) {
	capture := &domain.Capture{
		PropertyName: req.PropertyName,
		RealtorID:    realtorID,
		Value:        req.Value,
		Status:       domain.ActivityStatusActive,
		Notes:        req.Notes,
	}
	if err := s.captureRepo.Create(ctx, capture); err != nil {
		return nil, fmt.Errorf("failed to create capture: %w", err)
	}
	return capture, nil
}

func (s *CaptureService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Capture, error) {
	capture, err := s.captureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get capture: %w", err)
	}
	return capture, nil
}

func (s *CaptureService) List(ctx context.Context, page, pageSize int) ([]domain.Capture, int64, error) {
	return s.captureRepo.List(ctx, page, pageSize)
}
