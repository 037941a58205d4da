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

type ProcessService struct {
	processRepo     *repository.ProcessRepository
	negotiationRepo *repository.NegotiationRepository
	logger          *zap.Logger
}

func NewProcessService(
	processRepo *repository.ProcessRepository,
	negotiationRepo *repository.NegotiationRepository,
	logger *zap.Logger,
) *ProcessService {
	return &ProcessService{
		processRepo:     processRepo,
		negotiationRepo: negotiationRepo,
		logger:          logger,
	}
}

// Create opens an administrative process, snapshotting the negotiation
// code when a link is given.
func (s *ProcessService) Create(ctx context.Context, req *domain.CreateProcessRequest) (*domain.Process, error) {
	process := &domain.Process{
		NegotiationID: req.NegotiationID,
		Title:         req.Title,
		Status:        domain.ProcessStatusActive,
		Stage:         domain.ProcessStageInProgress,
		Team:          req.Team,
		Observations:  req.Observations,
	}

	if req.NegotiationID != nil {
		negotiation, err := s.negotiationRepo.GetByID(ctx, *req.NegotiationID)
		if err != nil {
			return nil, fmt.Errorf("negotiation not found: %w", err)
		}
		if negotiation.IsDeleted {
			return nil, ErrRecordDeleted
		}
		process.NegotiationCode = negotiation.Code
	}

	if err := s.processRepo.Create(ctx, process); err != nil {
		return nil, fmt.Errorf("failed to create process: %w", err)
	}
	return process, nil
}

func (s *ProcessService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Process, error) {
	process, err := s.processRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get process: %w", err)
	}
	return process, nil
}

// Update applies a partial edit. Finalized processes are read-only;
// settlement is the only writer allowed to finalize.
func (s *ProcessService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProcessRequest) (*domain.Process, error) {
	process, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if process.Status == domain.ProcessStatusFinalized {
		return nil, ErrAlreadyCompleted
	}

	if req.Status != nil {
		process.Status = *req.Status
	}
	if req.Stage != nil {
		process.Stage = *req.Stage
	}
	if req.Team != nil {
		process.Team = req.Team
	}
	if req.Observations != nil {
		process.Observations = *req.Observations
	}

	if err := s.processRepo.Update(ctx, process); err != nil {
		return nil, fmt.Errorf("failed to update process: %w", err)
	}
	return process, nil
}

func (s *ProcessService) List(ctx context.Context, page, pageSize int, status *domain.ProcessStatus) ([]domain.Process, int64, error) {
	return s.processRepo.List(ctx, page, pageSize, status)
}

func (s *ProcessService) GetByNegotiation(ctx context.Context, negotiationID uuid.UUID) ([]domain.Process, error) {
	return s.processRepo.GetByNegotiation(ctx, negotiationID)
}
