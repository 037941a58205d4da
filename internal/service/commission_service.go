package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/mapper"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommissionService reads commissions and runs the payment-state sweep.
// Creation is settlement-only and lives in SettlementService.
type CommissionService struct {
	commissionRepo *repository.CommissionRepository
	logger         *zap.Logger
}

func NewCommissionService(commissionRepo *repository.CommissionRepository, logger *zap.Logger) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		logger:         logger,
	}
}

func (s *CommissionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommissionResponse, error) {
	commission, err := s.commissionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get commission: %w", err)
	}
	resp := mapper.ToCommissionResponse(commission)
	return &resp, nil
}

func (s *CommissionService) List(ctx context.Context, page, pageSize int, status *domain.CommissionStatus) (*domain.PaginatedResponse[domain.CommissionResponse], error) {
	commissions, total, err := s.commissionRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	resp := mapper.Paginate(mapper.ToCommissionResponses(commissions), total, page, pageSize)
	return &resp, nil
}

func (s *CommissionService) GetByNegotiation(ctx context.Context, negotiationID uuid.UUID) ([]domain.CommissionResponse, error) {
	commissions, err := s.commissionRepo.GetByNegotiation(ctx, negotiationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	return mapper.ToCommissionResponses(commissions), nil
}

// SweepOverdue flips pending commissions past their payment date.
func (s *CommissionService) SweepOverdue(ctx context.Context) (int64, error) {
	flipped, err := s.commissionRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep overdue commissions: %w", err)
	}
	if flipped > 0 {
		s.logger.Info("commissions marked overdue", zap.Int64("count", flipped))
	}
	return flipped, nil
}
