package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paymentTerm is how long after settlement a commission falls due.
const paymentTerm = 30 * 24 * time.Hour

// SettlementService finalizes negotiations. All settlement writes happen
// in one store transaction: either every record changes or none does.
type SettlementService struct {
	negotiationRepo *repository.NegotiationRepository
	commissionRate  float64
	logger          *zap.Logger
	db              *gorm.DB
}

func NewSettlementService(
	negotiationRepo *repository.NegotiationRepository,
	commissionRate float64,
	logger *zap.Logger,
	db *gorm.DB,
) *SettlementService {
	return &SettlementService{
		negotiationRepo: negotiationRepo,
		commissionRate:  commissionRate,
		logger:          logger,
		db:              db,
	}
}

// CompleteSale settles a negotiation. A second call on an already
// settled negotiation returns a structured failure and performs no
// writes, so commissions are never duplicated.
func (s *SettlementService) CompleteSale(ctx context.Context, id uuid.UUID, note string, role domain.UserRoleType, userID string) (*domain.SettlementResult, error) {
	negotiation, err := s.negotiationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get negotiation: %w", err)
	}

	if negotiation.IsDeleted {
		return nil, ErrRecordDeleted
	}

	if negotiation.IsCompleted() {
		return &domain.SettlementResult{
			Success: false,
			Message: fmt.Sprintf("negotiation %s is already completed", negotiation.Code),
		}, nil
	}

	now := time.Now()
	stage := domain.StageSaleCompleted
	if negotiation.Type == domain.TypeRental {
		stage = domain.StageRentalActive
	}

	observations := negotiation.Observations
	if note != "" {
		if observations != "" {
			observations += "\n"
		}
		observations += note
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"stage":           stage,
			"contract_status": domain.ContractSigned,
			"completion_date": now,
			"observations":    observations,
			"status":          domain.ActivityStatusCompleted,
			"process_status":  domain.ProcessStatusFinalized,
			"process_stage":   domain.ProcessStageFinalized,
			"updated_at":      now,
		}
		if err := tx.Model(&domain.Negotiation{}).Where("id = ?", negotiation.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update negotiation: %w", err)
		}

		if negotiation.Type == domain.TypeSale {
			commission := &domain.Commission{
				NegotiationID: negotiation.ID,
				Amount:        negotiation.Value * s.commissionRate,
				Status:        domain.CommissionPending,
				PaymentDate:   now.Add(paymentTerm),
				Involved:      s.involvedText(negotiation),
			}
			if err := tx.Omit(clause.Associations).Create(commission).Error; err != nil {
				return fmt.Errorf("failed to create commission: %w", err)
			}

			if negotiation.PropertyID != nil {
				propertyUpdates := map[string]interface{}{
					"status":     domain.PropertySold,
					"updated_at": now,
				}
				if err := tx.Model(&domain.Property{}).Where("id = ?", *negotiation.PropertyID).Updates(propertyUpdates).Error; err != nil {
					return fmt.Errorf("failed to mark property sold: %w", err)
				}
			}
		}

		processUpdates := map[string]interface{}{
			"status":     domain.ProcessStatusFinalized,
			"stage":      domain.ProcessStageFinalized,
			"updated_at": now,
		}
		if err := tx.Model(&domain.Process{}).Where("negotiation_id = ?", negotiation.ID).Updates(processUpdates).Error; err != nil {
			return fmt.Errorf("failed to finalize linked processes: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("settlement failed",
			zap.String("negotiation_id", negotiation.ID.String()),
			zap.String("code", negotiation.Code),
			zap.Error(err),
		)
		return nil, fmt.Errorf("settlement failed: %w", err)
	}

	s.logger.Info("negotiation settled",
		zap.String("negotiation_id", negotiation.ID.String()),
		zap.String("code", negotiation.Code),
		zap.String("stage", string(stage)),
		zap.String("actor", userID),
	)

	return &domain.SettlementResult{
		Success: true,
		Message: fmt.Sprintf("negotiation %s completed", negotiation.Code),
	}, nil
}

func (s *SettlementService) involvedText(n *domain.Negotiation) string {
	involved := "Salesperson: " + fallback(n.SalespersonName, n.SalespersonID)
	if n.RealtorID != "" || n.RealtorName != "" {
		involved += "; Realtor: " + fallback(n.RealtorName, n.RealtorID)
	}
	return involved
}

func fallback(value, alt string) string {
	if value != "" {
		return value
	}
	return alt
}
