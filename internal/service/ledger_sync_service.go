package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jao1224/crmimobiliaria-sub000/internal/ledger"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"go.uber.org/zap"
)

// LedgerSyncService reconciles commission payment state against the
// agency's accounting ERP. The settlement core never touches payment
// status; this collaborator owns Pending to Paid/Overdue transitions.
type LedgerSyncService struct {
	commissionRepo *repository.CommissionRepository
	ledger         *ledger.Client
	logger         *zap.Logger
}

func NewLedgerSyncService(
	commissionRepo *repository.CommissionRepository,
	ledgerClient *ledger.Client,
	logger *zap.Logger,
) *LedgerSyncService {
	return &LedgerSyncService{
		commissionRepo: commissionRepo,
		ledger:         ledgerClient,
		logger:         logger,
	}
}

// Reconcile marks pending commissions paid when the ERP has a booked
// settlement payment for the negotiation code, then flips the remaining
// pending ones past their payment date to overdue. The overdue sweep
// runs even when the ledger is unavailable.
func (s *LedgerSyncService) Reconcile(ctx context.Context) (int, int64, error) {
	paid := 0

	if s.ledger.IsEnabled() {
		pending, err := s.commissionRepo.ListPending(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to list pending commissions: %w", err)
		}

		for i := range pending {
			commission := &pending[i]
			if commission.Negotiation == nil || commission.Negotiation.Code == "" {
				continue
			}

			payment, err := s.ledger.FindPayment(ctx, commission.Negotiation.Code)
			if err != nil {
				s.logger.Warn("ledger lookup failed",
					zap.String("commission_id", commission.ID.String()),
					zap.String("reference", commission.Negotiation.Code),
					zap.Error(err),
				)
				continue
			}
			if payment == nil {
				continue
			}

			if err := s.commissionRepo.MarkPaid(ctx, commission.ID, payment.DocumentNo); err != nil {
				s.logger.Warn("failed to mark commission paid",
					zap.String("commission_id", commission.ID.String()),
					zap.Error(err),
				)
				continue
			}
			paid++
		}
	}

	overdue, err := s.commissionRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		return paid, 0, fmt.Errorf("failed to sweep overdue commissions: %w", err)
	}

	return paid, overdue, nil
}
