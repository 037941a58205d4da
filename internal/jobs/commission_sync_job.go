package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CommissionSyncJobName is the name of the commission reconciliation job
const CommissionSyncJobName = "commission_sync"

// CommissionReconciler matches pending commissions against the ERP
// ledger and sweeps overdue ones. The interface keeps the job decoupled
// from the service package.
type CommissionReconciler interface {
	// Reconcile returns how many commissions were marked paid and how
	// many flipped to overdue.
	Reconcile(ctx context.Context) (paid int, overdue int64, err error)
}

// CommissionSyncJob runs the periodic commission payment reconciliation.
type CommissionSyncJob struct {
	reconciler CommissionReconciler
	logger     *zap.Logger
	timeout    time.Duration
}

// NewCommissionSyncJob creates the job. The timeout bounds one full
// reconciliation run.
func NewCommissionSyncJob(reconciler CommissionReconciler, logger *zap.Logger, timeout time.Duration) *CommissionSyncJob {
	return &CommissionSyncJob{
		reconciler: reconciler,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run executes one reconciliation pass. Called by the scheduler.
func (j *CommissionSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	paid, overdue, err := j.reconciler.Reconcile(ctx)
	if err != nil {
		j.logger.Error("commission reconciliation failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("commission reconciliation completed",
		zap.Int("marked_paid", paid),
		zap.Int64("marked_overdue", overdue),
		zap.Duration("duration", time.Since(start)))
}

// RegisterCommissionSyncJob registers the reconciliation job with the
// scheduler under the given cron expression.
func RegisterCommissionSyncJob(scheduler *Scheduler, reconciler CommissionReconciler, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewCommissionSyncJob(reconciler, logger, timeout)
	return scheduler.AddJob(CommissionSyncJobName, cronExpr, job.Run)
}
