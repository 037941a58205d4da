package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"github.com/jao1224/crmimobiliaria-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func newSettlementService(db *gorm.DB) *SettlementService {
	return NewSettlementService(repository.NewNegotiationRepository(db), 0.05, zap.NewNop(), db)
}

func TestSettlementService_CompleteSale(t *testing.T) {
	ctx := context.Background()

	t.Run("settles a sale atomically", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newSettlementService(db)

		property := testutil.CreateTestProperty(t, db, "IMV-001", "Casa Jardins", 750000)
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-001", func(n *domain.Negotiation) {
			n.PropertyID = &property.ID
			n.PropertyName = property.Name
			n.SalespersonName = "Vendedor Um"
			n.Stage = domain.StageContractGenerated
			n.ContractStatus = domain.ContractPendingSignatures
			n.Value = 750000
		})

		process := &domain.Process{
			NegotiationID:   &negotiation.ID,
			NegotiationCode: negotiation.Code,
			Title:           "Escritura e registro",
			Status:          domain.ProcessStatusActive,
			Stage:           domain.ProcessStageInProgress,
		}
		require.NoError(t, db.Omit(clause.Associations).Create(process).Error)

		result, err := svc.CompleteSale(ctx, negotiation.ID, "Pagamento à vista", domain.RoleAdmin, "admin-1")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Contains(t, result.Message, negotiation.Code)

		var reloaded domain.Negotiation
		require.NoError(t, db.First(&reloaded, "id = ?", negotiation.ID).Error)
		assert.Equal(t, domain.StageSaleCompleted, reloaded.Stage)
		assert.Equal(t, domain.ContractSigned, reloaded.ContractStatus)
		assert.NotNil(t, reloaded.CompletionDate)
		assert.Equal(t, domain.ActivityStatusCompleted, reloaded.Status)
		assert.Equal(t, domain.ProcessStatusFinalized, reloaded.ProcessStatus)
		assert.Equal(t, domain.ProcessStageFinalized, reloaded.ProcessStage)
		assert.Contains(t, reloaded.Observations, "Pagamento à vista")

		var commission domain.Commission
		require.NoError(t, db.First(&commission, "negotiation_id = ?", negotiation.ID).Error)
		assert.Equal(t, float64(37500), commission.Amount)
		assert.Equal(t, domain.CommissionPending, commission.Status)
		assert.Contains(t, commission.Involved, "Vendedor Um")

		var reloadedProperty domain.Property
		require.NoError(t, db.First(&reloadedProperty, "id = ?", property.ID).Error)
		assert.Equal(t, domain.PropertySold, reloadedProperty.Status)

		var reloadedProcess domain.Process
		require.NoError(t, db.First(&reloadedProcess, "id = ?", process.ID).Error)
		assert.Equal(t, domain.ProcessStatusFinalized, reloadedProcess.Status)
		assert.Equal(t, domain.ProcessStageFinalized, reloadedProcess.Stage)
	})

	t.Run("settles a rental without commission", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newSettlementService(db)

		property := testutil.CreateTestProperty(t, db, "IMV-002", "Apartamento Centro", 3500)
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-002", func(n *domain.Negotiation) {
			n.PropertyID = &property.ID
			n.Type = domain.TypeRental
			n.Value = 3500
		})

		result, err := svc.CompleteSale(ctx, negotiation.ID, "", domain.RoleAgency, "agency-1")
		require.NoError(t, err)
		assert.True(t, result.Success)

		var reloaded domain.Negotiation
		require.NoError(t, db.First(&reloaded, "id = ?", negotiation.ID).Error)
		assert.Equal(t, domain.StageRentalActive, reloaded.Stage)

		var count int64
		require.NoError(t, db.Model(&domain.Commission{}).Where("negotiation_id = ?", negotiation.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)

		// Rental settlement leaves the property untouched.
		var reloadedProperty domain.Property
		require.NoError(t, db.First(&reloadedProperty, "id = ?", property.ID).Error)
		assert.Equal(t, domain.PropertyAvailable, reloadedProperty.Status)
	})

	t.Run("second completion is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newSettlementService(db)

		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-003", func(n *domain.Negotiation) {
			n.Value = 200000
		})

		first, err := svc.CompleteSale(ctx, negotiation.ID, "", domain.RoleAdmin, "admin-1")
		require.NoError(t, err)
		require.True(t, first.Success)

		second, err := svc.CompleteSale(ctx, negotiation.ID, "", domain.RoleAdmin, "admin-1")
		require.NoError(t, err)
		assert.False(t, second.Success)
		assert.Contains(t, second.Message, "already completed")

		var count int64
		require.NoError(t, db.Model(&domain.Commission{}).Where("negotiation_id = ?", negotiation.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rolls back everything when the commission write fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newSettlementService(db)

		property := testutil.CreateTestProperty(t, db, "IMV-003", "Terreno Norte", 90000)
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-004", func(n *domain.Negotiation) {
			n.PropertyID = &property.ID
			n.Value = 90000
		})

		err := db.Callback().Create().Before("gorm:create").Register("fail_commission_create", func(tx *gorm.DB) {
			if tx.Statement.Table == "commissions" {
				tx.AddError(errors.New("simulated write failure"))
			}
		})
		require.NoError(t, err)

		_, err = svc.CompleteSale(ctx, negotiation.ID, "", domain.RoleAdmin, "admin-1")
		require.Error(t, err)

		var reloaded domain.Negotiation
		require.NoError(t, db.First(&reloaded, "id = ?", negotiation.ID).Error)
		assert.Equal(t, domain.StageProposalSent, reloaded.Stage)
		assert.Nil(t, reloaded.CompletionDate)

		var reloadedProperty domain.Property
		require.NoError(t, db.First(&reloadedProperty, "id = ?", property.ID).Error)
		assert.Equal(t, domain.PropertyAvailable, reloadedProperty.Status)
	})

	t.Run("rejects deleted negotiation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newSettlementService(db)

		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-005", func(n *domain.Negotiation) {
			n.IsDeleted = true
		})

		_, err := svc.CompleteSale(ctx, negotiation.ID, "", domain.RoleAdmin, "admin-1")
		assert.ErrorIs(t, err, ErrRecordDeleted)
	})

	t.Run("unknown negotiation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newSettlementService(db)

		_, err := svc.CompleteSale(ctx, uuid.New(), "", domain.RoleAdmin, "admin-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
