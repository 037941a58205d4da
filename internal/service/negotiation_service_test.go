package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"github.com/jao1224/crmimobiliaria-sub000/internal/testutil"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newNegotiationService(db *gorm.DB) *NegotiationService {
	return NewNegotiationService(
		repository.NewNegotiationRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewClientRepository(db),
		repository.NewUserRepository(db),
		repository.NewCodeSequenceRepository(db),
		zap.NewNop(),
	)
}

func createTestUser(t *testing.T, db *gorm.DB, id, name string, role domain.UserRoleType) {
	t.Helper()
	user := &domain.User{
		ID:       id,
		Email:    id + "@example.com",
		Name:     name,
		Roles:    pq.StringArray{string(role)},
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
}

func TestNegotiationService_Create(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newNegotiationService(db)

	property := testutil.CreateTestProperty(t, db, "IMV-010", "Casa Jardins", 500000)
	client := testutil.CreateTestClient(t, db, "Maria Silva", "")
	createTestUser(t, db, "seller-1", "Vendedor Um", domain.RoleSalesperson)
	createTestUser(t, db, "realtor-1", "Corretor Um", domain.RoleRealtor)

	t.Run("snapshots names and generates sequential codes", func(t *testing.T) {
		first, err := svc.Create(ctx, &domain.CreateNegotiationRequest{
			PropertyID: &property.ID,
			ClientID:   &client.ID,
			RealtorID:  "realtor-1",
			Type:       domain.TypeSale,
			Value:      500000,
		}, "seller-1")
		require.NoError(t, err)

		year := time.Now().Year()
		assert.Equal(t, fmt.Sprintf("NEG-%d-001", year), first.Code)
		assert.Equal(t, "Casa Jardins", first.PropertyName)
		assert.Equal(t, "IMV-010", first.PropertyCode)
		assert.Equal(t, "Maria Silva", first.ClientName)
		assert.Equal(t, "Vendedor Um", first.SalespersonName)
		assert.Equal(t, "Corretor Um", first.RealtorName)
		assert.Equal(t, domain.StageProposalSent, first.Stage)
		assert.Equal(t, domain.ContractNotGenerated, first.ContractStatus)

		second, err := svc.Create(ctx, &domain.CreateNegotiationRequest{
			Type:  domain.TypeRental,
			Value: 2500,
		}, "seller-1")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("NEG-%d-002", year), second.Code)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateNegotiationRequest{
			Type:  domain.NegotiationType("barter"),
			Value: 1000,
		}, "seller-1")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects missing property", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.Create(ctx, &domain.CreateNegotiationRequest{
			PropertyID: &missing,
			Type:       domain.TypeSale,
			Value:      1000,
		}, "seller-1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "property not found")
	})
}

func TestNegotiationService_Visibility(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newNegotiationService(db)

	client := testutil.CreateTestClient(t, db, "Maria Silva", "client-user-1")
	mine := testutil.CreateTestNegotiation(t, db, "NEG-2026-040", func(n *domain.Negotiation) {
		n.SalespersonID = "seller-1"
		n.ClientID = &client.ID
	})
	testutil.CreateTestNegotiation(t, db, "NEG-2026-041", func(n *domain.Negotiation) {
		n.SalespersonID = "someone-else"
	})

	t.Run("admin sees any record", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, mine.ID, domain.RoleAdmin, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, mine.Code, resp.Code)
	})

	t.Run("salesperson sees own record", func(t *testing.T) {
		_, err := svc.GetByID(ctx, mine.ID, domain.RoleSalesperson, "seller-1")
		assert.NoError(t, err)
	})

	t.Run("client matches through the linked user id", func(t *testing.T) {
		_, err := svc.GetByID(ctx, mine.ID, domain.RoleClient, "client-user-1")
		assert.NoError(t, err)
	})

	t.Run("unrelated user is forbidden", func(t *testing.T) {
		_, err := svc.GetByID(ctx, mine.ID, domain.RoleRealtor, "stranger")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin lists everything", func(t *testing.T) {
		resp, err := svc.ListVisible(ctx, domain.RoleAdmin, "admin-1", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("salesperson lists only participating records", func(t *testing.T) {
		resp, err := svc.ListVisible(ctx, domain.RoleSalesperson, "seller-1", nil)
		require.NoError(t, err)
		require.Equal(t, int64(1), resp.Total)
		assert.Equal(t, mine.Code, resp.Items[0].Code)
	})

	t.Run("admin-only filters are ignored for non-admins", func(t *testing.T) {
		// The rental filter would exclude the seller's sale record, but
		// type is an admin-only filter and gets stripped.
		rental := domain.TypeRental
		resp, err := svc.ListVisible(ctx, domain.RoleSalesperson, "seller-1", &domain.NegotiationFilters{Type: &rental})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)

		adminResp, err := svc.ListVisible(ctx, domain.RoleAdmin, "admin-1", &domain.NegotiationFilters{Type: &rental})
		require.NoError(t, err)
		assert.Equal(t, int64(0), adminResp.Total)
	})

	t.Run("stage filter applies to everyone", func(t *testing.T) {
		stage := domain.StageInNegotiation
		resp, err := svc.ListVisible(ctx, domain.RoleSalesperson, "seller-1", &domain.NegotiationFilters{Stage: &stage})
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Total)
	})
}

func TestNegotiationService_MoveStage(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newNegotiationService(db)

	t.Run("moves between open stages in both directions", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-050", nil)

		resp, err := svc.MoveStage(ctx, negotiation.ID, domain.StageInNegotiation, domain.RoleAdmin, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StageInNegotiation, resp.Stage)

		resp, err = svc.MoveStage(ctx, negotiation.ID, domain.StageProposalSent, domain.RoleAdmin, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StageProposalSent, resp.Stage)
	})

	t.Run("cannot drag into a terminal stage", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-051", nil)

		_, err := svc.MoveStage(ctx, negotiation.ID, domain.StageSaleCompleted, domain.RoleAdmin, "admin-1")
		assert.ErrorIs(t, err, ErrInvalidStageMove)
	})

	t.Run("completed negotiation is immovable", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-052", func(n *domain.Negotiation) {
			n.Stage = domain.StageSaleCompleted
		})

		_, err := svc.MoveStage(ctx, negotiation.ID, domain.StageInNegotiation, domain.RoleAdmin, "admin-1")
		assert.ErrorIs(t, err, ErrInvalidStageMove)
	})

	t.Run("deleted negotiation rejects moves", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-053", func(n *domain.Negotiation) {
			n.IsDeleted = true
		})

		_, err := svc.MoveStage(ctx, negotiation.ID, domain.StageInNegotiation, domain.RoleAdmin, "admin-1")
		assert.ErrorIs(t, err, ErrRecordDeleted)
	})
}

func TestNegotiationService_GenerateContract(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newNegotiationService(db)

	negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-060", nil)

	resp, err := svc.GenerateContract(ctx, negotiation.ID, domain.RoleAdmin, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageContractGenerated, resp.Stage)
	assert.Equal(t, domain.ContractPendingSignatures, resp.ContractStatus)

	// Both fields land in one write.
	var reloaded domain.Negotiation
	require.NoError(t, db.First(&reloaded, "id = ?", negotiation.ID).Error)
	assert.Equal(t, domain.StageContractGenerated, reloaded.Stage)
	assert.Equal(t, domain.ContractPendingSignatures, reloaded.ContractStatus)

	_, err = svc.GenerateContract(ctx, negotiation.ID, domain.RoleAdmin, "admin-1")
	assert.ErrorIs(t, err, ErrContractAlreadyGenerated)
}

func TestNegotiationService_Update(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newNegotiationService(db)

	t.Run("partial update", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-070", nil)

		value := 120000.0
		resp, err := svc.Update(ctx, negotiation.ID, &domain.UpdateNegotiationRequest{Value: &value}, domain.RoleAdmin, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, 120000.0, resp.Value)
	})

	t.Run("completed negotiation is read-only", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-071", func(n *domain.Negotiation) {
			n.Stage = domain.StageRentalActive
		})

		value := 5000.0
		_, err := svc.Update(ctx, negotiation.ID, &domain.UpdateNegotiationRequest{Value: &value}, domain.RoleAdmin, "admin-1")
		assert.ErrorIs(t, err, ErrAlreadyCompleted)
	})

	t.Run("deleted negotiation is read-only", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-072", func(n *domain.Negotiation) {
			n.IsDeleted = true
		})

		value := 5000.0
		_, err := svc.Update(ctx, negotiation.ID, &domain.UpdateNegotiationRequest{Value: &value}, domain.RoleAdmin, "admin-1")
		assert.ErrorIs(t, err, ErrRecordDeleted)
	})
}

func TestNegotiationService_SoftStateFlows(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newNegotiationService(db)

	t.Run("archive and unarchive", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-080", func(n *domain.Negotiation) {
			n.SalespersonID = "seller-1"
		})

		require.NoError(t, svc.Archive(ctx, negotiation.ID, domain.RoleSalesperson, "seller-1"))

		working, err := svc.ListVisible(ctx, domain.RoleSalesperson, "seller-1", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), working.Total)

		archived, err := svc.ListArchived(ctx, domain.RoleSalesperson, "seller-1", nil)
		require.NoError(t, err)
		require.Equal(t, int64(1), archived.Total)
		assert.True(t, archived.Items[0].IsArchived)

		require.NoError(t, svc.Unarchive(ctx, negotiation.ID, domain.RoleSalesperson, "seller-1"))

		working, err = svc.ListVisible(ctx, domain.RoleSalesperson, "seller-1", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), working.Total)
	})

	t.Run("delete blocks mutation until restore", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-081", func(n *domain.Negotiation) {
			n.SalespersonID = "seller-2"
		})

		require.NoError(t, svc.MarkDeleted(ctx, negotiation.ID, domain.RoleSalesperson, "seller-2"))

		err := svc.Archive(ctx, negotiation.ID, domain.RoleSalesperson, "seller-2")
		assert.ErrorIs(t, err, ErrRecordDeleted)

		require.NoError(t, svc.Restore(ctx, negotiation.ID, domain.RoleSalesperson, "seller-2"))
		assert.NoError(t, svc.Archive(ctx, negotiation.ID, domain.RoleSalesperson, "seller-2"))
	})

	t.Run("deleted list is admin only", func(t *testing.T) {
		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-082", func(n *domain.Negotiation) {
			n.SalespersonID = "seller-3"
			n.IsDeleted = true
		})

		_, err := svc.ListDeleted(ctx, domain.RoleSalesperson, "seller-3", nil)
		assert.ErrorIs(t, err, ErrForbidden)

		resp, err := svc.ListDeleted(ctx, domain.RoleAdmin, "admin-1", nil)
		require.NoError(t, err)
		require.GreaterOrEqual(t, resp.Total, int64(1))

		found := false
		for _, item := range resp.Items {
			if item.ID == negotiation.ID {
				found = true
			}
		}
		assert.True(t, found)
	})
}
