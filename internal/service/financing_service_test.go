package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"github.com/jao1224/crmimobiliaria-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newFinancingService(db *gorm.DB) *FinancingService {
	return NewFinancingService(
		repository.NewFinancingRepository(db),
		repository.NewServiceRequestRepository(db),
		repository.NewNegotiationRepository(db),
		zap.NewNop(),
	)
}

func createFinancingRequest(t *testing.T, db *gorm.DB, svc *FinancingService, clientInfo, propertyInfo string) *domain.ServiceRequest {
	t.Helper()
	request, err := svc.CreateServiceRequest(context.Background(), &domain.CreateServiceRequestRequest{
		Type:         domain.RequestFinancing,
		ClientInfo:   clientInfo,
		PropertyInfo: propertyInfo,
		Details:      "Cliente precisa de financiamento bancário",
	}, "seller-1")
	require.NoError(t, err)
	return request
}

func TestParseSnippet(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		labels []string
		want   string
	}{
		{"labelled with trailing detail", "Nome: Maria Silva, CPF 123.456.789-00, renda R$ 8.000", []string{"nome:", "cliente:"}, "Maria Silva"},
		{"label in mixed case", "NOME: João Pereira, autônomo", []string{"nome:", "cliente:"}, "João Pereira"},
		{"property label with accent", "Imóvel: Lote 12, Quadra B", []string{"imóvel:", "imovel:"}, "Lote 12"},
		{"plain name passes through", "Maria Silva", []string{"nome:", "cliente:"}, "Maria Silva"},
		{"whitespace trimmed", "  Nome:   Ana Costa  , solteira", []string{"nome:", "cliente:"}, "Ana Costa"},
		{"no comma", "Cliente: Pedro Santos", []string{"nome:", "cliente:"}, "Pedro Santos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSnippet(tt.raw, tt.labels...))
		})
	}
}

func TestFinancingService_AcceptServiceRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("bridges a financing request", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newFinancingService(db)

		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-010", func(n *domain.Negotiation) {
			n.ClientName = "Maria Silva"
			n.PropertyName = "Lote 12"
			n.IsFinanced = true
		})
		request := createFinancingRequest(t, db, svc,
			"Nome: Maria Silva, CPF 123.456.789-00",
			"Imóvel: Lote 12, Quadra B, Residencial Sul")

		process, err := svc.AcceptServiceRequest(ctx, request.ID, domain.RoleCorrespondent, "corr-1")
		require.NoError(t, err)
		require.NotNil(t, process)
		assert.Equal(t, negotiation.ID, process.NegotiationID)
		assert.Equal(t, domain.FinancingClientPending, process.ClientStatus)
		assert.Equal(t, domain.EngineeringNotRequested, process.EngineeringStatus)
		assert.True(t, process.HasPendency)
		assert.Equal(t, domain.FinancingActive, process.Status)

		var reloaded domain.ServiceRequest
		require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
		assert.Equal(t, domain.RequestInReview, reloaded.Status)
	})

	t.Run("retry reuses the process left by a crashed accept", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newFinancingService(db)

		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-011", func(n *domain.Negotiation) {
			n.ClientName = "Carlos Souza"
			n.PropertyName = "Sítio Boa Vista"
		})

		// A previous accept created the process but crashed before
		// routing the request.
		existing := &domain.FinancingProcess{
			NegotiationID:     negotiation.ID,
			ClientStatus:      domain.FinancingClientPending,
			EngineeringStatus: domain.EngineeringNotRequested,
			Status:            domain.FinancingActive,
			HasPendency:       true,
		}
		require.NoError(t, repository.NewFinancingRepository(db).Create(ctx, existing))

		request := createFinancingRequest(t, db, svc, "Carlos Souza", "Sítio Boa Vista, zona rural")

		process, err := svc.AcceptServiceRequest(ctx, request.ID, domain.RoleAdmin, "admin-1")
		require.NoError(t, err)
		require.NotNil(t, process)
		assert.Equal(t, existing.ID, process.ID)

		var count int64
		require.NoError(t, db.Model(&domain.FinancingProcess{}).Where("negotiation_id = ?", negotiation.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		var reloaded domain.ServiceRequest
		require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
		assert.Equal(t, domain.RequestInReview, reloaded.Status)
	})

	t.Run("no matching negotiation keeps request pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newFinancingService(db)

		request := createFinancingRequest(t, db, svc, "Nome: Ninguém Conhecido", "Imóvel: Inexistente")

		_, err := svc.AcceptServiceRequest(ctx, request.ID, domain.RoleCorrespondent, "corr-1")
		assert.ErrorIs(t, err, ErrNoMatchingNegotiation)

		var reloaded domain.ServiceRequest
		require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
		assert.Equal(t, domain.RequestPending, reloaded.Status)
	})

	t.Run("non-financing request is routed without a process", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newFinancingService(db)

		request, err := svc.CreateServiceRequest(ctx, &domain.CreateServiceRequestRequest{
			Type:         domain.RequestLegal,
			ClientInfo:   "Nome: Maria Silva",
			PropertyInfo: "Imóvel: Lote 12",
		}, "seller-1")
		require.NoError(t, err)

		process, err := svc.AcceptServiceRequest(ctx, request.ID, domain.RoleCorrespondent, "corr-1")
		require.NoError(t, err)
		assert.Nil(t, process)

		var reloaded domain.ServiceRequest
		require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
		assert.Equal(t, domain.RequestInReview, reloaded.Status)
	})

	t.Run("request already in review", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newFinancingService(db)

		request := createFinancingRequest(t, db, svc, "Maria Silva", "Lote 12")
		require.NoError(t, repository.NewServiceRequestRepository(db).SetStatus(ctx, request.ID, domain.RequestInReview))

		_, err := svc.AcceptServiceRequest(ctx, request.ID, domain.RoleCorrespondent, "corr-1")
		assert.ErrorIs(t, err, ErrRequestNotPending)
	})

	t.Run("salesperson cannot accept", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newFinancingService(db)

		request := createFinancingRequest(t, db, svc, "Maria Silva", "Lote 12")

		_, err := svc.AcceptServiceRequest(ctx, request.ID, domain.RoleSalesperson, "seller-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown request", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newFinancingService(db)

		_, err := svc.AcceptServiceRequest(ctx, uuid.New(), domain.RoleAdmin, "admin-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFinancingService_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*gorm.DB, *FinancingService, *domain.FinancingProcess) {
		db := testutil.SetupTestDB(t)
		svc := newFinancingService(db)

		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-020", nil)
		process := &domain.FinancingProcess{
			NegotiationID:     negotiation.ID,
			ClientStatus:      domain.FinancingClientPending,
			EngineeringStatus: domain.EngineeringNotRequested,
			Status:            domain.FinancingActive,
			HasPendency:       true,
		}
		require.NoError(t, repository.NewFinancingRepository(db).Create(ctx, process))
		return db, svc, process
	}

	t.Run("pendency clears when everything approves", func(t *testing.T) {
		_, svc, process := setup(t)

		approved := domain.FinancingClientApproved
		engineering := domain.EngineeringApproved
		yes := true
		updated, err := svc.Update(ctx, process.ID, &domain.UpdateFinancingRequest{
			ClientStatus:         &approved,
			EngineeringStatus:    &engineering,
			IdentityDoc:          &yes,
			IncomeProof:          &yes,
			AddressProof:         &yes,
			PropertyRegistration: &yes,
			SaleContract:         &yes,
		}, domain.RoleCorrespondent)
		require.NoError(t, err)
		assert.False(t, updated.HasPendency)
	})

	t.Run("bacen restriction raises pendency again", func(t *testing.T) {
		_, svc, process := setup(t)

		approved := domain.FinancingClientApproved
		engineering := domain.EngineeringApproved
		yes := true
		bacen := "Restrição ativa no Bacen"
		updated, err := svc.Update(ctx, process.ID, &domain.UpdateFinancingRequest{
			ClientStatus:         &approved,
			EngineeringStatus:    &engineering,
			BacenInfo:            &bacen,
			IdentityDoc:          &yes,
			IncomeProof:          &yes,
			AddressProof:         &yes,
			PropertyRegistration: &yes,
			SaleContract:         &yes,
		}, domain.RoleAdmin)
		require.NoError(t, err)
		assert.True(t, updated.HasPendency)
	})

	t.Run("client role cannot update", func(t *testing.T) {
		_, svc, process := setup(t)

		notes := "tentativa"
		_, err := svc.Update(ctx, process.ID, &domain.UpdateFinancingRequest{Notes: &notes}, domain.RoleClient)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown process", func(t *testing.T) {
		_, svc, _ := setup(t)

		notes := "tentativa"
		_, err := svc.Update(ctx, uuid.New(), &domain.UpdateFinancingRequest{Notes: &notes}, domain.RoleAdmin)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
