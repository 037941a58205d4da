package mapper

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []string{"a", "b"}

	t.Run("partial last page", func(t *testing.T) {
		resp := Paginate(items, 5, 1, 2)
		assert.Equal(t, int64(5), resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 2, resp.PageSize)
		assert.Equal(t, 3, resp.TotalPages)
	})

	t.Run("exact fit", func(t *testing.T) {
		resp := Paginate(items, 4, 2, 2)
		assert.Equal(t, 2, resp.TotalPages)
	})

	t.Run("empty result", func(t *testing.T) {
		resp := Paginate([]string{}, 0, 1, 20)
		assert.Equal(t, 0, resp.TotalPages)
		assert.Empty(t, resp.Items)
	})
}

func TestCaptureToCard(t *testing.T) {
	capture := &domain.Capture{
		PropertyName: "Chácara Leste",
		RealtorID:    "realtor-1",
		Value:        80000,
		Status:       domain.ActivityStatusPending,
	}
	capture.ID = uuid.New()

	card := CaptureToCard(capture)
	assert.Equal(t, capture.ID, card.ID)
	assert.Equal(t, domain.ActivityKindCapture, card.Kind)
	assert.Equal(t, "Chácara Leste", card.Title)
	assert.Equal(t, float64(80000), card.Value)
	assert.Equal(t, domain.ActivityStatusPending, card.Status)
	assert.Equal(t, capture.ID, card.ReferenceID)
}

func TestNegotiationToCard(t *testing.T) {
	negotiation := &domain.Negotiation{
		PropertyName: "Casa Jardins",
		ClientName:   "Maria Silva",
		Value:        500000,
		Status:       domain.ActivityStatusActive,
	}
	negotiation.ID = uuid.New()

	card := NegotiationToCard(negotiation)
	assert.Equal(t, domain.ActivityKindNegotiation, card.Kind)
	assert.Equal(t, "Casa Jardins", card.Title)
	assert.Equal(t, "Maria Silva", card.Subtitle)
	assert.Equal(t, domain.ActivityStatusActive, card.Status)
}

func TestToNegotiationResponse(t *testing.T) {
	negotiation := &domain.Negotiation{
		Code:           "NEG-2026-001",
		SalespersonID:  "seller-1",
		Stage:          domain.StageInNegotiation,
		ContractStatus: domain.ContractNotGenerated,
		Type:           domain.TypeSale,
		Value:          500000,
		Documents: []domain.NegotiationDocument{
			{URL: "local://docs/contract.pdf", Name: "contract.pdf"},
		},
	}
	negotiation.ID = uuid.New()

	resp := ToNegotiationResponse(negotiation)
	assert.Equal(t, negotiation.ID, resp.ID)
	assert.Equal(t, "NEG-2026-001", resp.Code)
	assert.Equal(t, domain.StageInNegotiation, resp.Stage)
	assert.Len(t, resp.Documents, 1)
	assert.Equal(t, "contract.pdf", resp.Documents[0].Name)
}
