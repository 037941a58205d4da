// Package mapper converts persistence models to API response shapes.
package mapper

import (
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
)

// ToNegotiationResponse maps a negotiation to its API shape
func ToNegotiationResponse(n *domain.Negotiation) domain.NegotiationResponse {
	resp := domain.NegotiationResponse{
		ID:              n.ID,
		Code:            n.Code,
		PropertyID:      n.PropertyID,
		ClientID:        n.ClientID,
		PropertyName:    n.PropertyName,
		PropertyCode:    n.PropertyCode,
		ClientName:      n.ClientName,
		SalespersonID:   n.SalespersonID,
		SalespersonName: n.SalespersonName,
		RealtorID:       n.RealtorID,
		RealtorName:     n.RealtorName,
		Stage:           n.Stage,
		ContractStatus:  n.ContractStatus,
		Type:            n.Type,
		Value:           n.Value,
		IsFinanced:      n.IsFinanced,
		IsArchived:      n.IsArchived,
		IsDeleted:       n.IsDeleted,
		Status:          n.Status,
		ProcessStatus:   n.ProcessStatus,
		ProcessStage:    n.ProcessStage,
		CompletionDate:  n.CompletionDate,
		Observations:    n.Observations,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       n.UpdatedAt,
	}
	for _, doc := range n.Documents {
		resp.Documents = append(resp.Documents, domain.DocumentResponse{
			ID:   doc.ID,
			URL:  doc.URL,
			Name: doc.Name,
		})
	}
	return resp
}

// ToNegotiationResponses maps a slice of negotiations
func ToNegotiationResponses(negotiations []domain.Negotiation) []domain.NegotiationResponse {
	responses := make([]domain.NegotiationResponse, 0, len(negotiations))
	for i := range negotiations {
		responses = append(responses, ToNegotiationResponse(&negotiations[i]))
	}
	return responses
}

// ToCommissionResponse maps a commission to its API shape
func ToCommissionResponse(c *domain.Commission) domain.CommissionResponse {
	resp := domain.CommissionResponse{
		ID:            c.ID,
		NegotiationID: c.NegotiationID,
		Amount:        c.Amount,
		Status:        c.Status,
		PaymentDate:   c.PaymentDate,
		Involved:      c.Involved,
		CreatedAt:     c.CreatedAt,
	}
	if c.Negotiation != nil {
		resp.NegotiationCode = c.Negotiation.Code
	}
	return resp
}

// ToCommissionResponses maps a slice of commissions
func ToCommissionResponses(commissions []domain.Commission) []domain.CommissionResponse {
	responses := make([]domain.CommissionResponse, 0, len(commissions))
	for i := range commissions {
		responses = append(responses, ToCommissionResponse(&commissions[i]))
	}
	return responses
}

// CaptureToCard projects a capture onto the activity board
func CaptureToCard(c *domain.Capture) domain.ActivityCard {
	return domain.ActivityCard{
		ID:          c.ID,
		Kind:        domain.ActivityKindCapture,
		Title:       c.PropertyName,
		Subtitle:    "Capture",
		Value:       c.Value,
		Status:      c.Status,
		ReferenceID: c.ID,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NegotiationToCard projects a negotiation onto the activity board
func NegotiationToCard(n *domain.Negotiation) domain.ActivityCard {
	return domain.ActivityCard{
		ID:          n.ID,
		Kind:        domain.ActivityKindNegotiation,
		Title:       n.PropertyName,
		Subtitle:    n.ClientName,
		Value:       n.Value,
		Status:      n.Status,
		ReferenceID: n.ID,
		UpdatedAt:   n.UpdatedAt,
	}
}

// Paginate wraps items in the standard paginated envelope
func Paginate[T any](items []T, total int64, page, pageSize int) domain.PaginatedResponse[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return domain.PaginatedResponse[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
