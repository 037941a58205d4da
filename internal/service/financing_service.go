package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FinancingService owns the correspondent-bank workflow: the bridge that
// turns a salesperson's free-text request into a financing process, and
// the correspondent's updates to that process afterwards.
type FinancingService struct {
	financingRepo   *repository.FinancingRepository
	requestRepo     *repository.ServiceRequestRepository
	negotiationRepo *repository.NegotiationRepository
	logger          *zap.Logger
}

func NewFinancingService(
	financingRepo *repository.FinancingRepository,
	requestRepo *repository.ServiceRequestRepository,
	negotiationRepo *repository.NegotiationRepository,
	logger *zap.Logger,
) *FinancingService {
	return &FinancingService{
		financingRepo:   financingRepo,
		requestRepo:     requestRepo,
		negotiationRepo: negotiationRepo,
		logger:          logger,
	}
}

// CreateServiceRequest records a salesperson's request as typed, with
// client and property described as free text.
func (s *FinancingService) CreateServiceRequest(ctx context.Context, req *domain.CreateServiceRequestRequest, requesterID string) (*domain.ServiceRequest, error) {
	request := &domain.ServiceRequest{
		Type:         req.Type,
		ClientInfo:   req.ClientInfo,
		PropertyInfo: req.PropertyInfo,
		Details:      req.Details,
		Status:       domain.RequestPending,
		RequesterID:  requesterID,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create service request: %w", err)
	}
	return request, nil
}

// AcceptServiceRequest routes a pending request. Financing requests are
// bridged: the client and property snippets are parsed, matched exactly
// against negotiation snapshots, and a financing process is created with
// neutral sub-statuses before the request is marked in review.
//
// The two writes are deliberately not one transaction. If the second
// fails the request stays pending and a retry finds the process already
// in place, so the created-but-unrouted window is recoverable. The
// reverse order would not be.
func (s *FinancingService) AcceptServiceRequest(ctx context.Context, requestID uuid.UUID, role domain.UserRoleType, userID string) (*domain.FinancingProcess, error) {
	if !role.IsAdministrative() && role != domain.RoleCorrespondent {
		return nil, ErrForbidden
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}
	if request.Status != domain.RequestPending {
		return nil, ErrRequestNotPending
	}

	if request.Type != domain.RequestFinancing {
		if err := s.requestRepo.SetStatus(ctx, requestID, domain.RequestInReview); err != nil {
			return nil, fmt.Errorf("failed to mark request in review: %w", err)
		}
		return nil, nil
	}

	clientName := parseSnippet(request.ClientInfo, "nome:", "cliente:")
	propertyName := parseSnippet(request.PropertyInfo, "imóvel:", "imovel:")

	matches, err := s.negotiationRepo.FindByClientAndProperty(ctx, clientName, propertyName)
	if err != nil {
		return nil, fmt.Errorf("failed to match negotiation: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: client %q, property %q", ErrNoMatchingNegotiation, clientName, propertyName)
	}
	negotiation := matches[0]

	process, err := s.financingRepo.GetByNegotiation(ctx, negotiation.ID)
	switch {
	case err == nil:
		// A previous accept crashed after creating the process. Reuse it
		// and finish the routing.
	case errors.Is(err, gorm.ErrRecordNotFound):
		process = &domain.FinancingProcess{
			NegotiationID:     negotiation.ID,
			ClientStatus:      domain.FinancingClientPending,
			EngineeringStatus: domain.EngineeringNotRequested,
			Status:            domain.FinancingActive,
		}
		process.RecomputePendency()
		if err := s.financingRepo.Create(ctx, process); err != nil {
			return nil, fmt.Errorf("failed to create financing process: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to check existing financing process: %w", err)
	}

	if err := s.requestRepo.SetStatus(ctx, requestID, domain.RequestInReview); err != nil {
		return nil, fmt.Errorf("failed to mark request in review: %w", err)
	}

	s.logger.Info("financing request bridged",
		zap.String("request_id", requestID.String()),
		zap.String("negotiation_id", negotiation.ID.String()),
		zap.String("negotiation_code", negotiation.Code),
		zap.String("actor", userID),
	)

	return process, nil
}

// parseSnippet extracts a name from a free-text field: the text before
// the first comma, with a known label prefix stripped case-insensitively
// and whitespace trimmed. "Nome: Maria Silva, renda..." yields
// "Maria Silva"; a plain "Maria Silva" passes through unchanged.
func parseSnippet(raw string, labels ...string) string {
	value := raw
	if idx := strings.Index(value, ","); idx >= 0 {
		value = value[:idx]
	}
	value = strings.TrimSpace(value)
	lower := strings.ToLower(value)
	for _, label := range labels {
		if strings.HasPrefix(lower, label) {
			value = strings.TrimSpace(value[len(label):])
			break
		}
	}
	return value
}

// Update applies a correspondent's partial edit and recomputes the
// derived pendency flag before saving.
func (s *FinancingService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateFinancingRequest, role domain.UserRoleType) (*domain.FinancingProcess, error) {
	if !role.IsAdministrative() && role != domain.RoleCorrespondent {
		return nil, ErrForbidden
	}

	process, err := s.financingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get financing process: %w", err)
	}

	applyFinancingUpdate(process, req)
	process.RecomputePendency()

	if err := s.financingRepo.Update(ctx, process); err != nil {
		return nil, fmt.Errorf("failed to update financing process: %w", err)
	}

	return process, nil
}

func applyFinancingUpdate(p *domain.FinancingProcess, req *domain.UpdateFinancingRequest) {
	if req.ClientStatus != nil {
		p.ClientStatus = *req.ClientStatus
	}
	if req.BacenInfo != nil {
		p.BacenInfo = *req.BacenInfo
	}
	if req.EngineeringStatus != nil {
		p.EngineeringStatus = *req.EngineeringStatus
	}

	if req.IdentityDoc != nil {
		p.IdentityDoc = *req.IdentityDoc
	}
	if req.IdentityDocDue != nil {
		p.IdentityDocDue = req.IdentityDocDue
	}
	if req.IncomeProof != nil {
		p.IncomeProof = *req.IncomeProof
	}
	if req.IncomeProofDue != nil {
		p.IncomeProofDue = req.IncomeProofDue
	}
	if req.AddressProof != nil {
		p.AddressProof = *req.AddressProof
	}
	if req.AddressProofDue != nil {
		p.AddressProofDue = req.AddressProofDue
	}
	if req.PropertyRegistration != nil {
		p.PropertyRegistration = *req.PropertyRegistration
	}
	if req.PropertyRegistrationDue != nil {
		p.PropertyRegistrationDue = req.PropertyRegistrationDue
	}
	if req.SaleContract != nil {
		p.SaleContract = *req.SaleContract
	}
	if req.SaleContractDue != nil {
		p.SaleContractDue = req.SaleContractDue
	}

	if req.StageInterview != nil {
		p.StageInterview = *req.StageInterview
	}
	if req.StageDocumentation != nil {
		p.StageDocumentation = *req.StageDocumentation
	}
	if req.StageBankAnalysis != nil {
		p.StageBankAnalysis = *req.StageBankAnalysis
	}
	if req.StageEngineering != nil {
		p.StageEngineering = *req.StageEngineering
	}
	if req.StageSigning != nil {
		p.StageSigning = *req.StageSigning
	}

	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
}

func (s *FinancingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancingProcess, error) {
	process, err := s.financingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get financing process: %w", err)
	}
	return process, nil
}

func (s *FinancingService) GetByNegotiation(ctx context.Context, negotiationID uuid.UUID) (*domain.FinancingProcess, error) {
	process, err := s.financingRepo.GetByNegotiation(ctx, negotiationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get financing process: %w", err)
	}
	return process, nil
}

func (s *FinancingService) List(ctx context.Context, page, pageSize int, status *domain.FinancingStatus, pendencyOnly bool) ([]domain.FinancingProcess, int64, error) {
	return s.financingRepo.List(ctx, page, pageSize, status, pendencyOnly)
}

func (s *FinancingService) ListRequests(ctx context.Context, page, pageSize int, requestType *domain.ServiceRequestType, status *domain.ServiceRequestStatus) ([]domain.ServiceRequest, int64, error) {
	return s.requestRepo.List(ctx, page, pageSize, requestType, status)
}
