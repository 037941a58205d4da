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

type NegotiationService struct {
	negotiationRepo *repository.NegotiationRepository
	propertyRepo    *repository.PropertyRepository
	clientRepo      *repository.ClientRepository
	userRepo        *repository.UserRepository
	codeSeqRepo     *repository.CodeSequenceRepository
	logger          *zap.Logger
}

func NewNegotiationService(
	negotiationRepo *repository.NegotiationRepository,
	propertyRepo *repository.PropertyRepository,
	clientRepo *repository.ClientRepository,
	userRepo *repository.UserRepository,
	codeSeqRepo *repository.CodeSequenceRepository,
	logger *zap.Logger,
) *NegotiationService {
	return &NegotiationService{
		negotiationRepo: negotiationRepo,
		propertyRepo:    propertyRepo,
		clientRepo:      clientRepo,
		userRepo:        userRepo,
		codeSeqRepo:     codeSeqRepo,
		logger:          logger,
	}
}

// Create opens a negotiation. Property, client and user names are copied
// into the record as snapshots and never synchronized afterwards.
func (s *NegotiationService) Create(ctx context.Context, req *domain.CreateNegotiationRequest, salespersonID string) (*domain.NegotiationResponse, error) {
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown negotiation type %q", ErrInvalidInput, req.Type)
	}

	negotiation := &domain.Negotiation{
		PropertyID:     req.PropertyID,
		ClientID:       req.ClientID,
		SalespersonID:  salespersonID,
		RealtorID:      req.RealtorID,
		Stage:          domain.StageProposalSent,
		ContractStatus: domain.ContractNotGenerated,
		Type:           req.Type,
		Value:          req.Value,
		IsFinanced:     req.IsFinanced,
		Status:         domain.ActivityStatusActive,
		ProcessStatus:  domain.ProcessStatusActive,
		ProcessStage:   domain.ProcessStageInProgress,
		Observations:   req.Observations,
	}

	if req.PropertyID != nil {
		property, err := s.propertyRepo.GetByID(ctx, *req.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("property not found: %w", err)
		}
		negotiation.PropertyName = property.Name
		negotiation.PropertyCode = property.Code
	}

	if req.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, *req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("client not found: %w", err)
		}
		negotiation.ClientName = client.Name
	}

	if salesperson, err := s.userRepo.GetByID(ctx, salespersonID); err == nil {
		negotiation.SalespersonName = salesperson.Name
	}
	if req.RealtorID != "" {
		if realtor, err := s.userRepo.GetByID(ctx, req.RealtorID); err == nil {
			negotiation.RealtorName = realtor.Name
		}
	}

	code, err := s.nextCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate negotiation code: %w", err)
	}
	negotiation.Code = code

	if err := s.negotiationRepo.Create(ctx, negotiation); err != nil {
		return nil, fmt.Errorf("failed to create negotiation: %w", err)
	}

	if len(req.Documents) > 0 {
		docs := make([]domain.NegotiationDocument, 0, len(req.Documents))
		for i, d := range req.Documents {
			docs = append(docs, domain.NegotiationDocument{
				NegotiationID: negotiation.ID,
				URL:           d.URL,
				Name:          d.Name,
				Position:      i,
			})
		}
		if err := s.negotiationRepo.CreateDocuments(ctx, docs); err != nil {
			s.logger.Warn("failed to attach documents", zap.String("negotiation_id", negotiation.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("negotiation created",
		zap.String("negotiation_id", negotiation.ID.String()),
		zap.String("code", negotiation.Code),
		zap.String("type", string(negotiation.Type)),
	)

	negotiation, err = s.negotiationRepo.GetByID(ctx, negotiation.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload negotiation: %w", err)
	}

	resp := mapper.ToNegotiationResponse(negotiation)
	return &resp, nil
}

func (s *NegotiationService) nextCode(ctx context.Context) (string, error) {
	year := time.Now().Year()
	seq, err := s.codeSeqRepo.Next(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("NEG-%d-%03d", year, seq), nil
}

func (s *NegotiationService) GetByID(ctx context.Context, id uuid.UUID, role domain.UserRoleType, userID string) (*domain.NegotiationResponse, error) {
	negotiation, err := s.getAccessible(ctx, id, role, userID)
	if err != nil {
		return nil, err
	}
	resp := mapper.ToNegotiationResponse(negotiation)
	return &resp, nil
}

// Update applies a partial edit. Deleted and settled negotiations are
// read-only.
func (s *NegotiationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateNegotiationRequest, role domain.UserRoleType, userID string) (*domain.NegotiationResponse, error) {
	negotiation, err := s.getAccessible(ctx, id, role, userID)
	if err != nil {
		return nil, err
	}
	if negotiation.IsDeleted {
		return nil, ErrRecordDeleted
	}
	if negotiation.IsCompleted() {
		return nil, ErrAlreadyCompleted
	}

	fields := map[string]interface{}{}
	if req.Value != nil {
		fields["value"] = *req.Value
	}
	if req.IsFinanced != nil {
		fields["is_financed"] = *req.IsFinanced
	}
	if req.Observations != nil {
		fields["observations"] = *req.Observations
	}
	if len(fields) > 0 {
		if err := s.negotiationRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update negotiation: %w", err)
		}
	}

	negotiation, err = s.negotiationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload negotiation: %w", err)
	}
	resp := mapper.ToNegotiationResponse(negotiation)
	return &resp, nil
}

// MoveStage handles a board drag between lifecycle stages. Terminal
// stages can be neither left nor entered this way.
func (s *NegotiationService) MoveStage(ctx context.Context, id uuid.UUID, to domain.NegotiationStage, role domain.UserRoleType, userID string) (*domain.NegotiationResponse, error) {
	negotiation, err := s.getAccessible(ctx, id, role, userID)
	if err != nil {
		return nil, err
	}
	if negotiation.IsDeleted {
		return nil, ErrRecordDeleted
	}
	if !domain.CanMoveStage(negotiation.Stage, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStageMove, negotiation.Stage, to)
	}

	if err := s.negotiationRepo.UpdateFields(ctx, id, map[string]interface{}{"stage": to}); err != nil {
		return nil, fmt.Errorf("failed to move stage: %w", err)
	}

	s.logger.Info("negotiation stage moved",
		zap.String("negotiation_id", id.String()),
		zap.String("from", string(negotiation.Stage)),
		zap.String("to", string(to)),
	)

	negotiation.Stage = to
	resp := mapper.ToNegotiationResponse(negotiation)
	return &resp, nil
}

// MoveContractStatus handles a drag between contract columns. Contract
// columns move freely until the negotiation settles.
func (s *NegotiationService) MoveContractStatus(ctx context.Context, id uuid.UUID, to domain.ContractStatus, role domain.UserRoleType, userID string) (*domain.NegotiationResponse, error) {
	negotiation, err := s.getAccessible(ctx, id, role, userID)
	if err != nil {
		return nil, err
	}
	if negotiation.IsDeleted {
		return nil, ErrRecordDeleted
	}
	if negotiation.IsCompleted() {
		return nil, ErrAlreadyCompleted
	}
	if !domain.CanMoveContractStatus(negotiation.ContractStatus, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStageMove, negotiation.ContractStatus, to)
	}

	if err := s.negotiationRepo.UpdateFields(ctx, id, map[string]interface{}{"contract_status": to}); err != nil {
		return nil, fmt.Errorf("failed to move contract status: %w", err)
	}

	negotiation.ContractStatus = to
	resp := mapper.ToNegotiationResponse(negotiation)
	return &resp, nil
}

// GenerateContract advances the negotiation to ContractGenerated and the
// contract to PendingSignatures in one write, so no reader ever observes
// one without the other.
func (s *NegotiationService) GenerateContract(ctx context.Context, id uuid.UUID, role domain.UserRoleType, userID string) (*domain.NegotiationResponse, error) {
	negotiation, err := s.getAccessible(ctx, id, role, userID)
	if err != nil {
		return nil, err
	}
	if negotiation.IsDeleted {
		return nil, ErrRecordDeleted
	}
	if negotiation.IsCompleted() {
		return nil, ErrAlreadyCompleted
	}
	if negotiation.ContractStatus != domain.ContractNotGenerated {
		return nil, ErrContractAlreadyGenerated
	}

	fields := map[string]interface{}{
		"stage":           domain.StageContractGenerated,
		"contract_status": domain.ContractPendingSignatures,
	}
	if err := s.negotiationRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to generate contract: %w", err)
	}

	s.logger.Info("contract generated", zap.String("negotiation_id", id.String()), zap.String("code", negotiation.Code))

	negotiation.Stage = domain.StageContractGenerated
	negotiation.ContractStatus = domain.ContractPendingSignatures
	resp := mapper.ToNegotiationResponse(negotiation)
	return &resp, nil
}

// ListVisible returns the working list scoped to the caller. Non-admin
// callers only see records they participate in, and their type, contract
// status, responsible and date-range filters are ignored.
func (s *NegotiationService) ListVisible(ctx context.Context, role domain.UserRoleType, userID string, filters *domain.NegotiationFilters) (*domain.PaginatedResponse[domain.NegotiationResponse], error) {
	scope, filters := s.scopeAndFilters(role, userID, filters)
	negotiations, total, err := s.negotiationRepo.List(ctx, filters, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list negotiations: %w", err)
	}
	resp := mapper.Paginate(mapper.ToNegotiationResponses(negotiations), total, filters.Page, filters.PageSize)
	return &resp, nil
}

// ListArchived returns archived, non-deleted records under the same
// scoping rules as ListVisible.
func (s *NegotiationService) ListArchived(ctx context.Context, role domain.UserRoleType, userID string, filters *domain.NegotiationFilters) (*domain.PaginatedResponse[domain.NegotiationResponse], error) {
	scope, filters := s.scopeAndFilters(role, userID, filters)
	negotiations, total, err := s.negotiationRepo.ListArchived(ctx, filters, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived negotiations: %w", err)
	}
	resp := mapper.Paginate(mapper.ToNegotiationResponses(negotiations), total, filters.Page, filters.PageSize)
	return &resp, nil
}

// ListDeleted returns soft-deleted records. Admin only.
func (s *NegotiationService) ListDeleted(ctx context.Context, role domain.UserRoleType, userID string, filters *domain.NegotiationFilters) (*domain.PaginatedResponse[domain.NegotiationResponse], error) {
	if !role.IsAdministrative() {
		return nil, ErrForbidden
	}
	if filters == nil {
		filters = &domain.NegotiationFilters{}
	}
	negotiations, total, err := s.negotiationRepo.ListDeleted(ctx, filters, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted negotiations: %w", err)
	}
	resp := mapper.Paginate(mapper.ToNegotiationResponses(negotiations), total, filters.Page, filters.PageSize)
	return &resp, nil
}

func (s *NegotiationService) scopeAndFilters(role domain.UserRoleType, userID string, filters *domain.NegotiationFilters) (*repository.AccessScope, *domain.NegotiationFilters) {
	if filters == nil {
		filters = &domain.NegotiationFilters{}
	}
	if role.IsAdministrative() {
		return nil, filters
	}
	scoped := *filters
	scoped.Type = nil
	scoped.ContractStatus = nil
	scoped.ResponsibleID = nil
	scoped.CreatedFrom = nil
	scoped.CreatedTo = nil
	return &repository.AccessScope{UserID: userID}, &scoped
}

// Archive hides the negotiation from the working list.
func (s *NegotiationService) Archive(ctx context.Context, id uuid.UUID, role domain.UserRoleType, userID string) error {
	return s.setFlag(ctx, id, role, userID, "is_archived", true, false)
}

// Unarchive returns an archived negotiation to the working list.
func (s *NegotiationService) Unarchive(ctx context.Context, id uuid.UUID, role domain.UserRoleType, userID string) error {
	return s.setFlag(ctx, id, role, userID, "is_archived", false, false)
}

// MarkDeleted soft-deletes the negotiation. The record stays in the
// store and remains recoverable.
func (s *NegotiationService) MarkDeleted(ctx context.Context, id uuid.UUID, role domain.UserRoleType, userID string) error {
	return s.setFlag(ctx, id, role, userID, "is_deleted", true, false)
}

// Restore clears the deleted flag. It is the one mutating operation
// allowed on a deleted record.
func (s *NegotiationService) Restore(ctx context.Context, id uuid.UUID, role domain.UserRoleType, userID string) error {
	return s.setFlag(ctx, id, role, userID, "is_deleted", false, true)
}

func (s *NegotiationService) setFlag(ctx context.Context, id uuid.UUID, role domain.UserRoleType, userID, column string, value, allowDeleted bool) error {
	negotiation, err := s.getAccessible(ctx, id, role, userID)
	if err != nil {
		return err
	}
	if negotiation.IsDeleted && !allowDeleted {
		return ErrRecordDeleted
	}
	if err := s.negotiationRepo.UpdateFields(ctx, id, map[string]interface{}{column: value}); err != nil {
		return fmt.Errorf("failed to update negotiation flag: %w", err)
	}
	s.logger.Info("negotiation flag changed",
		zap.String("negotiation_id", id.String()),
		zap.String("flag", column),
		zap.Bool("value", value),
	)
	return nil
}

// getAccessible loads a negotiation and enforces role visibility: admin
// roles see everything, others only records they participate in.
func (s *NegotiationService) getAccessible(ctx context.Context, id uuid.UUID, role domain.UserRoleType, userID string) (*domain.Negotiation, error) {
	negotiation, err := s.negotiationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get negotiation: %w", err)
	}

	if role.IsAdministrative() {
		return negotiation, nil
	}
	if negotiation.SalespersonID == userID || negotiation.RealtorID == userID {
		return negotiation, nil
	}
	if negotiation.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, *negotiation.ClientID)
		if err == nil && client.UserID == userID {
			return negotiation, nil
		}
	}
	return nil, ErrForbidden
}
