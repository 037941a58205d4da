package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"github.com/jao1224/crmimobiliaria-sub000/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentService attaches uploaded files to negotiations. The bytes
// go to blob storage; only the storage path and display name are kept
// on the negotiation.
type DocumentService struct {
	negotiationRepo *repository.NegotiationRepository
	storage         storage.Storage
	logger          *zap.Logger
}

func NewDocumentService(
	negotiationRepo *repository.NegotiationRepository,
	store storage.Storage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		negotiationRepo: negotiationRepo,
		storage:         store,
		logger:          logger,
	}
}

// Upload stores the file and records it as a document on the negotiation.
func (s *DocumentService) Upload(ctx context.Context, negotiationID uuid.UUID, filename, contentType string, data io.Reader, role domain.UserRoleType, userID string) (*domain.DocumentResponse, error) {
	negotiation, err := s.negotiationRepo.GetByID(ctx, negotiationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get negotiation: %w", err)
	}
	if negotiation.IsDeleted {
		return nil, ErrRecordDeleted
	}
	if !role.IsAdministrative() && negotiation.SalespersonID != userID && negotiation.RealtorID != userID {
		return nil, ErrForbidden
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := domain.NegotiationDocument{
		NegotiationID: negotiationID,
		URL:           storagePath,
		Name:          filename,
		Position:      len(negotiation.Documents),
	}
	if err := s.negotiationRepo.CreateDocuments(ctx, []domain.NegotiationDocument{doc}); err != nil {
		// Orphaned blob; remove it so storage does not accumulate garbage
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to delete orphaned document blob",
				zap.String("storage_path", storagePath),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	s.logger.Info("document uploaded",
		zap.String("negotiation_id", negotiationID.String()),
		zap.String("name", filename),
		zap.Int64("size", size))

	return &domain.DocumentResponse{ID: doc.ID, URL: doc.URL, Name: doc.Name}, nil
}

// Download streams a stored document by its storage path.
func (s *DocumentService) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	reader, err := s.storage.Download(ctx, storagePath)
	if err != nil {
		return nil, ErrNotFound
	}
	return reader, nil
}
