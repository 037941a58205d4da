package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/mapper"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActivityService projects captures and negotiations onto a per-user
// kanban board. The board is a read model; moves write through to the
// source record the card was projected from.
type ActivityService struct {
	captureRepo     *repository.CaptureRepository
	negotiationRepo *repository.NegotiationRepository
	logger          *zap.Logger
}

func NewActivityService(
	captureRepo *repository.CaptureRepository,
	negotiationRepo *repository.NegotiationRepository,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		captureRepo:     captureRepo,
		negotiationRepo: negotiationRepo,
		logger:          logger,
	}
}

// BoardFor builds the four-column board from the user's captures and the
// negotiations they participate in.
func (s *ActivityService) BoardFor(ctx context.Context, userID string) (*domain.Board, error) {
	captures, err := s.captureRepo.GetByRealtor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load captures: %w", err)
	}

	negotiations, err := s.negotiationRepo.GetByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load negotiations: %w", err)
	}

	board := newBoard()
	for i := range captures {
		card := mapper.CaptureToCard(&captures[i])
		board.Columns[card.Status] = append(board.Columns[card.Status], card)
	}
	for i := range negotiations {
		card := mapper.NegotiationToCard(&negotiations[i])
		board.Columns[card.Status] = append(board.Columns[card.Status], card)
	}

	return board, nil
}

// MoveActivity moves one card to another column with an optimistic
// update: the move is applied to a working copy of the board first, then
// persisted to the source record. If persistence fails the untouched
// snapshot is returned, so the caller's view matches the store again.
func (s *ActivityService) MoveActivity(ctx context.Context, userID string, req *domain.MoveActivityRequest) (*domain.Board, error) {
	if !req.Kind.IsValid() || !req.Status.IsValid() {
		return nil, ErrInvalidInput
	}

	snapshot, err := s.BoardFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	board := cloneBoard(snapshot)
	if !applyMove(board, req) {
		return nil, ErrNotFound
	}

	if err := s.persistMove(ctx, req); err != nil {
		s.logger.Warn("activity move failed, board restored",
			zap.String("user_id", userID),
			zap.String("kind", string(req.Kind)),
			zap.String("card_id", req.ID.String()),
			zap.Error(err),
		)
		return snapshot, err
	}

	return board, nil
}

// persistMove dispatches on the card's source kind.
func (s *ActivityService) persistMove(ctx context.Context, req *domain.MoveActivityRequest) error {
	switch req.Kind {
	case domain.ActivityKindCapture:
		if _, err := s.captureRepo.GetByID(ctx, req.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get capture: %w", err)
		}
		return s.captureRepo.SetStatus(ctx, req.ID, req.Status)

	case domain.ActivityKindNegotiation:
		negotiation, err := s.negotiationRepo.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get negotiation: %w", err)
		}
		if negotiation.IsDeleted {
			return ErrRecordDeleted
		}
		return s.negotiationRepo.SetStatus(ctx, req.ID, req.Status)

	default:
		return ErrInvalidInput
	}
}

func newBoard() *domain.Board {
	board := &domain.Board{Columns: make(map[domain.ActivityStatus][]domain.ActivityCard, len(domain.ActivityStatuses))}
	for _, status := range domain.ActivityStatuses {
		board.Columns[status] = []domain.ActivityCard{}
	}
	return board
}

func cloneBoard(b *domain.Board) *domain.Board {
	clone := &domain.Board{Columns: make(map[domain.ActivityStatus][]domain.ActivityCard, len(b.Columns))}
	for status, cards := range b.Columns {
		copied := make([]domain.ActivityCard, len(cards))
		copy(copied, cards)
		clone.Columns[status] = copied
	}
	return clone
}

// applyMove relocates the card in the working copy. Returns false when
// the card is not on the board.
func applyMove(board *domain.Board, req *domain.MoveActivityRequest) bool {
	for status, cards := range board.Columns {
		for i, card := range cards {
			if card.Kind != req.Kind || card.ID != req.ID {
				continue
			}
			board.Columns[status] = append(cards[:i:i], cards[i+1:]...)
			card.Status = req.Status
			board.Columns[req.Status] = append(board.Columns[req.Status], card)
			return true
		}
	}
	return false
}
