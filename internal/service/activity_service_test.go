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
)

func newActivityService(db *gorm.DB) *ActivityService {
	return NewActivityService(
		repository.NewCaptureRepository(db),
		repository.NewNegotiationRepository(db),
		zap.NewNop(),
	)
}

func createTestCapture(t *testing.T, db *gorm.DB, realtorID, propertyName string, status domain.ActivityStatus) *domain.Capture {
	t.Helper()
	capture := &domain.Capture{
		PropertyName: propertyName,
		RealtorID:    realtorID,
		Value:        50000,
		Status:       status,
	}
	require.NoError(t, db.Create(capture).Error)
	return capture
}

func TestActivityService_BoardFor(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newActivityService(db)

	capture := createTestCapture(t, db, "user-1", "Chácara Leste", domain.ActivityStatusActive)
	createTestCapture(t, db, "someone-else", "Outro Imóvel", domain.ActivityStatusActive)

	negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-030", func(n *domain.Negotiation) {
		n.SalespersonID = "user-1"
		n.PropertyName = "Casa Jardins"
		n.Status = domain.ActivityStatusPending
	})
	testutil.CreateTestNegotiation(t, db, "NEG-2026-031", func(n *domain.Negotiation) {
		n.SalespersonID = "someone-else"
	})

	board, err := svc.BoardFor(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, board)

	// All four columns exist even when empty.
	assert.Len(t, board.Columns, len(domain.ActivityStatuses))

	require.Len(t, board.Columns[domain.ActivityStatusActive], 1)
	assert.Equal(t, capture.ID, board.Columns[domain.ActivityStatusActive][0].ID)
	assert.Equal(t, domain.ActivityKindCapture, board.Columns[domain.ActivityStatusActive][0].Kind)

	require.Len(t, board.Columns[domain.ActivityStatusPending], 1)
	assert.Equal(t, negotiation.ID, board.Columns[domain.ActivityStatusPending][0].ID)
	assert.Equal(t, domain.ActivityKindNegotiation, board.Columns[domain.ActivityStatusPending][0].Kind)

	assert.Empty(t, board.Columns[domain.ActivityStatusCompleted])
	assert.Empty(t, board.Columns[domain.ActivityStatusCancelled])
}

func TestActivityService_MoveActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("moves a capture and persists the status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newActivityService(db)

		capture := createTestCapture(t, db, "user-1", "Chácara Leste", domain.ActivityStatusActive)

		board, err := svc.MoveActivity(ctx, "user-1", &domain.MoveActivityRequest{
			Kind:   domain.ActivityKindCapture,
			ID:     capture.ID,
			Status: domain.ActivityStatusCompleted,
		})
		require.NoError(t, err)
		assert.Empty(t, board.Columns[domain.ActivityStatusActive])
		require.Len(t, board.Columns[domain.ActivityStatusCompleted], 1)
		assert.Equal(t, capture.ID, board.Columns[domain.ActivityStatusCompleted][0].ID)

		var reloaded domain.Capture
		require.NoError(t, db.First(&reloaded, "id = ?", capture.ID).Error)
		assert.Equal(t, domain.ActivityStatusCompleted, reloaded.Status)
	})

	t.Run("moves a negotiation card", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newActivityService(db)

		negotiation := testutil.CreateTestNegotiation(t, db, "NEG-2026-032", func(n *domain.Negotiation) {
			n.SalespersonID = "user-1"
		})

		board, err := svc.MoveActivity(ctx, "user-1", &domain.MoveActivityRequest{
			Kind:   domain.ActivityKindNegotiation,
			ID:     negotiation.ID,
			Status: domain.ActivityStatusCancelled,
		})
		require.NoError(t, err)
		require.Len(t, board.Columns[domain.ActivityStatusCancelled], 1)

		var reloaded domain.Negotiation
		require.NoError(t, db.First(&reloaded, "id = ?", negotiation.ID).Error)
		assert.Equal(t, domain.ActivityStatusCancelled, reloaded.Status)
	})

	t.Run("card not on the board", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newActivityService(db)

		createTestCapture(t, db, "user-1", "Chácara Leste", domain.ActivityStatusActive)

		_, err := svc.MoveActivity(ctx, "user-1", &domain.MoveActivityRequest{
			Kind:   domain.ActivityKindCapture,
			ID:     uuid.New(),
			Status: domain.ActivityStatusCompleted,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("restores the board when persistence fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newActivityService(db)

		capture := createTestCapture(t, db, "user-1", "Chácara Leste", domain.ActivityStatusActive)

		err := db.Callback().Update().Before("gorm:update").Register("fail_capture_update", func(tx *gorm.DB) {
			if tx.Statement.Table == "captures" {
				tx.AddError(errors.New("simulated write failure"))
			}
		})
		require.NoError(t, err)

		board, err := svc.MoveActivity(ctx, "user-1", &domain.MoveActivityRequest{
			Kind:   domain.ActivityKindCapture,
			ID:     capture.ID,
			Status: domain.ActivityStatusCompleted,
		})
		require.Error(t, err)

		// The returned board is the untouched snapshot.
		require.NotNil(t, board)
		require.Len(t, board.Columns[domain.ActivityStatusActive], 1)
		assert.Equal(t, capture.ID, board.Columns[domain.ActivityStatusActive][0].ID)
		assert.Empty(t, board.Columns[domain.ActivityStatusCompleted])
	})

	t.Run("invalid kind and status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newActivityService(db)

		_, err := svc.MoveActivity(ctx, "user-1", &domain.MoveActivityRequest{
			Kind:   domain.ActivityKind("bogus"),
			ID:     uuid.New(),
			Status: domain.ActivityStatusActive,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.MoveActivity(ctx, "user-1", &domain.MoveActivityRequest{
			Kind:   domain.ActivityKindCapture,
			ID:     uuid.New(),
			Status: domain.ActivityStatus("bogus"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
