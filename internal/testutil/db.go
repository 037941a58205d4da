package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated in-memory SQLite database and migrates
// the full schema. Every call gets its own database, so tests never
// share state and need no cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	err = db.AutoMigrate(
		&domain.Property{},
		&domain.Client{},
		&domain.Capture{},
		&domain.Negotiation{},
		&domain.NegotiationDocument{},
		&domain.Commission{},
		&domain.ServiceRequest{},
		&domain.FinancingProcess{},
		&domain.Process{},
		&domain.User{},
		&domain.CodeSequence{},
	)
	require.NoError(t, err, "Failed to migrate test schema")

	return db
}

// CreateTestProperty creates a property and returns it
func CreateTestProperty(t *testing.T, db *gorm.DB, code, name string, value float64) *domain.Property {
	t.Helper()

	property := &domain.Property{
		Code:   code,
		Name:   name,
		City:   "São Paulo",
		Value:  value,
		Status: domain.PropertyAvailable,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

// CreateTestClient creates a client and returns it
func CreateTestClient(t *testing.T, db *gorm.DB, name, userID string) *domain.Client {
	t.Helper()

	client := &domain.Client{
		Name:   name,
		Email:  "client@example.com",
		Phone:  "11999990000",
		UserID: userID,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestNegotiation creates a negotiation with sensible defaults.
// The mutate callback adjusts fields before the insert.
func CreateTestNegotiation(t *testing.T, db *gorm.DB, code string, mutate func(*domain.Negotiation)) *domain.Negotiation {
	t.Helper()

	negotiation := &domain.Negotiation{
		Code:           code,
		SalespersonID:  "seller-1",
		Stage:          domain.StageProposalSent,
		ContractStatus: domain.ContractNotGenerated,
		Type:           domain.TypeSale,
		Value:          100000,
		Status:         domain.ActivityStatusActive,
		ProcessStatus:  domain.ProcessStatusActive,
		ProcessStage:   domain.ProcessStageInProgress,
	}
	if mutate != nil {
		mutate(negotiation)
	}
	require.NoError(t, db.Omit(clause.Associations).Create(negotiation).Error)
	return negotiation
}
