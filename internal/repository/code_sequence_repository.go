package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CodeSequenceRepository backs negotiation display-code generation with
// one per-year counter row.
type CodeSequenceRepository struct {
	db *gorm.DB
}

func NewCodeSequenceRepository(db *gorm.DB) *CodeSequenceRepository {
	return &CodeSequenceRepository{db: db}
}

// Next atomically retrieves and increments the sequence for a year.
// Uses SELECT FOR UPDATE so concurrent creators never share a number.
// If no row exists for the year, one is created starting at 1.
func (r *CodeSequenceRepository) Next(ctx context.Context, year int) (int, error) {
	var seq domain.CodeSequence
	var next int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&seq)

		if result.Error == gorm.ErrRecordNotFound {
			seq = domain.CodeSequence{
				Year:      year,
				Value:     1,
				UpdatedAt: time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create code sequence: %w", err)
			}
			next = 1
		} else if result.Error != nil {
			return fmt.Errorf("failed to get code sequence: %w", result.Error)
		} else {
			next = seq.Value + 1
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"value":      next,
				"updated_at": time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update code sequence: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return next, nil
}
