package repository

import (
	"context"
	"testing"

	"github.com/jao1224/crmimobiliaria-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeSequenceRepository_Next(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := NewCodeSequenceRepository(db)

	t.Run("counts up within a year", func(t *testing.T) {
		for want := 1; want <= 3; want++ {
			got, err := repo.Next(ctx, 2026)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("years count independently", func(t *testing.T) {
		got, err := repo.Next(ctx, 2027)
		require.NoError(t, err)
		assert.Equal(t, 1, got)

		got, err = repo.Next(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 4, got)
	})
}
