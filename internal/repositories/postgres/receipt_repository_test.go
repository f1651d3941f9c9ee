package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/chrisdamba/kioskorder/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) *ReceiptRepository {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping postgres tests")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewReceiptRepository(pool)
	require.NoError(t, repo.DeleteAll(ctx))
	return repo
}

func sampleReceipt(orderID, table string) *models.Receipt {
	note := "no onions"
	return &models.Receipt{
		OrderID:      orderID,
		TableNumber:  table,
		CustomerName: "Asha",
		CouponCode:   "WELCOME10",
		Items: []models.OrderItem{{
			ItemID:              "2",
			Name:                "Masala Dosa",
			Price:               125,
			BasePrice:           110,
			Quantity:            2,
			Variations:          []string{"Cheese"},
			GroupedVariations:   map[string][]string{"Add-ons": {"Cheese"}},
			SpecialInstructions: &note,
		}},
		Subtotal: 250,
		Discount: 25,
		CGST:     5.63,
		SGST:     5.63,
		Total:    236.25,
		PlacedAt: time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
	}
}

func TestReceiptRepository(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleReceipt("ord-1", "04")))
	require.NoError(t, repo.Create(ctx, sampleReceipt("ord-1", "04")), "duplicate insert is a no-op")
	require.NoError(t, repo.BulkCreate(ctx, []*models.Receipt{
		sampleReceipt("ord-2", "04"),
		sampleReceipt("ord-3", "07"),
	}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := repo.GetByOrderID(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.CustomerName)
	assert.Empty(t, got.CustomerMobile)
	assert.Equal(t, 236.25, got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, []string{"Cheese"}, got.Items[0].GroupedVariations["Add-ons"])

	_, err = repo.GetByOrderID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	byTable, err := repo.GetByTable(ctx, "04")
	require.NoError(t, err)
	assert.Len(t, byTable, 2)

	require.NoError(t, repo.DeleteAll(ctx))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
