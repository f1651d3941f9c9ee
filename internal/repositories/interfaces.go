package repositories

import (
	"context"
	"errors"

	"github.com/chrisdamba/kioskorder/internal/models"
)

var ErrNotFound = errors.New("record not found")

type ReceiptRepository interface {
	BulkCreate(ctx context.Context, receipts []*models.Receipt) error
	Create(ctx context.Context, receipt *models.Receipt) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Receipt, error)
	GetByTable(ctx context.Context, tableNumber string) ([]*models.Receipt, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
