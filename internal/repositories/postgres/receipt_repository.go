package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/chrisdamba/kioskorder/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReceiptRepository struct {
	pool *pgxpool.Pool
}

func NewReceiptRepository(pool *pgxpool.Pool) *ReceiptRepository {
	return &ReceiptRepository{pool: pool}
}

const insertReceiptSQL = `
	INSERT INTO receipts (
		order_id, table_number, table_id, customer_name, customer_mobile,
		coupon_code, items, subtotal, discount, cgst, sgst, total, placed_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	)
	ON CONFLICT (order_id) DO NOTHING`

const selectReceiptSQL = `
	SELECT
		order_id, table_number, COALESCE(table_id, ''), COALESCE(customer_name, ''),
		COALESCE(customer_mobile, ''), COALESCE(coupon_code, ''), items,
		subtotal::float8, discount::float8, cgst::float8, sgst::float8, total::float8,
		placed_at
	FROM receipts`

func receiptArgs(receipt *models.Receipt) ([]interface{}, error) {
	items, err := json.Marshal(receipt.Items)
	if err != nil {
		return nil, fmt.Errorf("encode receipt items: %w", err)
	}
	return []interface{}{
		receipt.OrderID,
		receipt.TableNumber,
		nullable(receipt.TableID),
		nullable(receipt.CustomerName),
		nullable(receipt.CustomerMobile),
		nullable(receipt.CouponCode),
		items,
		receipt.Subtotal,
		receipt.Discount,
		receipt.CGST,
		receipt.SGST,
		receipt.Total,
		receipt.PlacedAt,
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *ReceiptRepository) BulkCreate(ctx context.Context, receipts []*models.Receipt) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, receipt := range receipts {
		args, err := receiptArgs(receipt)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertReceiptSQL, args...); err != nil {
			return fmt.Errorf("insert receipt %s: %w", receipt.OrderID, err)
		}
	}

	return tx.Commit(ctx)
}

// Create stores a receipt. Storing the same order twice is a no-op.
func (r *ReceiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	args, err := receiptArgs(receipt)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, insertReceiptSQL, args...)
	return err
}

func (r *ReceiptRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Receipt, error) {
	row := r.pool.QueryRow(ctx, selectReceiptSQL+` WHERE order_id = $1`, orderID)
	receipt, err := scanReceipt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return receipt, err
}

func (r *ReceiptRepository) GetByTable(ctx context.Context, tableNumber string) ([]*models.Receipt, error) {
	rows, err := r.pool.Query(ctx, selectReceiptSQL+` WHERE table_number = $1 ORDER BY placed_at`, tableNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, rows.Err()
}

func (r *ReceiptRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM receipts").Scan(&count)
	return count, err
}

func (r *ReceiptRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM receipts")
	return err
}

func scanReceipt(row pgx.Row) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	var items []byte
	err := row.Scan(
		&receipt.OrderID,
		&receipt.TableNumber,
		&receipt.TableID,
		&receipt.CustomerName,
		&receipt.CustomerMobile,
		&receipt.CouponCode,
		&items,
		&receipt.Subtotal,
		&receipt.Discount,
		&receipt.CGST,
		&receipt.SGST,
		&receipt.Total,
		&receipt.PlacedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &receipt.Items); err != nil {
		return nil, fmt.Errorf("decode receipt items: %w", err)
	}
	return receipt, nil
}
