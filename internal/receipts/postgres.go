package receipts

import (
	"context"
	"time"

	"github.com/chrisdamba/kioskorder/internal/repositories"
	"github.com/chrisdamba/kioskorder/internal/repositories/postgres"
)

const postgresWriteTimeout = 10 * time.Second

type PostgresOutput struct {
	repo    repositories.ReceiptRepository
	release func()
}

// OpenPostgresOutput connects to databaseURL and stores receipts there.
func OpenPostgresOutput(ctx context.Context, databaseURL string) (*PostgresOutput, error) {
	pool, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &PostgresOutput{
		repo:    postgres.NewReceiptRepository(pool),
		release: pool.Close,
	}, nil
}

func NewPostgresOutput(repo repositories.ReceiptRepository) *PostgresOutput {
	return &PostgresOutput{repo: repo}
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	receipt, err := decodeReceipt(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), postgresWriteTimeout)
	defer cancel()
	return p.repo.Create(ctx, receipt)
}

func (p *PostgresOutput) Close() error {
	if p.release != nil {
		p.release()
		p.release = nil
	}
	return nil
}
