package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

var _ assetops.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(tx Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAssets transacción solo sobre el libro de custodia.
func (r *TxRunner) RunAssets(ctx context.Context, fn func(repository.AssetRepository) error) error {
	return r.run(ctx, func(tx Querier) error {
		return fn(NewAssetRepository(tx))
	})
}

// RunRequest transacción sobre una solicitud y el libro de custodia.
func (r *TxRunner) RunRequest(ctx context.Context, fn func(
	repository.RequestRepository,
	repository.AssetRepository,
) error) error {
	return r.run(ctx, func(tx Querier) error {
		return fn(NewRequestRepository(tx), NewAssetRepository(tx))
	})
}

// RunLoan transacción sobre préstamo, devoluciones y libro de custodia.
func (r *TxRunner) RunLoan(ctx context.Context, fn func(
	repository.LoanRequestRepository,
	repository.AssetReturnRepository,
	repository.AssetRepository,
) error) error {
	return r.run(ctx, func(tx Querier) error {
		return fn(NewLoanRequestRepository(tx), NewAssetReturnRepository(tx), NewAssetRepository(tx))
	})
}

// RunStock transacción sobre el libro de movimientos de stock.
func (r *TxRunner) RunStock(ctx context.Context, fn func(repository.StockMovementRepository) error) error {
	return r.run(ctx, func(tx Querier) error {
		return fn(NewStockMovementRepository(tx))
	})
}
