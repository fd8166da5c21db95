package assetops

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
	"github.com/jhoicas/activos-api/internal/domain/stock"
	"github.com/jhoicas/activos-api/pkg/logger"
)

// StockUseCase libro de movimientos de material a granel con saldo corrido.
// Cada registro dispara un replay completo de la identidad del ítem, por lo
// que un movimiento retro-fechado corrige los saldos posteriores por sí solo.
type StockUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockMovementRepository
	log       *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, stockRepo repository.StockMovementRepository, log *logger.Logger) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, stockRepo: stockRepo, log: log}
}

// RecordMovementInput entrada para registrar un movimiento.
type RecordMovementInput struct {
	Name        string
	Brand       string
	Type        entity.MovementType
	Quantity    decimal.Decimal
	ReferenceID *string
	Notes       string
	OccurredAt  time.Time // cero = ahora
	CreatedBy   string
}

// Record valida y persiste el movimiento, y recalcula por replay el saldo
// corrido de todos los movimientos de la identidad (name, brand) desde cero.
// Devuelve el movimiento con su BalanceAfter definitivo.
func (uc *StockUseCase) Record(ctx context.Context, in RecordMovementInput) (*entity.StockMovement, error) {
	if in.Name == "" || !in.Type.IsValid() || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	m := &entity.StockMovement{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Brand:       in.Brand,
		Type:        in.Type,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		OccurredAt:  occurredAt,
		CreatedAt:   now,
		CreatedBy:   in.CreatedBy,
	}

	err := uc.txRunner.RunStock(ctx, func(stockRepo repository.StockMovementRepository) error {
		if err := stockRepo.Create(ctx, m); err != nil {
			return err
		}
		movs, err := stockRepo.ListByItemForUpdate(ctx, m.Name, m.Brand)
		if err != nil {
			return err
		}
		for _, replayed := range stock.Replay(movs) {
			if err := stockRepo.UpdateBalance(ctx, replayed); err != nil {
				return err
			}
			if replayed.ID == m.ID {
				m.BalanceAfter = replayed.BalanceAfter
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("item", m.Name+"/"+m.Brand).
		Str("type", string(m.Type)).
		Str("balance_after", m.BalanceAfter.String()).
		Msg("movimiento de stock registrado")
	return m, nil
}

// ListByItem movimientos de una identidad de ítem, más reciente primero.
func (uc *StockUseCase) ListByItem(ctx context.Context, name, brand string, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.stockRepo.ListByItem(ctx, name, brand, limit, offset)
}
