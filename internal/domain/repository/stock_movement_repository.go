package repository

import (
	"context"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// StockMovementRepository puerto de persistencia del libro de movimientos de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// ListByItemForUpdate bloquea y devuelve todos los movimientos de la
	// identidad (name, brand) en orden (occurred_at, id), para el replay.
	ListByItemForUpdate(ctx context.Context, name, brand string) ([]*entity.StockMovement, error)
	ListByItem(ctx context.Context, name, brand string, limit, offset int) ([]*entity.StockMovement, error)
	// UpdateBalance reescribe el saldo corrido de un movimiento ya persistido.
	UpdateBalance(ctx context.Context, m *entity.StockMovement) error
}
