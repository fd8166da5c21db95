package repository

import (
	"context"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// AssetRepository puerto de persistencia del libro de custodia.
// Usado dentro de transacciones para garantizar atomicidad de los lotes.
type AssetRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
	// GetForUpdate bloquea la fila del activo (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Asset, error)
	// GetManyForUpdate bloquea el conjunto completo de ids del lote; devuelve
	// error si algún id no existe (el lote es todo-o-nada).
	GetManyForUpdate(ctx context.Context, ids []string) ([]*entity.Asset, error)
	Update(ctx context.Context, asset *entity.Asset) error
	// AppendActivity agrega una entrada a la bitácora. La bitácora es append-only.
	AppendActivity(ctx context.Context, entry *entity.ActivityEntry) error
	ListActivity(ctx context.Context, assetID string, limit, offset int) ([]*entity.ActivityEntry, error)
}
