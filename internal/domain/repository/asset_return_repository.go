package repository

import (
	"context"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// AssetReturnRepository puerto de persistencia de documentos de devolución.
type AssetReturnRepository interface {
	Create(ctx context.Context, r *entity.AssetReturn) error
	GetByID(ctx context.Context, id string) (*entity.AssetReturn, error)
	GetForUpdate(ctx context.Context, id string) (*entity.AssetReturn, error)
	Update(ctx context.Context, r *entity.AssetReturn) error
	ListByLoan(ctx context.Context, loanRequestID string) ([]*entity.AssetReturn, error)
	ListDocNumbers(ctx context.Context, prefix string) ([]string, error)
}
