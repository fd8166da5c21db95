package repository

import (
	"context"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// RequestRepository puerto de persistencia de solicitudes de compra/asignación.
type RequestRepository interface {
	Create(ctx context.Context, r *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	// GetForUpdate bloquea el documento para serializar transiciones concurrentes.
	GetForUpdate(ctx context.Context, id string) (*entity.Request, error)
	// Update persiste con chequeo optimista de versión; devuelve ErrConflict
	// si la versión en base difiere de la leída.
	Update(ctx context.Context, r *entity.Request) error
	List(ctx context.Context, limit, offset int) ([]*entity.Request, error)
	// ListDocNumbers números de documento existentes del prefijo, para la numeración.
	ListDocNumbers(ctx context.Context, prefix string) ([]string, error)
}
