package repository

import (
	"context"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// LoanRequestRepository puerto de persistencia de solicitudes de préstamo.
type LoanRequestRepository interface {
	Create(ctx context.Context, l *entity.LoanRequest) error
	GetByID(ctx context.Context, id string) (*entity.LoanRequest, error)
	GetForUpdate(ctx context.Context, id string) (*entity.LoanRequest, error)
	Update(ctx context.Context, l *entity.LoanRequest) error
	List(ctx context.Context, limit, offset int) ([]*entity.LoanRequest, error)
	ListDocNumbers(ctx context.Context, prefix string) ([]string, error)
}
