package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, name, brand, type, quantity, balance_after, reference_id,
		notes, occurred_at, created_at, created_by`

// Create persiste un movimiento. El libro es append-only: solo balance_after
// se reescribe después, vía UpdateBalance durante el replay.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Brand, m.Type, m.Quantity, m.BalanceAfter, m.ReferenceID,
		m.Notes, m.OccurredAt, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Brand, &m.Type, &m.Quantity, &m.BalanceAfter, &m.ReferenceID,
		&m.Notes, &m.OccurredAt, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &m, nil
}

// ListByItemForUpdate bloquea y devuelve todos los movimientos de la identidad
// (name, brand) en orden (occurred_at, id), para el replay del saldo.
func (r *StockMovementRepo) ListByItemForUpdate(ctx context.Context, name, brand string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE name = $1 AND brand = $2
		ORDER BY occurred_at, id
		FOR UPDATE`
	return r.list(ctx, query, name, brand)
}

// ListByItem movimientos paginados de una identidad, más reciente primero.
func (r *StockMovementRepo) ListByItem(ctx context.Context, name, brand string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE name = $1 AND brand = $2
		ORDER BY occurred_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	return r.list(ctx, query, name, brand, limit, offset)
}

// UpdateBalance reescribe el saldo corrido de un movimiento ya persistido.
func (r *StockMovementRepo) UpdateBalance(ctx context.Context, m *entity.StockMovement) error {
	query := `UPDATE stock_movements SET balance_after = $2 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.BalanceAfter)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Brand, &m.Type, &m.Quantity, &m.BalanceAfter, &m.ReferenceID,
			&m.Notes, &m.OccurredAt, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
