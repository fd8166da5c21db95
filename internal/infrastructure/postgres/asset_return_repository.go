package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

var _ repository.AssetReturnRepository = (*AssetReturnRepo)(nil)

// AssetReturnRepo implementación de AssetReturnRepository sobre PostgreSQL
// (usable con pool o tx).
type AssetReturnRepo struct {
	q Querier
}

// NewAssetReturnRepository construye el adaptador de devoluciones. Pasar pool o tx (Querier).
func NewAssetReturnRepository(q Querier) *AssetReturnRepo {
	return &AssetReturnRepo{q: q}
}

const returnColumns = `id, doc_number, loan_request_id, items, status, verified_by,
		verified_at, version, created_at, updated_at`

// Create persiste un documento de devolución. ErrDuplicate ante colisión de número.
func (r *AssetReturnRepo) Create(ctx context.Context, ret *entity.AssetReturn) error {
	items, err := json.Marshal(ret.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	query := `
		INSERT INTO asset_returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		ret.ID, ret.DocNumber, ret.LoanRequestID, items, ret.Status, ret.VerifiedBy,
		ret.VerifiedAt, ret.Version, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert asset return: %w", err)
	}
	return nil
}

// GetByID obtiene un documento de devolución por ID.
func (r *AssetReturnRepo) GetByID(ctx context.Context, id string) (*entity.AssetReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM asset_returns WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene y bloquea el documento.
func (r *AssetReturnRepo) GetForUpdate(ctx context.Context, id string) (*entity.AssetReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM asset_returns WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// Update persiste con chequeo optimista de versión.
func (r *AssetReturnRepo) Update(ctx context.Context, ret *entity.AssetReturn) error {
	items, err := json.Marshal(ret.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	query := `
		UPDATE asset_returns
		SET items = $2, status = $3, verified_by = $4, verified_at = $5,
		    version = version + 1, updated_at = $6
		WHERE id = $1 AND version = $7`
	tag, err := r.q.Exec(ctx, query,
		ret.ID, items, ret.Status, ret.VerifiedBy, ret.VerifiedAt,
		ret.UpdatedAt, ret.Version,
	)
	if err != nil {
		return fmt.Errorf("update asset return: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	ret.Version++
	return nil
}

// ListByLoan devoluciones asociadas a un préstamo, más antigua primero.
func (r *AssetReturnRepo) ListByLoan(ctx context.Context, loanRequestID string) ([]*entity.AssetReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM asset_returns WHERE loan_request_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, loanRequestID)
	if err != nil {
		return nil, fmt.Errorf("list returns by loan: %w", err)
	}
	defer rows.Close()

	var out []*entity.AssetReturn
	for rows.Next() {
		ret, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ret)
	}
	return out, rows.Err()
}

// ListDocNumbers números de documento existentes del prefijo.
func (r *AssetReturnRepo) ListDocNumbers(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT doc_number FROM asset_returns WHERE doc_number LIKE $1 || '-%'`
	rows, err := r.q.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("list doc numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan doc number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

func (r *AssetReturnRepo) scanOne(row pgx.Row) (*entity.AssetReturn, error) {
	var (
		ret   entity.AssetReturn
		items []byte
	)
	err := row.Scan(
		&ret.ID, &ret.DocNumber, &ret.LoanRequestID, &items, &ret.Status, &ret.VerifiedBy,
		&ret.VerifiedAt, &ret.Version, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan asset return: %w", err)
	}
	if err := json.Unmarshal(items, &ret.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return &ret, nil
}
