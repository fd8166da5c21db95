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

var _ repository.LoanRequestRepository = (*LoanRequestRepo)(nil)

// LoanRequestRepo implementación de LoanRequestRepository sobre PostgreSQL
// (usable con pool o tx). Ítems y asignaciones viven como JSONB del documento.
type LoanRequestRepo struct {
	q Querier
}

// NewLoanRequestRepository construye el adaptador de préstamos. Pasar pool o tx (Querier).
func NewLoanRequestRepository(q Querier) *LoanRequestRepo {
	return &LoanRequestRepo{q: q}
}

const loanColumns = `id, doc_number, requester, division, items, assigned_asset_ids,
		returned_asset_ids, status, rejection_reason, approved_by, approved_at,
		version, created_at, updated_at`

// Create persiste un nuevo préstamo. ErrDuplicate ante colisión de número de documento.
func (r *LoanRequestRepo) Create(ctx context.Context, l *entity.LoanRequest) error {
	items, assigned, returned, err := marshalLoanJSON(l)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO loan_requests (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(ctx, query,
		l.ID, l.DocNumber, l.Requester, l.Division, items, assigned,
		returned, l.Status, l.RejectionReason, l.ApprovedBy, l.ApprovedAt,
		l.Version, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert loan request: %w", err)
	}
	return nil
}

// GetByID obtiene un préstamo por ID.
func (r *LoanRequestRepo) GetByID(ctx context.Context, id string) (*entity.LoanRequest, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_requests WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene y bloquea el documento.
func (r *LoanRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.LoanRequest, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// Update persiste con chequeo optimista de versión.
func (r *LoanRequestRepo) Update(ctx context.Context, l *entity.LoanRequest) error {
	items, assigned, returned, err := marshalLoanJSON(l)
	if err != nil {
		return err
	}
	query := `
		UPDATE loan_requests
		SET items = $2, assigned_asset_ids = $3, returned_asset_ids = $4, status = $5,
		    rejection_reason = $6, approved_by = $7, approved_at = $8,
		    version = version + 1, updated_at = $9
		WHERE id = $1 AND version = $10`
	tag, err := r.q.Exec(ctx, query,
		l.ID, items, assigned, returned, l.Status,
		l.RejectionReason, l.ApprovedBy, l.ApprovedAt,
		l.UpdatedAt, l.Version,
	)
	if err != nil {
		return fmt.Errorf("update loan request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	l.Version++
	return nil
}

// List préstamos paginados, más reciente primero.
func (r *LoanRequestRepo) List(ctx context.Context, limit, offset int) ([]*entity.LoanRequest, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list loan requests: %w", err)
	}
	defer rows.Close()

	var out []*entity.LoanRequest
	for rows.Next() {
		l, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListDocNumbers números de documento existentes del prefijo.
func (r *LoanRequestRepo) ListDocNumbers(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT doc_number FROM loan_requests WHERE doc_number LIKE $1 || '-%'`
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

func (r *LoanRequestRepo) scanOne(row pgx.Row) (*entity.LoanRequest, error) {
	var (
		l        entity.LoanRequest
		items    []byte
		assigned []byte
		returned []byte
	)
	err := row.Scan(
		&l.ID, &l.DocNumber, &l.Requester, &l.Division, &items, &assigned,
		&returned, &l.Status, &l.RejectionReason, &l.ApprovedBy, &l.ApprovedAt,
		&l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan loan request: %w", err)
	}
	if err := json.Unmarshal(items, &l.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(assigned, &l.AssignedAssetIDs); err != nil {
		return nil, fmt.Errorf("unmarshal assigned: %w", err)
	}
	if err := json.Unmarshal(returned, &l.ReturnedAssetIDs); err != nil {
		return nil, fmt.Errorf("unmarshal returned: %w", err)
	}
	return &l, nil
}

func marshalLoanJSON(l *entity.LoanRequest) (items, assigned, returned []byte, err error) {
	if items, err = json.Marshal(l.Items); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal items: %w", err)
	}
	if assigned, err = json.Marshal(l.AssignedAssetIDs); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal assigned: %w", err)
	}
	if returned, err = json.Marshal(l.ReturnedAssetIDs); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal returned: %w", err)
	}
	return items, assigned, returned, nil
}
