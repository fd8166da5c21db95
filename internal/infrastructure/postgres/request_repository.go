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

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo implementación de RequestRepository sobre PostgreSQL (usable con pool o tx).
// Los ítems y el registro parcial se guardan como JSONB: viajan siempre con el
// documento y mutan solo bajo su bloqueo.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador de solicitudes. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

const requestColumns = `id, doc_number, requester, division, allocation_target, items, status,
		partially_registered, rejection_reason, approved_by, logistic_approved_at,
		ceo_approved_at, arrived_at, completed_at, version, created_at, updated_at`

// Create persiste una nueva solicitud. Devuelve ErrDuplicate si el número de
// documento ya existe (constraint único), para que el caso de uso reintente.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	registered, err := json.Marshal(req.PartiallyRegistered)
	if err != nil {
		return fmt.Errorf("marshal registered: %w", err)
	}
	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.q.Exec(ctx, query,
		req.ID, req.DocNumber, req.Requester, req.Division, req.AllocationTarget, items, req.Status,
		registered, req.RejectionReason, req.ApprovedBy, req.LogisticApprovedAt,
		req.CEOApprovedAt, req.ArrivedAt, req.CompletedAt, req.Version, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene y bloquea el documento para serializar transiciones.
func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// Update persiste con chequeo optimista de versión; ErrConflict si la versión
// en base difiere de la leída.
func (r *RequestRepo) Update(ctx context.Context, req *entity.Request) error {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	registered, err := json.Marshal(req.PartiallyRegistered)
	if err != nil {
		return fmt.Errorf("marshal registered: %w", err)
	}
	query := `
		UPDATE requests
		SET items = $2, status = $3, partially_registered = $4, rejection_reason = $5,
		    approved_by = $6, logistic_approved_at = $7, ceo_approved_at = $8,
		    arrived_at = $9, completed_at = $10, version = version + 1, updated_at = $11
		WHERE id = $1 AND version = $12`
	tag, err := r.q.Exec(ctx, query,
		req.ID, items, req.Status, registered, req.RejectionReason,
		req.ApprovedBy, req.LogisticApprovedAt, req.CEOApprovedAt,
		req.ArrivedAt, req.CompletedAt, req.UpdatedAt, req.Version,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	req.Version++
	return nil
}

// List solicitudes paginadas, más reciente primero.
func (r *RequestRepo) List(ctx context.Context, limit, offset int) ([]*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []*entity.Request
	for rows.Next() {
		req, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ListDocNumbers números de documento existentes del prefijo, para la numeración.
func (r *RequestRepo) ListDocNumbers(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT doc_number FROM requests WHERE doc_number LIKE $1 || '-%'`
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

func (r *RequestRepo) scanOne(row pgx.Row) (*entity.Request, error) {
	var (
		req        entity.Request
		items      []byte
		registered []byte
	)
	err := row.Scan(
		&req.ID, &req.DocNumber, &req.Requester, &req.Division, &req.AllocationTarget, &items, &req.Status,
		&registered, &req.RejectionReason, &req.ApprovedBy, &req.LogisticApprovedAt,
		&req.CEOApprovedAt, &req.ArrivedAt, &req.CompletedAt, &req.Version, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan request: %w", err)
	}
	if err := json.Unmarshal(items, &req.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(registered, &req.PartiallyRegistered); err != nil {
		return nil, fmt.Errorf("unmarshal registered: %w", err)
	}
	return &req, nil
}
