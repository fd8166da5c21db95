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

var _ repository.AssetRepository = (*AssetRepo)(nil)

// AssetRepo implementación del libro de custodia sobre PostgreSQL (usable con pool o tx).
type AssetRepo struct {
	q Querier
}

// NewAssetRepository construye el adaptador de activos. Pasar pool o tx (Querier).
func NewAssetRepository(q Querier) *AssetRepo {
	return &AssetRepo{q: q}
}

const assetColumns = `id, category, type, brand, serial_number, status, condition,
		current_holder, location, version, created_at, updated_at`

// GetByID obtiene un activo por ID.
func (r *AssetRepo) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene un activo y bloquea su fila (SELECT FOR UPDATE).
func (r *AssetRepo) GetForUpdate(ctx context.Context, id string) (*entity.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetManyForUpdate bloquea el conjunto completo del lote. Si algún id no
// existe devuelve ErrNotFound: el lote es todo-o-nada.
func (r *AssetRepo) GetManyForUpdate(ctx context.Context, ids []string) ([]*entity.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock assets: %w", err)
	}
	defer rows.Close()

	var assets []*entity.Asset
	for rows.Next() {
		a, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	if len(assets) != len(ids) {
		return nil, domain.ErrNotFound
	}
	return assets, nil
}

// Update persiste el activo con chequeo optimista de versión.
func (r *AssetRepo) Update(ctx context.Context, asset *entity.Asset) error {
	query := `
		UPDATE assets
		SET status = $2, condition = $3, current_holder = $4, location = $5,
		    version = version + 1, updated_at = $6
		WHERE id = $1 AND version = $7`
	tag, err := r.q.Exec(ctx, query,
		asset.ID, asset.Status, asset.Condition, asset.CurrentHolder, asset.Location,
		asset.UpdatedAt, asset.Version,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Fila inexistente o versión vencida: distinguir para el mapeo HTTP.
		var exists bool
		if err := r.q.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1)`, asset.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check asset exists: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	asset.Version++
	return nil
}

// AppendActivity agrega una entrada a la bitácora (append-only).
func (r *AssetRepo) AppendActivity(ctx context.Context, entry *entity.ActivityEntry) error {
	query := `
		INSERT INTO asset_activity (id, asset_id, actor, action, detail, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.AssetID, entry.Actor, entry.Action, entry.Detail, entry.ReferenceID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListActivity bitácora de un activo, más reciente primero.
func (r *AssetRepo) ListActivity(ctx context.Context, assetID string, limit, offset int) ([]*entity.ActivityEntry, error) {
	query := `
		SELECT id, asset_id, actor, action, detail, reference_id, created_at
		FROM asset_activity
		WHERE asset_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, assetID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var entries []*entity.ActivityEntry
	for rows.Next() {
		var e entity.ActivityEntry
		if err := rows.Scan(&e.ID, &e.AssetID, &e.Actor, &e.Action, &e.Detail, &e.ReferenceID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *AssetRepo) scanOne(row pgx.Row) (*entity.Asset, error) {
	var a entity.Asset
	err := row.Scan(
		&a.ID, &a.Category, &a.Type, &a.Brand, &a.SerialNumber, &a.Status, &a.Condition,
		&a.CurrentHolder, &a.Location, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	return &a, nil
}
