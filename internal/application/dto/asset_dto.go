package dto

import (
	"time"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// UpdateAssetRequest patch parcial sobre un activo del libro de custodia.
// clear_holder y holder son excluyentes; clear_holder gana si ambos vienen.
type UpdateAssetRequest struct {
	Status      *string `json:"status"`
	Condition   *string `json:"condition"`
	Holder      *string `json:"holder"`
	ClearHolder bool    `json:"clear_holder"`
	Location    *string `json:"location"`
	Detail      string  `json:"detail" validate:"omitempty,max=500"`
}

// BatchUpdateAssetsRequest mismo patch aplicado a un conjunto de activos.
type BatchUpdateAssetsRequest struct {
	AssetIDs    []string `json:"asset_ids" validate:"required,min=1"`
	Status      *string  `json:"status"`
	Condition   *string  `json:"condition"`
	Holder      *string  `json:"holder"`
	ClearHolder bool     `json:"clear_holder"`
	Location    *string  `json:"location"`
	Detail      string   `json:"detail" validate:"omitempty,max=500"`
	ReferenceID *string  `json:"reference_id"`
}

// AssetResponse salida de un activo.
type AssetResponse struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	Type          string    `json:"type"`
	Brand         string    `json:"brand,omitempty"`
	SerialNumber  string    `json:"serial_number,omitempty"`
	Status        string    `json:"status"`
	Condition     string    `json:"condition"`
	CurrentHolder *string   `json:"current_holder,omitempty"`
	Location      string    `json:"location,omitempty"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ActivityEntryResponse entrada de bitácora de un activo.
type ActivityEntryResponse struct {
	ID          string    `json:"id"`
	AssetID     string    `json:"asset_id"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	Detail      string    `json:"detail,omitempty"`
	ReferenceID *string   `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityListResponse bitácora paginada.
type ActivityListResponse struct {
	Items []ActivityEntryResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ToAssetResponse convierte la entidad a su representación HTTP.
func ToAssetResponse(a *entity.Asset) AssetResponse {
	return AssetResponse{
		ID:            a.ID,
		Category:      a.Category,
		Type:          a.Type,
		Brand:         a.Brand,
		SerialNumber:  a.SerialNumber,
		Status:        string(a.Status),
		Condition:     string(a.Condition),
		CurrentHolder: a.CurrentHolder,
		Location:      a.Location,
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToActivityEntryResponse convierte una entrada de bitácora.
func ToActivityEntryResponse(e *entity.ActivityEntry) ActivityEntryResponse {
	return ActivityEntryResponse{
		ID:          e.ID,
		AssetID:     e.AssetID,
		Actor:       e.Actor,
		Action:      e.Action,
		Detail:      e.Detail,
		ReferenceID: e.ReferenceID,
		CreatedAt:   e.CreatedAt,
	}
}

// ToAssetPatch traduce el patch HTTP al patch de dominio.
func (r UpdateAssetRequest) ToAssetPatch() entity.AssetPatch {
	return assetPatch(r.Status, r.Condition, r.Holder, r.ClearHolder, r.Location)
}

// ToAssetPatch traduce el patch HTTP al patch de dominio.
func (r BatchUpdateAssetsRequest) ToAssetPatch() entity.AssetPatch {
	return assetPatch(r.Status, r.Condition, r.Holder, r.ClearHolder, r.Location)
}

func assetPatch(status, condition, holder *string, clearHolder bool, location *string) entity.AssetPatch {
	p := entity.AssetPatch{Holder: holder, ClearHolder: clearHolder, Location: location}
	if status != nil {
		st := entity.AssetStatus(*status)
		p.Status = &st
	}
	if condition != nil {
		c := entity.AssetCondition(*condition)
		p.Condition = &c
	}
	return p
}
