package dto

import (
	"time"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// CreateRequestRequest entrada para crear una solicitud de compra/asignación.
type CreateRequestRequest struct {
	Division         string                `json:"division" validate:"omitempty,max=200"`
	AllocationTarget string                `json:"allocation_target" validate:"required,oneof=Usage Inventory"`
	Items            []CreateRequestItemIn `json:"items" validate:"required,min=1,dive"`
}

// CreateRequestItemIn ítem solicitado.
type CreateRequestItemIn struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Brand    string `json:"brand" validate:"omitempty,max=100"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// ApproveRequestRequest decisión de logística por ítem.
type ApproveRequestRequest struct {
	Decisions map[string]ItemDecisionIn `json:"decisions" validate:"required,min=1"`
}

// ItemDecisionIn decisión sobre un ítem: estado y cantidad aprobada opcional.
type ItemDecisionIn struct {
	Status           string `json:"status" validate:"required,oneof=approved rejected partial stock_allocated procurement_needed"`
	ApprovedQuantity *int   `json:"approved_quantity" validate:"omitempty,min=0"`
}

// RejectRequestRequest razón de un rechazo o decisión negativa del CEO.
type RejectRequestRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// CEODecisionRequest decisión final del CEO sobre la compra.
type CEODecisionRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"omitempty,max=500"`
}

// RegisterAssetsRequest registro de unidades llegadas para un ítem.
type RegisterAssetsRequest struct {
	ItemID string `json:"item_id" validate:"required"`
	Count  int    `json:"count" validate:"min=0"`
}

// CompleteHandoverRequest entrega física de los activos asignados.
type CompleteHandoverRequest struct {
	AssetIDs  []string `json:"asset_ids" validate:"required,min=1"`
	Recipient string   `json:"recipient" validate:"required"`
}

// RequestItemResponse ítem de una solicitud en respuestas.
type RequestItemResponse struct {
	ItemID           string `json:"item_id"`
	Name             string `json:"name"`
	Brand            string `json:"brand,omitempty"`
	Quantity         int    `json:"quantity"`
	Status           string `json:"status"`
	ApprovedQuantity *int   `json:"approved_quantity,omitempty"`
	Registered       int    `json:"registered"`
}

// RequestResponse salida de una solicitud.
type RequestResponse struct {
	ID               string                `json:"id"`
	DocNumber        string                `json:"doc_number"`
	Requester        string                `json:"requester"`
	Division         string                `json:"division,omitempty"`
	AllocationTarget string                `json:"allocation_target"`
	Status           string                `json:"status"`
	Items            []RequestItemResponse `json:"items"`
	RejectionReason  string                `json:"rejection_reason,omitempty"`
	ApprovedBy       *string               `json:"approved_by,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// RequestListResponse lista paginada de solicitudes.
type RequestListResponse struct {
	Items []RequestResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToRequestResponse convierte la entidad a su representación HTTP.
func ToRequestResponse(r *entity.Request) RequestResponse {
	out := RequestResponse{
		ID:               r.ID,
		DocNumber:        r.DocNumber,
		Requester:        r.Requester,
		Division:         r.Division,
		AllocationTarget: string(r.AllocationTarget),
		Status:           string(r.Status),
		RejectionReason:  r.RejectionReason,
		ApprovedBy:       r.ApprovedBy,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, RequestItemResponse{
			ItemID:           it.ItemID,
			Name:             it.Name,
			Brand:            it.Brand,
			Quantity:         it.Quantity,
			Status:           string(it.Status),
			ApprovedQuantity: it.ApprovedQuantity,
			Registered:       r.PartiallyRegistered[it.ItemID],
		})
	}
	return out
}
