package dto

import (
	"time"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// CreateLoanRequest entrada para crear un préstamo.
type CreateLoanRequest struct {
	Division string             `json:"division" validate:"omitempty,max=200"`
	Items    []CreateLoanItemIn `json:"items" validate:"required,min=1,dive"`
}

// CreateLoanItemIn ítem solicitado en préstamo con fecha comprometida.
type CreateLoanItemIn struct {
	Name       string    `json:"name" validate:"required,min=1,max=200"`
	Brand      string    `json:"brand" validate:"omitempty,max=100"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
	ReturnDate time.Time `json:"return_date" validate:"required"`
}

// ApproveLoanRequest aprobación con activos asignados y decisión por ítem.
type ApproveLoanRequest struct {
	// item_id -> ids de activos concretos asignados
	Assigned map[string][]string `json:"assigned"`
	// item_id -> approved | rejected
	Decisions map[string]string `json:"decisions" validate:"required,min=1"`
}

// SubmitReturnRequest declaración de activos físicamente devueltos.
type SubmitReturnRequest struct {
	Items []ReturnItemIn `json:"items" validate:"required,min=1,dive"`
}

// ReturnItemIn activo devuelto con la condición reportada por el solicitante.
type ReturnItemIn struct {
	AssetID           string `json:"asset_id" validate:"required"`
	Name              string `json:"name" validate:"omitempty,max=200"`
	ReturnedCondition string `json:"returned_condition" validate:"required"`
}

// VerifyReturnRequest verificación: qué activos del documento se aceptan.
type VerifyReturnRequest struct {
	AcceptedAssetIDs []string `json:"accepted_asset_ids"`
}

// LoanItemResponse ítem de préstamo en respuestas.
type LoanItemResponse struct {
	ItemID     string    `json:"item_id"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand,omitempty"`
	Quantity   int       `json:"quantity"`
	ReturnDate time.Time `json:"return_date"`
	Status     string    `json:"status"`
}

// LoanResponse salida de un préstamo.
type LoanResponse struct {
	ID               string              `json:"id"`
	DocNumber        string              `json:"doc_number"`
	Requester        string              `json:"requester"`
	Division         string              `json:"division,omitempty"`
	Status           string              `json:"status"`
	Items            []LoanItemResponse  `json:"items"`
	AssignedAssetIDs map[string][]string `json:"assigned_asset_ids,omitempty"`
	ReturnedAssetIDs []string            `json:"returned_asset_ids,omitempty"`
	RejectionReason  string              `json:"rejection_reason,omitempty"`
	ApprovedBy       *string             `json:"approved_by,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// LoanListResponse lista paginada de préstamos.
type LoanListResponse struct {
	Items []LoanResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ReturnItemResponse ítem de devolución en respuestas.
type ReturnItemResponse struct {
	AssetID           string `json:"asset_id"`
	Name              string `json:"name,omitempty"`
	ReturnedCondition string `json:"returned_condition"`
	Status            string `json:"status"`
}

// ReturnResponse salida de un documento de devolución.
type ReturnResponse struct {
	ID            string               `json:"id"`
	DocNumber     string               `json:"doc_number"`
	LoanRequestID string               `json:"loan_request_id"`
	Status        string               `json:"status"`
	Items         []ReturnItemResponse `json:"items"`
	VerifiedBy    *string              `json:"verified_by,omitempty"`
	VerifiedAt    *time.Time           `json:"verified_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ToLoanResponse convierte la entidad a su representación HTTP.
func ToLoanResponse(l *entity.LoanRequest) LoanResponse {
	out := LoanResponse{
		ID:               l.ID,
		DocNumber:        l.DocNumber,
		Requester:        l.Requester,
		Division:         l.Division,
		Status:           string(l.Status),
		AssignedAssetIDs: l.AssignedAssetIDs,
		ReturnedAssetIDs: l.ReturnedAssetIDs,
		RejectionReason:  l.RejectionReason,
		ApprovedBy:       l.ApprovedBy,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
	for _, it := range l.Items {
		out.Items = append(out.Items, LoanItemResponse{
			ItemID:     it.ItemID,
			Name:       it.Name,
			Brand:      it.Brand,
			Quantity:   it.Quantity,
			ReturnDate: it.ReturnDate,
			Status:     string(it.Status),
		})
	}
	return out
}

// ToReturnResponse convierte la entidad a su representación HTTP.
func ToReturnResponse(r *entity.AssetReturn) ReturnResponse {
	out := ReturnResponse{
		ID:            r.ID,
		DocNumber:     r.DocNumber,
		LoanRequestID: r.LoanRequestID,
		Status:        string(r.Status),
		VerifiedBy:    r.VerifiedBy,
		VerifiedAt:    r.VerifiedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, ReturnItemResponse{
			AssetID:           it.AssetID,
			Name:              it.Name,
			ReturnedCondition: string(it.ReturnedCondition),
			Status:            string(it.Status),
		})
	}
	return out
}
