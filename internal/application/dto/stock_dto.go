package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// RecordMovementRequest entrada para registrar un movimiento de stock.
type RecordMovementRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Brand       string          `json:"brand" validate:"omitempty,max=100"`
	Type        string          `json:"type" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReferenceID *string         `json:"reference_id"`
	Notes       string          `json:"notes" validate:"omitempty,max=500"`
	OccurredAt  *time.Time      `json:"occurred_at"`
}

// StockMovementResponse salida de un movimiento con su saldo corrido.
type StockMovementResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand,omitempty"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	ReferenceID  *string         `json:"reference_id,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by"`
}

// StockMovementListResponse movimientos paginados de una identidad de ítem.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ToStockMovementResponse convierte la entidad a su representación HTTP.
func ToStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:           m.ID,
		Name:         m.Name,
		Brand:        m.Brand,
		Type:         string(m.Type),
		Quantity:     m.Quantity,
		BalanceAfter: m.BalanceAfter,
		ReferenceID:  m.ReferenceID,
		Notes:        m.Notes,
		OccurredAt:   m.OccurredAt,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}
