package entity

import "time"

// LoanStatus estado global de una solicitud de préstamo.
type LoanStatus string

const (
	LoanPending        LoanStatus = "PENDING"
	LoanApproved       LoanStatus = "APPROVED"
	LoanRejected       LoanStatus = "REJECTED"
	LoanOnLoan         LoanStatus = "ON_LOAN"
	LoanAwaitingReturn LoanStatus = "AWAITING_RETURN"
	LoanReturned       LoanStatus = "RETURNED"
)

// IsTerminal REJECTED y RETURNED no admiten más transiciones.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanRejected || s == LoanReturned
}

// IsValid indica si el estado pertenece al conjunto cerrado.
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanPending, LoanApproved, LoanRejected, LoanOnLoan, LoanAwaitingReturn, LoanReturned:
		return true
	}
	return false
}

// LoanItem ítem solicitado en préstamo con fecha comprometida de devolución.
type LoanItem struct {
	ItemID     string
	Name       string
	Brand      string
	Quantity   int
	ReturnDate time.Time
	Status     ItemStatus
}

// LoanRequest solicitud de custodia temporal de activos.
type LoanRequest struct {
	ID               string
	DocNumber        string
	Requester        string
	Division         string
	Items            []LoanItem
	AssignedAssetIDs map[string][]string // itemID -> activos asignados
	ReturnedAssetIDs []string            // acumulador de activos aceptados en devoluciones
	Status           LoanStatus
	RejectionReason  string
	ApprovedBy       *string
	ApprovedAt       *time.Time
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AllAssignedIDs ids de todos los activos alguna vez asignados al préstamo.
func (l *LoanRequest) AllAssignedIDs() []string {
	var ids []string
	for _, assetIDs := range l.AssignedAssetIDs {
		ids = append(ids, assetIDs...)
	}
	return ids
}

// HasAssigned indica si el activo pertenece al conjunto asignado del préstamo.
func (l *LoanRequest) HasAssigned(assetID string) bool {
	for _, ids := range l.AssignedAssetIDs {
		for _, id := range ids {
			if id == assetID {
				return true
			}
		}
	}
	return false
}

// HasReturned indica si el activo ya fue aceptado en una devolución anterior.
func (l *LoanRequest) HasReturned(assetID string) bool {
	for _, id := range l.ReturnedAssetIDs {
		if id == assetID {
			return true
		}
	}
	return false
}

// FullyReturned el préstamo está completamente devuelto cuando todo activo
// asignado aparece en el acumulador de devueltos.
func (l *LoanRequest) FullyReturned() bool {
	for _, id := range l.AllAssignedIDs() {
		if !l.HasReturned(id) {
			return false
		}
	}
	return true
}
