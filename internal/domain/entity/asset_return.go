package entity

import "time"

// ReturnStatus estado del documento de devolución.
// APPROVED es el estado "parcialmente resuelto": hubo ítems aceptados y rechazados,
// por lo que hará falta otra ronda de devolución.
type ReturnStatus string

const (
	ReturnPendingApproval ReturnStatus = "PENDING_APPROVAL"
	ReturnApproved        ReturnStatus = "APPROVED"
	ReturnRejected        ReturnStatus = "REJECTED"
	ReturnCompleted       ReturnStatus = "COMPLETED"
)

// IsValid indica si el estado pertenece al conjunto cerrado.
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnPendingApproval, ReturnApproved, ReturnRejected, ReturnCompleted:
		return true
	}
	return false
}

// ReturnItemStatus resultado por ítem de la verificación.
type ReturnItemStatus string

const (
	ReturnItemPending  ReturnItemStatus = "PENDING"
	ReturnItemAccepted ReturnItemStatus = "ACCEPTED"
	ReturnItemRejected ReturnItemStatus = "REJECTED"
)

// ReturnItem activo físicamente devuelto junto con la condición reportada.
type ReturnItem struct {
	AssetID           string
	Name              string
	ReturnedCondition AssetCondition
	Status            ReturnItemStatus
}

// AssetReturn documento de devolución asociado a un préstamo.
// COMPLETED solo cuando todos los ítems quedaron aceptados;
// REJECTED cuando todos fueron rechazados; APPROVED si hubo mezcla.
type AssetReturn struct {
	ID            string
	DocNumber     string
	LoanRequestID string
	Items         []ReturnItem
	Status        ReturnStatus
	VerifiedBy    *string
	VerifiedAt    *time.Time
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AllSettled todos los ítems llegaron a un estado terminal de aceptación/rechazo.
func (r *AssetReturn) AllSettled() bool {
	for _, it := range r.Items {
		if it.Status == ReturnItemPending {
			return false
		}
	}
	return true
}
