package entity

import "time"

// RequestStatus estado global de una solicitud de compra/asignación.
type RequestStatus string

const (
	RequestPending          RequestStatus = "PENDING"
	RequestLogisticApproved RequestStatus = "LOGISTIC_APPROVED"
	RequestAwaitingCEO      RequestStatus = "AWAITING_CEO_APPROVAL"
	RequestApproved         RequestStatus = "APPROVED"
	RequestArrived          RequestStatus = "ARRIVED"
	RequestAwaitingHandover RequestStatus = "AWAITING_HANDOVER"
	RequestCompleted        RequestStatus = "COMPLETED"
	RequestRejected         RequestStatus = "REJECTED"
	RequestCancelled        RequestStatus = "CANCELLED"
)

// IsTerminal estados desde los que no hay más transiciones (salvo reinvocaciones idempotentes).
func (s RequestStatus) IsTerminal() bool {
	return s == RequestCompleted || s == RequestRejected || s == RequestCancelled
}

// IsValid indica si el estado pertenece al conjunto cerrado.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestLogisticApproved, RequestAwaitingCEO, RequestApproved,
		RequestArrived, RequestAwaitingHandover, RequestCompleted, RequestRejected, RequestCancelled:
		return true
	}
	return false
}

// ItemStatus resultado por ítem dentro de una solicitud o préstamo.
type ItemStatus string

const (
	ItemPending           ItemStatus = "pending"
	ItemApproved          ItemStatus = "approved"
	ItemRejected          ItemStatus = "rejected"
	ItemPartial           ItemStatus = "partial"
	ItemStockAllocated    ItemStatus = "stock_allocated"
	ItemProcurementNeeded ItemStatus = "procurement_needed"
)

// IsValid indica si el estado de ítem pertenece al conjunto cerrado.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemPending, ItemApproved, ItemRejected, ItemPartial, ItemStockAllocated, ItemProcurementNeeded:
		return true
	}
	return false
}

// AllocationTarget destino de los ítems cumplidos: uso activo o reposición de bodega.
type AllocationTarget string

const (
	TargetUsage     AllocationTarget = "Usage"
	TargetInventory AllocationTarget = "Inventory"
)

// IsValid indica si el destino es conocido.
func (t AllocationTarget) IsValid() bool {
	return t == TargetUsage || t == TargetInventory
}

// RequestItem ítem solicitado con su resultado de aprobación.
// ApprovedQuantity nil significa "la cantidad solicitada completa".
type RequestItem struct {
	ItemID           string
	Name             string
	Brand            string
	Quantity         int
	Status           ItemStatus
	ApprovedQuantity *int
}

// TargetQuantity cantidad que debe registrarse para dar el ítem por cumplido.
func (it RequestItem) TargetQuantity() int {
	if it.ApprovedQuantity != nil {
		return *it.ApprovedQuantity
	}
	return it.Quantity
}

// Request solicitud de compra/asignación de activos. Se crea una sola vez y
// solo muta a través de transiciones del workflow; inmutable en estado terminal.
type Request struct {
	ID                  string
	DocNumber           string
	Requester           string
	Division            string
	AllocationTarget    AllocationTarget
	Items               []RequestItem
	Status              RequestStatus
	PartiallyRegistered map[string]int // itemID -> cantidad registrada acumulada
	RejectionReason     string
	ApprovedBy          *string
	LogisticApprovedAt  *time.Time
	CEOApprovedAt       *time.Time
	ArrivedAt           *time.Time
	CompletedAt         *time.Time
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Item busca un ítem por id; nil si no existe.
func (r *Request) Item(itemID string) *RequestItem {
	for i := range r.Items {
		if r.Items[i].ItemID == itemID {
			return &r.Items[i]
		}
	}
	return nil
}

// RegisteredCount cantidad registrada acumulada para un ítem.
func (r *Request) RegisteredCount(itemID string) int {
	if r.PartiallyRegistered == nil {
		return 0
	}
	return r.PartiallyRegistered[itemID]
}

// FullyRegistered la solicitud está completamente registrada cuando todo ítem
// no rechazado alcanza su cantidad aprobada.
func (r *Request) FullyRegistered() bool {
	for _, it := range r.Items {
		if it.Status == ItemRejected {
			continue
		}
		if r.RegisteredCount(it.ItemID) < it.TargetQuantity() {
			return false
		}
	}
	return true
}
