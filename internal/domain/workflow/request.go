package workflow

import (
	"time"

	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// ItemDecision resultado de aprobación para un ítem de la solicitud.
type ItemDecision struct {
	Status           entity.ItemStatus
	ApprovedQuantity *int
}

// ApproveLogistic aprobación de logística desde PENDING. Fija el resultado de
// cada ítem y calcula el estado global:
//
//   - todos rechazados                → REJECTED
//   - algún ítem procurement_needed   → LOGISTIC_APPROVED (sigue la ruta CEO)
//   - todo satisfacible desde stock   → AWAITING_HANDOVER (destino Usage)
//     o COMPLETED (destino Inventory)
func ApproveLogistic(r *entity.Request, decisions map[string]ItemDecision, approver string, now time.Time) error {
	if r.Status != entity.RequestPending {
		return domain.ErrInvalidTransition
	}
	if len(decisions) == 0 {
		return domain.ErrValidation
	}
	for itemID, d := range decisions {
		if r.Item(itemID) == nil {
			return domain.ErrNotFound
		}
		if !d.Status.IsValid() || d.Status == entity.ItemPending {
			return domain.ErrValidation
		}
		if d.ApprovedQuantity != nil && *d.ApprovedQuantity < 0 {
			return domain.ErrValidation
		}
	}

	allRejected := true
	needsProcurement := false
	for i := range r.Items {
		it := &r.Items[i]
		d, ok := decisions[it.ItemID]
		if !ok {
			// Ítem sin decisión explícita queda rechazado: la aprobación es un corte completo.
			it.Status = entity.ItemRejected
			continue
		}
		it.Status = d.Status
		it.ApprovedQuantity = d.ApprovedQuantity
		if d.Status != entity.ItemRejected {
			allRejected = false
		}
		if d.Status == entity.ItemProcurementNeeded {
			needsProcurement = true
		}
		// Lo asignado desde stock ya existe físicamente: cuenta como registrado
		// desde la aprobación, así AWAITING_HANDOVER/COMPLETED implican registro pleno.
		if d.Status == entity.ItemStockAllocated {
			if r.PartiallyRegistered == nil {
				r.PartiallyRegistered = make(map[string]int)
			}
			if got := r.PartiallyRegistered[it.ItemID]; got < it.TargetQuantity() {
				r.PartiallyRegistered[it.ItemID] = it.TargetQuantity()
			}
		}
	}

	r.ApprovedBy = &approver
	r.LogisticApprovedAt = &now
	r.UpdatedAt = now

	switch {
	case allRejected:
		r.Status = entity.RequestRejected
	case needsProcurement:
		r.Status = entity.RequestLogisticApproved
	case r.FullyRegistered() && r.AllocationTarget == entity.TargetInventory:
		r.Status = entity.RequestCompleted
		r.CompletedAt = &now
	case r.FullyRegistered():
		r.Status = entity.RequestAwaitingHandover
	default:
		// Aprobado sin compra externa pero con ítems por registrar.
		r.Status = entity.RequestApproved
	}
	return nil
}

// SubmitForCEO encola la solicitud aprobada por logística para decisión del CEO.
func SubmitForCEO(r *entity.Request, now time.Time) error {
	if r.Status != entity.RequestLogisticApproved {
		return domain.ErrInvalidTransition
	}
	r.Status = entity.RequestAwaitingCEO
	r.UpdatedAt = now
	return nil
}

// DecideCEO decisión del CEO sobre una solicitud con compra externa.
func DecideCEO(r *entity.Request, approve bool, approver, reason string, now time.Time) error {
	if r.Status != entity.RequestAwaitingCEO {
		if !approve && r.Status.IsTerminal() {
			return nil // rechazo idempotente sobre terminal
		}
		return domain.ErrInvalidTransition
	}
	r.UpdatedAt = now
	if approve {
		r.Status = entity.RequestApproved
		r.ApprovedBy = &approver
		r.CEOApprovedAt = &now
		return nil
	}
	r.Status = entity.RequestRejected
	r.RejectionReason = reason
	return nil
}

// MarkArrived registra la llegada de los bienes comprados.
func MarkArrived(r *entity.Request, now time.Time) error {
	if r.Status != entity.RequestApproved {
		return domain.ErrInvalidTransition
	}
	r.Status = entity.RequestArrived
	r.ArrivedAt = &now
	r.UpdatedAt = now
	return nil
}

// RegisterAssets acumula count unidades registradas para el ítem y recalcula el
// registro completo. Monótono: los contadores nunca bajan y la solicitud no
// retrocede desde AWAITING_HANDOVER/COMPLETED. Sobre una solicitud COMPLETED la
// llamada es un no-op exitoso (changed=false).
func RegisterAssets(r *entity.Request, itemID string, count int, now time.Time) (changed bool, err error) {
	if count < 0 {
		return false, domain.ErrValidation
	}
	if r.Status == entity.RequestCompleted {
		return false, nil
	}
	switch r.Status {
	case entity.RequestApproved, entity.RequestArrived, entity.RequestAwaitingHandover:
	default:
		return false, domain.ErrInvalidTransition
	}
	it := r.Item(itemID)
	if it == nil {
		return false, domain.ErrNotFound
	}
	if it.Status == entity.ItemRejected {
		return false, domain.ErrValidation
	}

	if r.PartiallyRegistered == nil {
		r.PartiallyRegistered = make(map[string]int)
	}
	r.PartiallyRegistered[itemID] += count
	r.UpdatedAt = now

	if r.FullyRegistered() && r.Status != entity.RequestAwaitingHandover {
		if r.AllocationTarget == entity.TargetInventory {
			r.Status = entity.RequestCompleted
			r.CompletedAt = &now
		} else {
			r.Status = entity.RequestAwaitingHandover
		}
	}
	return true, nil
}

// CompleteHandover cierra la entrega: la solicitud pasa de AWAITING_HANDOVER a
// COMPLETED y los activos entregados quedan IN_USE con el receptor como tenedor.
func CompleteHandover(r *entity.Request, assetIDs []string, recipient string, now time.Time) ([]AssetEvent, error) {
	if r.Status != entity.RequestAwaitingHandover {
		return nil, domain.ErrInvalidTransition
	}
	if recipient == "" {
		return nil, domain.ErrValidation
	}
	r.Status = entity.RequestCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now

	if len(assetIDs) == 0 {
		return nil, nil
	}
	return []AssetEvent{{
		Kind:        EventAssetsAssigned,
		AssetIDs:    assetIDs,
		Holder:      recipient,
		ReferenceID: r.DocNumber,
		Detail:      "entrega de solicitud " + r.DocNumber,
	}}, nil
}

// RejectRequest rechazo terminal. Idempotente: sobre un estado terminal no muta
// nada y reporta éxito (changed=false); nunca toca el libro de custodia.
func RejectRequest(r *entity.Request, reason string, now time.Time) (changed bool, err error) {
	if r.Status.IsTerminal() {
		return false, nil
	}
	r.Status = entity.RequestRejected
	r.RejectionReason = reason
	r.UpdatedAt = now
	return true, nil
}

// CancelRequest cancelación por el solicitante, solo desde PENDING.
// Idempotente sobre estados terminales.
func CancelRequest(r *entity.Request, actor string, now time.Time) (changed bool, err error) {
	if r.Status.IsTerminal() {
		return false, nil
	}
	if actor != r.Requester {
		return false, domain.ErrForbidden
	}
	if r.Status != entity.RequestPending {
		return false, domain.ErrInvalidTransition
	}
	r.Status = entity.RequestCancelled
	r.UpdatedAt = now
	return true, nil
}
