package workflow

import (
	"time"

	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// ApproveLoan aprobación de un préstamo desde PENDING. Si todo ítem queda
// rechazado el préstamo pasa a REJECTED sin tocar el libro de custodia; en otro
// caso los activos listados pasan a IN_USE con el solicitante como tenedor y el
// préstamo queda ON_LOAN.
func ApproveLoan(l *entity.LoanRequest, assigned map[string][]string, decisions map[string]entity.ItemStatus, approver string, now time.Time) ([]AssetEvent, error) {
	if l.Status != entity.LoanPending {
		return nil, domain.ErrInvalidTransition
	}
	if len(decisions) == 0 {
		return nil, domain.ErrValidation
	}
	for itemID, st := range decisions {
		if !st.IsValid() || st == entity.ItemPending {
			return nil, domain.ErrValidation
		}
		if !loanHasItem(l, itemID) {
			return nil, domain.ErrNotFound
		}
	}
	for itemID := range assigned {
		if !loanHasItem(l, itemID) {
			return nil, domain.ErrNotFound
		}
	}

	allRejected := true
	for i := range l.Items {
		it := &l.Items[i]
		st, ok := decisions[it.ItemID]
		if !ok {
			it.Status = entity.ItemRejected
			continue
		}
		it.Status = st
		if st != entity.ItemRejected {
			allRejected = false
			if len(assigned[it.ItemID]) == 0 {
				// Ítem aprobado sin activos asignados no es entregable.
				return nil, domain.ErrValidation
			}
		}
	}

	l.ApprovedBy = &approver
	l.ApprovedAt = &now
	l.UpdatedAt = now

	if allRejected {
		l.Status = entity.LoanRejected
		return nil, nil
	}

	l.AssignedAssetIDs = make(map[string][]string, len(assigned))
	var assetIDs []string
	for i := range l.Items {
		it := l.Items[i]
		if it.Status == entity.ItemRejected {
			continue
		}
		ids := assigned[it.ItemID]
		l.AssignedAssetIDs[it.ItemID] = ids
		assetIDs = append(assetIDs, ids...)
	}
	l.Status = entity.LoanOnLoan

	return []AssetEvent{{
		Kind:        EventAssetsAssigned,
		AssetIDs:    assetIDs,
		Holder:      l.Requester,
		ReferenceID: l.DocNumber,
		Detail:      "préstamo " + l.DocNumber + " aprobado",
	}}, nil
}

// RejectLoan rechazo terminal del préstamo. Idempotente sobre terminales;
// nunca toca el libro de custodia.
func RejectLoan(l *entity.LoanRequest, reason string, now time.Time) (changed bool, err error) {
	if l.Status.IsTerminal() {
		return false, nil
	}
	if l.Status != entity.LoanPending {
		return false, domain.ErrInvalidTransition
	}
	l.Status = entity.LoanRejected
	l.RejectionReason = reason
	l.UpdatedAt = now
	return true, nil
}

// SubmitReturn registra la entrega física de activos para verificación: valida
// que cada activo pertenezca al préstamo y no esté ya devuelto, pasa el préstamo
// a AWAITING_RETURN y marca los activos AWAITING_RETURN (la custodia sigue
// pendiente hasta que la verificación los acepte).
func SubmitReturn(l *entity.LoanRequest, ret *entity.AssetReturn, now time.Time) ([]AssetEvent, error) {
	if l.Status != entity.LoanOnLoan {
		return nil, domain.ErrInvalidTransition
	}
	if len(ret.Items) == 0 {
		return nil, domain.ErrValidation
	}
	var assetIDs []string
	for i := range ret.Items {
		it := &ret.Items[i]
		if !l.HasAssigned(it.AssetID) {
			return nil, domain.ErrNotFound
		}
		if l.HasReturned(it.AssetID) {
			return nil, domain.ErrValidation
		}
		if !it.ReturnedCondition.IsValid() {
			return nil, domain.ErrValidation
		}
		it.Status = entity.ReturnItemPending
		assetIDs = append(assetIDs, it.AssetID)
	}

	ret.LoanRequestID = l.ID
	ret.Status = entity.ReturnPendingApproval
	ret.CreatedAt = now
	ret.UpdatedAt = now

	l.Status = entity.LoanAwaitingReturn
	l.UpdatedAt = now

	return []AssetEvent{{
		Kind:        EventAssetsAwaitingReturn,
		AssetIDs:    assetIDs,
		ReferenceID: ret.DocNumber,
		Detail:      "devolución " + ret.DocNumber + " pendiente de verificación",
	}}, nil
}

func loanHasItem(l *entity.LoanRequest, itemID string) bool {
	for _, it := range l.Items {
		if it.ItemID == itemID {
			return true
		}
	}
	return false
}
