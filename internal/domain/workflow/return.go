package workflow

import (
	"time"

	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// VerifyReturn reconcilia una devolución: particiona los ítems en aceptados y
// rechazados y resuelve el efecto por activo.
//
//   - aceptado con condición buena  → IN_STORAGE, tenedor limpio
//   - aceptado con daño             → DAMAGED, tenedor limpio
//   - rechazado                     → IN_USE de nuevo (no fue devuelto realmente)
//
// El documento queda COMPLETED si todo fue aceptado, REJECTED si todo fue
// rechazado y APPROVED (parcialmente resuelto) si hubo mezcla. El préstamo pasa
// a RETURNED solo cuando el acumulador de devueltos cubre todo lo asignado; si
// no, vuelve a ON_LOAN para permitir más rondas de devolución.
func VerifyReturn(ret *entity.AssetReturn, loan *entity.LoanRequest, acceptedAssetIDs []string, verifier string, now time.Time) ([]AssetEvent, error) {
	if ret.Status != entity.ReturnPendingApproval {
		return nil, domain.ErrInvalidTransition
	}
	if loan.ID != ret.LoanRequestID {
		return nil, domain.ErrValidation
	}
	if loan.Status != entity.LoanAwaitingReturn {
		return nil, domain.ErrInvalidTransition
	}
	accepted := make(map[string]bool, len(acceptedAssetIDs))
	for _, id := range acceptedAssetIDs {
		if !returnHasAsset(ret, id) {
			return nil, domain.ErrNotFound
		}
		accepted[id] = true
	}

	var events []AssetEvent
	acceptedCount := 0
	for i := range ret.Items {
		it := &ret.Items[i]
		if accepted[it.AssetID] {
			it.Status = entity.ReturnItemAccepted
			acceptedCount++
			kind := EventAssetsReleased
			if !it.ReturnedCondition.IsGoodClass() {
				kind = EventAssetsDamaged
			}
			cond := it.ReturnedCondition
			events = append(events, AssetEvent{
				Kind:        kind,
				AssetIDs:    []string{it.AssetID},
				Condition:   &cond,
				ReferenceID: ret.DocNumber,
				Detail:      "devolución " + ret.DocNumber + " aceptada",
			})
			loan.ReturnedAssetIDs = appendUnique(loan.ReturnedAssetIDs, it.AssetID)
		} else {
			// Rechazado = "no devuelto de verdad": el activo sigue en préstamo.
			it.Status = entity.ReturnItemRejected
			events = append(events, AssetEvent{
				Kind:        EventAssetsAssigned,
				AssetIDs:    []string{it.AssetID},
				Holder:      loan.Requester,
				ReferenceID: ret.DocNumber,
				Detail:      "devolución " + ret.DocNumber + " rechazada: sigue en préstamo",
			})
		}
	}

	switch {
	case acceptedCount == len(ret.Items):
		ret.Status = entity.ReturnCompleted
	case acceptedCount == 0:
		ret.Status = entity.ReturnRejected
	default:
		ret.Status = entity.ReturnApproved
	}
	ret.VerifiedBy = &verifier
	ret.VerifiedAt = &now
	ret.UpdatedAt = now

	if loan.FullyReturned() {
		loan.Status = entity.LoanReturned
	} else {
		loan.Status = entity.LoanOnLoan
	}
	loan.UpdatedAt = now

	return events, nil
}

func returnHasAsset(ret *entity.AssetReturn, assetID string) bool {
	for _, it := range ret.Items {
		if it.AssetID == assetID {
			return true
		}
	}
	return false
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
