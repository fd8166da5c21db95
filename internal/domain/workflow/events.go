// Package workflow contiene las máquinas de estado del sistema como funciones
// de transición puras. Una transición muta el documento en memoria y devuelve
// eventos de dominio; aplicar esos eventos al libro de custodia es un paso
// separado (application layer), lo que permite probar cada pieza por aislado.
package workflow

import "github.com/jhoicas/activos-api/internal/domain/entity"

// EventKind clase de efecto sobre el libro de custodia.
type EventKind string

const (
	// EventAssetsAssigned activos pasan a IN_USE con un tenedor.
	EventAssetsAssigned EventKind = "ASSETS_ASSIGNED"
	// EventAssetsAwaitingReturn activos pasan a AWAITING_RETURN (custodia física pendiente de verificación).
	EventAssetsAwaitingReturn EventKind = "ASSETS_AWAITING_RETURN"
	// EventAssetsReleased activos vuelven a IN_STORAGE sin tenedor.
	EventAssetsReleased EventKind = "ASSETS_RELEASED"
	// EventAssetsDamaged activos pasan a DAMAGED sin tenedor.
	EventAssetsDamaged EventKind = "ASSETS_DAMAGED"
)

// AssetEvent efecto de una transición sobre un conjunto de activos.
// Condition, si no es nil, actualiza también la condición física reportada.
type AssetEvent struct {
	Kind        EventKind
	AssetIDs    []string
	Holder      string // tenedor para ASSETS_ASSIGNED
	Condition   *entity.AssetCondition
	ReferenceID string // documento que dispara el efecto
	Detail      string // texto para la bitácora
}
