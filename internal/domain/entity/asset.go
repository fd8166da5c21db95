package entity

import (
	"time"

	"github.com/jhoicas/activos-api/internal/domain"
)

// AssetStatus estado de custodia de un activo.
type AssetStatus string

const (
	AssetInStorage      AssetStatus = "IN_STORAGE"
	AssetInUse          AssetStatus = "IN_USE"
	AssetInCustody      AssetStatus = "IN_CUSTODY"
	AssetInRepair       AssetStatus = "IN_REPAIR"
	AssetAwaitingReturn AssetStatus = "AWAITING_RETURN"
	AssetDamaged        AssetStatus = "DAMAGED"
	AssetDecommissioned AssetStatus = "DECOMMISSIONED"
	AssetConsumed       AssetStatus = "CONSUMED"
)

// IsValid indica si el estado pertenece al conjunto cerrado.
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetInStorage, AssetInUse, AssetInCustody, AssetInRepair,
		AssetAwaitingReturn, AssetDamaged, AssetDecommissioned, AssetConsumed:
		return true
	}
	return false
}

// RequiresHolder estados que exigen un tenedor asignado.
func (s AssetStatus) RequiresHolder() bool {
	return s == AssetInUse || s == AssetInCustody
}

// ForbidsHolder estados que exigen tenedor nulo (el activo está en bodega o fuera de circulación).
func (s AssetStatus) ForbidsHolder() bool {
	switch s {
	case AssetInStorage, AssetDecommissioned, AssetConsumed:
		return true
	}
	return false
}

// AssetCondition condición física del activo, independiente de su custodia.
type AssetCondition string

const (
	ConditionNew         AssetCondition = "NEW"
	ConditionGood        AssetCondition = "GOOD"
	ConditionUsedOkay    AssetCondition = "USED_OKAY"
	ConditionMinorDamage AssetCondition = "MINOR_DAMAGE"
	ConditionMajorDamage AssetCondition = "MAJOR_DAMAGE"
	ConditionSalvage     AssetCondition = "SALVAGE"
)

// IsValid indica si la condición pertenece al conjunto cerrado.
func (c AssetCondition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionUsedOkay,
		ConditionMinorDamage, ConditionMajorDamage, ConditionSalvage:
		return true
	}
	return false
}

// IsGoodClass condición "buena": al devolverse, el activo vuelve a bodega en vez de marcarse dañado.
func (c AssetCondition) IsGoodClass() bool {
	return c == ConditionNew || c == ConditionGood || c == ConditionUsedOkay
}

// Asset activo físico bajo control del libro de custodia.
// Invariante: Status y CurrentHolder deben ser consistentes entre sí
// (IN_USE exige tenedor; IN_STORAGE exige tenedor nulo).
type Asset struct {
	ID            string
	Category      string
	Type          string
	Brand         string
	SerialNumber  string
	Status        AssetStatus
	Condition     AssetCondition
	CurrentHolder *string // usuario o cliente; nil = sin tenedor
	Location      string
	Version       int // control optimista de concurrencia
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate verifica la consistencia conjunta estado/tenedor.
func (a *Asset) Validate() error {
	if !a.Status.IsValid() || !a.Condition.IsValid() {
		return domain.ErrValidation
	}
	if a.Status.RequiresHolder() && a.CurrentHolder == nil {
		return domain.ErrInconsistentAsset
	}
	if a.Status.ForbidsHolder() && a.CurrentHolder != nil {
		return domain.ErrInconsistentAsset
	}
	return nil
}

// AssetPatch mutación parcial aplicada por el libro de custodia.
// ClearHolder distingue "limpiar tenedor" de "no tocar tenedor".
type AssetPatch struct {
	Status      *AssetStatus
	Condition   *AssetCondition
	Holder      *string
	ClearHolder bool
	Location    *string
}

// Apply aplica el patch sobre el activo y valida la consistencia resultante.
// No muta el activo si la validación falla.
func (p AssetPatch) Apply(a *Asset, now time.Time) error {
	next := *a
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Condition != nil {
		next.Condition = *p.Condition
	}
	if p.ClearHolder {
		next.CurrentHolder = nil
	} else if p.Holder != nil {
		next.CurrentHolder = p.Holder
	}
	if p.Location != nil {
		next.Location = *p.Location
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*a = next
	return nil
}

// Acciones registradas en la bitácora de actividad.
const (
	ActivityAssigned       = "ASSIGNED"
	ActivityReleased       = "RELEASED"
	ActivityAwaitingReturn = "AWAITING_RETURN"
	ActivityDamaged        = "DAMAGED"
	ActivityUpdated        = "UPDATED"
)

// ActivityEntry entrada de la bitácora de un activo. Append-only: nunca se edita ni se borra.
type ActivityEntry struct {
	ID          string
	AssetID     string
	Actor       string
	Action      string
	Detail      string
	ReferenceID *string // documento que disparó la mutación (request, préstamo, devolución)
	CreatedAt   time.Time
}
