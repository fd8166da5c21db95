package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de stock. El prefijo decide el signo:
// IN_* suma al saldo, OUT_* resta.
type MovementType string

const (
	MovementInPurchase    MovementType = "IN_PURCHASE"
	MovementInReturn      MovementType = "IN_RETURN"
	MovementInAdjustment  MovementType = "IN_ADJUSTMENT"
	MovementOutUsage      MovementType = "OUT_USAGE"
	MovementOutProject    MovementType = "OUT_PROJECT"
	MovementOutAdjustment MovementType = "OUT_ADJUSTMENT"
)

// IsValid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementInPurchase, MovementInReturn, MovementInAdjustment,
		MovementOutUsage, MovementOutProject, MovementOutAdjustment:
		return true
	}
	return false
}

// IsInbound movimientos entrantes (suman al saldo).
func (t MovementType) IsInbound() bool {
	return strings.HasPrefix(string(t), "IN_")
}

// StockMovement movimiento de material a granel. La identidad del ítem es el
// par (Name, Brand); BalanceAfter es el saldo corrido tras aplicar este
// movimiento en orden cronológico (OccurredAt, ID).
type StockMovement struct {
	ID           string
	Name         string
	Brand        string
	Type         MovementType
	Quantity     decimal.Decimal // siempre positiva; el tipo define el signo
	BalanceAfter decimal.Decimal
	ReferenceID  *string // documento que originó el movimiento
	Notes        string
	OccurredAt   time.Time
	CreatedAt    time.Time
	CreatedBy    string
}
