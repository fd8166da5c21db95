// Package stock implementa el saldo corrido del libro de movimientos de
// material a granel como un replay: el saldo de cada movimiento se recalcula
// plegando todos los movimientos de la misma identidad de ítem en orden
// cronológico. Insertar un movimiento retro-fechado corrige automáticamente los
// saldos posteriores.
package stock

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// Apply aplica un movimiento sobre un saldo: IN_* suma, OUT_* resta con piso en
// cero (el saldo nunca queda negativo).
func Apply(balance decimal.Decimal, m *entity.StockMovement) decimal.Decimal {
	if m.Type.IsInbound() {
		return balance.Add(m.Quantity)
	}
	next := balance.Sub(m.Quantity)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}

// Replay ordena los movimientos por (OccurredAt, ID) y recalcula BalanceAfter
// de cada uno desde cero. Muta los movimientos recibidos y devuelve el mismo
// slice ya ordenado.
func Replay(movs []*entity.StockMovement) []*entity.StockMovement {
	sort.SliceStable(movs, func(i, j int) bool {
		if movs[i].OccurredAt.Equal(movs[j].OccurredAt) {
			return movs[i].ID < movs[j].ID
		}
		return movs[i].OccurredAt.Before(movs[j].OccurredAt)
	})
	balance := decimal.Zero
	for _, m := range movs {
		balance = Apply(balance, m)
		m.BalanceAfter = balance
	}
	return movs
}
