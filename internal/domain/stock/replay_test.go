package stock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/stock"
)

func mov(id string, t entity.MovementType, qty int64, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:         id,
		Name:       "Cable UTP",
		Brand:      "Belden",
		Type:       t,
		Quantity:   decimal.NewFromInt(qty),
		OccurredAt: at,
	}
}

var base = time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)

func TestReplay_SaldoCorrido(t *testing.T) {
	movs := []*entity.StockMovement{
		mov("m1", entity.MovementInPurchase, 100, base),
		mov("m2", entity.MovementOutUsage, 30, base.Add(1*time.Hour)),
		mov("m3", entity.MovementOutProject, 20, base.Add(2*time.Hour)),
	}

	out := stock.Replay(movs)
	require.Len(t, out, 3)
	assert.True(t, out[0].BalanceAfter.Equal(decimal.NewFromInt(100)))
	assert.True(t, out[1].BalanceAfter.Equal(decimal.NewFromInt(70)))
	assert.True(t, out[2].BalanceAfter.Equal(decimal.NewFromInt(50)))
}

// Consumir más que el saldo disponible deja el saldo en cero, nunca negativo.
func TestReplay_ConsumoClampeaEnCero(t *testing.T) {
	movs := []*entity.StockMovement{
		mov("m1", entity.MovementInPurchase, 10, base),
		mov("m2", entity.MovementOutUsage, 25, base.Add(1*time.Hour)),
		mov("m3", entity.MovementInReturn, 5, base.Add(2*time.Hour)),
	}

	out := stock.Replay(movs)
	assert.True(t, out[1].BalanceAfter.IsZero(), "el saldo se clampea en cero")
	assert.True(t, out[2].BalanceAfter.Equal(decimal.NewFromInt(5)))
}

// Insertar un movimiento retro-fechado recalcula los saldos de todo lo posterior.
func TestReplay_MovimientoRetrofechado(t *testing.T) {
	movs := []*entity.StockMovement{
		mov("m1", entity.MovementInPurchase, 50, base),
		mov("m2", entity.MovementOutUsage, 20, base.Add(2*time.Hour)),
	}
	stock.Replay(movs)
	require.True(t, movs[1].BalanceAfter.Equal(decimal.NewFromInt(30)))

	// Corrección retro-fechada entre m1 y m2.
	movs = append(movs, mov("m3", entity.MovementInAdjustment, 10, base.Add(1*time.Hour)))
	out := stock.Replay(movs)

	assert.Equal(t, "m1", out[0].ID)
	assert.Equal(t, "m3", out[1].ID, "el replay reordena cronológicamente")
	assert.Equal(t, "m2", out[2].ID)
	assert.True(t, out[1].BalanceAfter.Equal(decimal.NewFromInt(60)))
	assert.True(t, out[2].BalanceAfter.Equal(decimal.NewFromInt(40)), "el saldo posterior se corrige")
}

// Mismo instante: el desempate por id hace el replay determinista.
func TestReplay_DesempatePorID(t *testing.T) {
	movs := []*entity.StockMovement{
		mov("m2", entity.MovementOutUsage, 5, base),
		mov("m1", entity.MovementInPurchase, 10, base),
	}
	out := stock.Replay(movs)
	assert.Equal(t, "m1", out[0].ID)
	assert.True(t, out[1].BalanceAfter.Equal(decimal.NewFromInt(5)))
}

func TestApply_TiposEntrantesYSalientes(t *testing.T) {
	in := mov("m1", entity.MovementInReturn, 7, base)
	out := mov("m2", entity.MovementOutAdjustment, 3, base)

	assert.True(t, stock.Apply(decimal.NewFromInt(1), in).Equal(decimal.NewFromInt(8)))
	assert.True(t, stock.Apply(decimal.NewFromInt(10), out).Equal(decimal.NewFromInt(7)))
	assert.True(t, stock.Apply(decimal.Zero, out).IsZero())
}
