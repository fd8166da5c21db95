package assetops_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/docnumber"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/pkg/logger"
)

type loanEnv struct {
	store    *memStore
	notifier *captureNotifier
	loans    *assetops.LoanUseCase
	returns  *assetops.ReturnUseCase
}

func newLoanEnv() *loanEnv {
	store := newMemStore()
	notifier := &captureNotifier{}
	tx := &fakeTxRunner{store}
	return &loanEnv{
		store:    store,
		notifier: notifier,
		loans:    assetops.NewLoanUseCase(tx, &fakeLoanRepo{store}, &fakeReturnRepo{store}, docnumber.NewGenerator(), notifier, logger.Nop()),
		returns:  assetops.NewReturnUseCase(tx, &fakeReturnRepo{store}, notifier, logger.Nop()),
	}
}

func (e *loanEnv) seedAsset(id string) {
	e.store.assets[id] = &entity.Asset{
		ID:        id,
		Category:  "equipo",
		Type:      "mezcladora",
		Brand:     "Truper",
		Status:    entity.AssetInStorage,
		Condition: entity.ConditionGood,
		Location:  "bodega central",
	}
}

// crea un préstamo aprobado con dos activos asignados al único ítem.
func (e *loanEnv) approvedLoan(t *testing.T) *entity.LoanRequest {
	t.Helper()
	ctx := context.Background()
	e.seedAsset("AST-100")
	e.seedAsset("AST-200")

	l, err := e.loans.Create(ctx, assetops.CreateLoanInput{
		Requester: "jcarlos",
		Division:  "proyectos",
		Items: []assetops.CreateLoanItem{
			{Name: "Mezcladora", Brand: "Truper", Quantity: 2, ReturnDate: time.Now().Add(72 * time.Hour)},
		},
	})
	require.NoError(t, err)

	itemID := l.Items[0].ItemID
	l, err = e.loans.Approve(ctx, l.ID,
		map[string][]string{itemID: {"AST-100", "AST-200"}},
		map[string]entity.ItemStatus{itemID: entity.ItemApproved},
		"logistica1")
	require.NoError(t, err)
	return l
}

// ──────────────────────────────────────────────────────────────────────────────

func TestLoanCreate_NumeraYValida(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()

	l, err := env.loans.Create(ctx, assetops.CreateLoanInput{
		Requester: "jcarlos",
		Items: []assetops.CreateLoanItem{
			{Name: "Mezcladora", Quantity: 1, ReturnDate: time.Now().Add(24 * time.Hour)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LoanPending, l.Status)
	assert.Regexp(t, `^LN-\d{6}-001$`, l.DocNumber)

	// Fecha de devolución en el pasado no es admisible.
	_, err = env.loans.Create(ctx, assetops.CreateLoanInput{
		Requester: "jcarlos",
		Items: []assetops.CreateLoanItem{
			{Name: "Mezcladora", Quantity: 1, ReturnDate: time.Now().Add(-time.Hour)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoanApprove_AsignaCustodiaAlSolicitante(t *testing.T) {
	env := newLoanEnv()
	l := env.approvedLoan(t)

	assert.Equal(t, entity.LoanOnLoan, l.Status)
	for _, id := range []string{"AST-100", "AST-200"} {
		a := env.store.assets[id]
		assert.Equal(t, entity.AssetInUse, a.Status)
		require.NotNil(t, a.CurrentHolder)
		assert.Equal(t, "jcarlos", *a.CurrentHolder)
	}
}

func TestLoanApprove_ItemAprobadoSinActivos_Falla(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()

	l, err := env.loans.Create(ctx, assetops.CreateLoanInput{
		Requester: "jcarlos",
		Items: []assetops.CreateLoanItem{
			{Name: "Mezcladora", Quantity: 1, ReturnDate: time.Now().Add(24 * time.Hour)},
		},
	})
	require.NoError(t, err)

	_, err = env.loans.Approve(ctx, l.ID,
		nil,
		map[string]entity.ItemStatus{l.Items[0].ItemID: entity.ItemApproved},
		"logistica1")
	assert.ErrorIs(t, err, domain.ErrValidation)

	after, err := env.loans.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoanPending, after.Status, "la aprobación fallida no debe mutar el préstamo")
}

func TestLoanSubmitReturn_CreaDocumentoYMarcaActivos(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()
	l := env.approvedLoan(t)

	ret, err := env.loans.SubmitReturn(ctx, l.ID, []assetops.ReturnItemInput{
		{AssetID: "AST-100", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
	}, "jcarlos")
	require.NoError(t, err)
	assert.Regexp(t, `^RT-\d{6}-001$`, ret.DocNumber)
	assert.Equal(t, entity.ReturnPendingApproval, ret.Status)
	assert.Equal(t, l.ID, ret.LoanRequestID)

	loan, err := env.loans.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoanAwaitingReturn, loan.Status)
	assert.Equal(t, entity.AssetAwaitingReturn, env.store.assets["AST-100"].Status)
	assert.Equal(t, entity.AssetInUse, env.store.assets["AST-200"].Status, "el activo no devuelto sigue en uso")
}

func TestLoanSubmitReturn_ActivoAjeno_Falla(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()
	l := env.approvedLoan(t)

	_, err := env.loans.SubmitReturn(ctx, l.ID, []assetops.ReturnItemInput{
		{AssetID: "AST-999", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
	}, "jcarlos")
	assert.ErrorIs(t, err, domain.ErrNotFound, "un activo no asignado al préstamo no existe para la devolución")
	assert.Empty(t, env.store.returns, "la devolución inválida no debe persistirse")
}

func TestLoanSubmitReturn_FallaParcial_RestauraEstructurasDelPrestamo(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()
	l := env.approvedLoan(t)
	itemID := l.Items[0].ItemID

	// El primer activo sí pertenece al préstamo; el rollback debe deshacer
	// también lo que alcanzó a mutarse antes de toparse con el ajeno.
	_, err := env.loans.SubmitReturn(ctx, l.ID, []assetops.ReturnItemInput{
		{AssetID: "AST-100", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
		{AssetID: "AST-999", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
	}, "jcarlos")
	require.ErrorIs(t, err, domain.ErrNotFound)

	stored := env.store.loans[l.ID]
	assert.Equal(t, entity.LoanOnLoan, stored.Status)
	assert.ElementsMatch(t, []string{"AST-100", "AST-200"}, stored.AssignedAssetIDs[itemID])
	assert.Empty(t, stored.ReturnedAssetIDs)
	assert.Equal(t, entity.AssetInUse, env.store.assets["AST-100"].Status, "el activo válido no debe quedar marcado")
}

func TestLoanGetByID_CopiaSinAliasAlAlmacen(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()
	l := env.approvedLoan(t)
	itemID := l.Items[0].ItemID

	got, err := env.loans.GetByID(ctx, l.ID)
	require.NoError(t, err)
	got.Items[0].Status = entity.ItemRejected
	got.AssignedAssetIDs[itemID][0] = "AST-XXX"
	got.ReturnedAssetIDs = append(got.ReturnedAssetIDs, "AST-XXX")

	stored := env.store.loans[l.ID]
	assert.Equal(t, entity.ItemApproved, stored.Items[0].Status, "mutar la copia no debe tocar el almacén")
	assert.Equal(t, "AST-100", stored.AssignedAssetIDs[itemID][0])
	assert.Empty(t, stored.ReturnedAssetIDs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificación de devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReturnVerify_TodoAceptado_CierraPrestamo(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()
	l := env.approvedLoan(t)

	ret, err := env.loans.SubmitReturn(ctx, l.ID, []assetops.ReturnItemInput{
		{AssetID: "AST-100", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
		{AssetID: "AST-200", Name: "Mezcladora", ReturnedCondition: entity.ConditionUsedOkay},
	}, "jcarlos")
	require.NoError(t, err)

	ret, err = env.returns.Verify(ctx, ret.ID, []string{"AST-100", "AST-200"}, "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnCompleted, ret.Status)

	loan, err := env.loans.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoanReturned, loan.Status)

	for _, id := range []string{"AST-100", "AST-200"} {
		a := env.store.assets[id]
		assert.Equal(t, entity.AssetInStorage, a.Status)
		assert.Nil(t, a.CurrentHolder, "el activo liberado no debe conservar tenedor")
	}
}

func TestReturnVerify_RechazoParcial_DevuelveCustodia(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()
	l := env.approvedLoan(t)

	ret, err := env.loans.SubmitReturn(ctx, l.ID, []assetops.ReturnItemInput{
		{AssetID: "AST-100", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
		{AssetID: "AST-200", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
	}, "jcarlos")
	require.NoError(t, err)

	// Solo se acepta AST-100; AST-200 vuelve a custodia del solicitante.
	ret, err = env.returns.Verify(ctx, ret.ID, []string{"AST-100"}, "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnApproved, ret.Status)

	loan, err := env.loans.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoanOnLoan, loan.Status, "quedan activos sin devolver")

	assert.Equal(t, entity.AssetInStorage, env.store.assets["AST-100"].Status)
	a := env.store.assets["AST-200"]
	assert.Equal(t, entity.AssetInUse, a.Status)
	require.NotNil(t, a.CurrentHolder)
	assert.Equal(t, "jcarlos", *a.CurrentHolder)
}

func TestReturnVerify_DanadoAceptado_QuedaDamaged(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()
	l := env.approvedLoan(t)

	ret, err := env.loans.SubmitReturn(ctx, l.ID, []assetops.ReturnItemInput{
		{AssetID: "AST-100", Name: "Mezcladora", ReturnedCondition: entity.ConditionMajorDamage},
	}, "jcarlos")
	require.NoError(t, err)

	ret, err = env.returns.Verify(ctx, ret.ID, []string{"AST-100"}, "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnCompleted, ret.Status)

	a := env.store.assets["AST-100"]
	assert.Equal(t, entity.AssetDamaged, a.Status)
	assert.Equal(t, entity.ConditionMajorDamage, a.Condition)
	assert.Nil(t, a.CurrentHolder)
}

func TestReturnVerify_SegundaVez_InvalidTransition(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()
	l := env.approvedLoan(t)

	ret, err := env.loans.SubmitReturn(ctx, l.ID, []assetops.ReturnItemInput{
		{AssetID: "AST-100", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
	}, "jcarlos")
	require.NoError(t, err)

	_, err = env.returns.Verify(ctx, ret.ID, []string{"AST-100"}, "logistica1")
	require.NoError(t, err)
	_, err = env.returns.Verify(ctx, ret.ID, []string{"AST-100"}, "logistica1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReturnVerify_SegundaRonda_CierraPrestamo(t *testing.T) {
	env := newLoanEnv()
	ctx := context.Background()
	l := env.approvedLoan(t)

	ret1, err := env.loans.SubmitReturn(ctx, l.ID, []assetops.ReturnItemInput{
		{AssetID: "AST-100", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
	}, "jcarlos")
	require.NoError(t, err)
	_, err = env.returns.Verify(ctx, ret1.ID, []string{"AST-100"}, "logistica1")
	require.NoError(t, err)

	ret2, err := env.loans.SubmitReturn(ctx, l.ID, []assetops.ReturnItemInput{
		{AssetID: "AST-200", Name: "Mezcladora", ReturnedCondition: entity.ConditionGood},
	}, "jcarlos")
	require.NoError(t, err)
	assert.Regexp(t, `^RT-\d{6}-002$`, ret2.DocNumber)

	_, err = env.returns.Verify(ctx, ret2.ID, []string{"AST-200"}, "logistica1")
	require.NoError(t, err)

	loan, err := env.loans.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoanReturned, loan.Status)

	rets, err := env.returns.ListByLoan(ctx, l.ID)
	require.NoError(t, err)
	assert.Len(t, rets, 2)
}
