package assetops_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/docnumber"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/workflow"
	"github.com/jhoicas/activos-api/pkg/logger"
)

type requestEnv struct {
	store    *memStore
	notifier *captureNotifier
	uc       *assetops.RequestUseCase
}

func newRequestEnv() *requestEnv {
	store := newMemStore()
	notifier := &captureNotifier{}
	uc := assetops.NewRequestUseCase(
		&fakeTxRunner{store},
		&fakeRequestRepo{store},
		docnumber.NewGenerator(),
		notifier,
		logger.Nop(),
	)
	return &requestEnv{store: store, notifier: notifier, uc: uc}
}

func (e *requestEnv) seedAsset(id string) {
	e.store.assets[id] = &entity.Asset{
		ID:        id,
		Category:  "herramienta",
		Type:      "taladro",
		Brand:     "Bosch",
		Status:    entity.AssetInStorage,
		Condition: entity.ConditionGood,
		Location:  "bodega central",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestRequestCreate_NumeraYQuedaPending(t *testing.T) {
	env := newRequestEnv()
	ctx := context.Background()

	r, err := env.uc.Create(ctx, assetops.CreateRequestInput{
		Requester:        "mmartinez",
		Division:         "operaciones",
		AllocationTarget: entity.TargetUsage,
		Items: []assetops.CreateRequestItem{
			{Name: "Taladro percutor", Brand: "Bosch", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPending, r.Status)
	assert.Regexp(t, `^RO-\d{6}-001$`, r.DocNumber)
	require.Len(t, r.Items, 1)
	assert.Equal(t, entity.ItemPending, r.Items[0].Status)
	assert.NotEmpty(t, r.Items[0].ItemID)

	// La segunda solicitud del mes toma la siguiente secuencia.
	r2, err := env.uc.Create(ctx, assetops.CreateRequestInput{
		Requester:        "mmartinez",
		AllocationTarget: entity.TargetInventory,
		Items:            []assetops.CreateRequestItem{{Name: "Guantes", Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^RO-\d{6}-002$`, r2.DocNumber)
}

func TestRequestCreate_EntradaInvalida(t *testing.T) {
	env := newRequestEnv()
	ctx := context.Background()

	cases := []assetops.CreateRequestInput{
		{Requester: "", AllocationTarget: entity.TargetUsage, Items: []assetops.CreateRequestItem{{Name: "x", Quantity: 1}}},
		{Requester: "u", AllocationTarget: entity.TargetUsage},
		{Requester: "u", AllocationTarget: "OTRO", Items: []assetops.CreateRequestItem{{Name: "x", Quantity: 1}}},
		{Requester: "u", AllocationTarget: entity.TargetUsage, Items: []assetops.CreateRequestItem{{Name: "", Quantity: 1}}},
		{Requester: "u", AllocationTarget: entity.TargetUsage, Items: []assetops.CreateRequestItem{{Name: "x", Quantity: 0}}},
	}
	for _, in := range cases {
		_, err := env.uc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Empty(t, env.store.requests, "una entrada inválida no debe persistir nada")
}

// dupRequestRepo fuerza colisión de numeración en cada intento de Create.
type dupRequestRepo struct{ *fakeRequestRepo }

func (r *dupRequestRepo) Create(_ context.Context, _ *entity.Request) error { return domain.ErrDuplicate }

func TestRequestCreate_ColisionPersistente_Conflict(t *testing.T) {
	store := newMemStore()
	uc := assetops.NewRequestUseCase(
		&fakeTxRunner{store},
		&dupRequestRepo{&fakeRequestRepo{store}},
		docnumber.NewGenerator(),
		nil,
		logger.Nop(),
	)

	_, err := uc.Create(context.Background(), assetops.CreateRequestInput{
		Requester:        "mmartinez",
		AllocationTarget: entity.TargetUsage,
		Items:            []assetops.CreateRequestItem{{Name: "Taladro", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRequestApproveLogistic_StockUso_QuedaAwaitingHandover(t *testing.T) {
	env := newRequestEnv()
	ctx := context.Background()

	r, err := env.uc.Create(ctx, assetops.CreateRequestInput{
		Requester:        "mmartinez",
		AllocationTarget: entity.TargetUsage,
		Items:            []assetops.CreateRequestItem{{Name: "Taladro", Brand: "Bosch", Quantity: 2}},
	})
	require.NoError(t, err)

	decisions := map[string]workflow.ItemDecision{
		r.Items[0].ItemID: {Status: entity.ItemStockAllocated},
	}
	r, err = env.uc.ApproveLogistic(ctx, r.ID, decisions, "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestAwaitingHandover, r.Status)

	require.Len(t, env.notifier.notices, 1)
	notice := env.notifier.notices[0]
	assert.Equal(t, "request", notice.DocType)
	assert.Equal(t, string(entity.RequestPending), notice.FromStatus)
	assert.Equal(t, string(entity.RequestAwaitingHandover), notice.ToStatus)
}

func TestRequestCompleteHandover_AsignaActivosYCompleta(t *testing.T) {
	env := newRequestEnv()
	ctx := context.Background()
	env.seedAsset("AST-001")
	env.seedAsset("AST-002")

	r, err := env.uc.Create(ctx, assetops.CreateRequestInput{
		Requester:        "mmartinez",
		AllocationTarget: entity.TargetUsage,
		Items:            []assetops.CreateRequestItem{{Name: "Taladro", Quantity: 2}},
	})
	require.NoError(t, err)
	r, err = env.uc.ApproveLogistic(ctx, r.ID, map[string]workflow.ItemDecision{
		r.Items[0].ItemID: {Status: entity.ItemStockAllocated},
	}, "logistica1")
	require.NoError(t, err)

	r, err = env.uc.CompleteHandover(ctx, r.ID, []string{"AST-001", "AST-002"}, "mmartinez", "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestCompleted, r.Status)

	for _, id := range []string{"AST-001", "AST-002"} {
		a := env.store.assets[id]
		assert.Equal(t, entity.AssetInUse, a.Status, "el activo entregado debe quedar en uso")
		require.NotNil(t, a.CurrentHolder)
		assert.Equal(t, "mmartinez", *a.CurrentHolder)
	}
	// Una entrada de bitácora por activo, enlazada al número de documento.
	var linked int
	for _, e := range env.store.activity {
		if e.ReferenceID != nil && *e.ReferenceID == r.DocNumber {
			linked++
			assert.Equal(t, entity.ActivityAssigned, e.Action)
		}
	}
	assert.Equal(t, 2, linked)
}

func TestRequestCompleteHandover_ActivoInexistente_RevierteTodo(t *testing.T) {
	env := newRequestEnv()
	ctx := context.Background()
	env.seedAsset("AST-001")

	r, err := env.uc.Create(ctx, assetops.CreateRequestInput{
		Requester:        "mmartinez",
		AllocationTarget: entity.TargetUsage,
		Items:            []assetops.CreateRequestItem{{Name: "Taladro", Quantity: 1}},
	})
	require.NoError(t, err)
	r, err = env.uc.ApproveLogistic(ctx, r.ID, map[string]workflow.ItemDecision{
		r.Items[0].ItemID: {Status: entity.ItemStockAllocated},
	}, "logistica1")
	require.NoError(t, err)

	_, err = env.uc.CompleteHandover(ctx, r.ID, []string{"AST-001", "AST-404"}, "mmartinez", "logistica1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Ni la solicitud ni el activo existente deben haber mutado.
	after, err := env.uc.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestAwaitingHandover, after.Status)
	assert.Equal(t, entity.AssetInStorage, env.store.assets["AST-001"].Status)
	assert.Empty(t, env.store.activity)
}

func TestRequestReject_IdempotenteSinSegundoAviso(t *testing.T) {
	env := newRequestEnv()
	ctx := context.Background()

	r, err := env.uc.Create(ctx, assetops.CreateRequestInput{
		Requester:        "mmartinez",
		AllocationTarget: entity.TargetUsage,
		Items:            []assetops.CreateRequestItem{{Name: "Taladro", Quantity: 1}},
	})
	require.NoError(t, err)

	r, err = env.uc.Reject(ctx, r.ID, "sin presupuesto", "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestRejected, r.Status)
	versionAfterReject := env.store.requests[r.ID].Version

	// El segundo rechazo es un no-op: mismo estado, sin escritura ni aviso nuevo.
	r2, err := env.uc.Reject(ctx, r.ID, "otra razón", "ceo1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestRejected, r2.Status)
	assert.Equal(t, "sin presupuesto", r2.RejectionReason)
	assert.Equal(t, versionAfterReject, env.store.requests[r.ID].Version)
	assert.Len(t, env.notifier.notices, 1)
}

func TestRequestCancel_SoloElSolicitante(t *testing.T) {
	env := newRequestEnv()
	ctx := context.Background()

	r, err := env.uc.Create(ctx, assetops.CreateRequestInput{
		Requester:        "mmartinez",
		AllocationTarget: entity.TargetUsage,
		Items:            []assetops.CreateRequestItem{{Name: "Taladro", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = env.uc.Cancel(ctx, r.ID, "otro")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	r, err = env.uc.Cancel(ctx, r.ID, "mmartinez")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestCancelled, r.Status)
}

func TestRequestTransition_NoExiste(t *testing.T) {
	env := newRequestEnv()
	_, err := env.uc.Reject(context.Background(), "no-existe", "x", "logistica1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequestCompraExterna_FlujoCompleto(t *testing.T) {
	env := newRequestEnv()
	ctx := context.Background()

	r, err := env.uc.Create(ctx, assetops.CreateRequestInput{
		Requester:        "mmartinez",
		AllocationTarget: entity.TargetInventory,
		Items:            []assetops.CreateRequestItem{{Name: "Cemento", Quantity: 10}},
	})
	require.NoError(t, err)
	itemID := r.Items[0].ItemID

	r, err = env.uc.ApproveLogistic(ctx, r.ID, map[string]workflow.ItemDecision{
		itemID: {Status: entity.ItemProcurementNeeded},
	}, "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestLogisticApproved, r.Status)

	r, err = env.uc.SubmitForCEO(ctx, r.ID, "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestAwaitingCEO, r.Status)

	r, err = env.uc.DecideCEO(ctx, r.ID, true, "", "ceo1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, r.Status)

	r, err = env.uc.MarkArrived(ctx, r.ID, "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestArrived, r.Status)

	r, err = env.uc.RegisterAssets(ctx, r.ID, itemID, 4, "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestArrived, r.Status, "registro parcial no completa")

	r, err = env.uc.RegisterAssets(ctx, r.ID, itemID, 6, "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestCompleted, r.Status, "inventario completo cierra sin entrega")

	// Cada transición de estado produjo su aviso.
	var tos []string
	for _, n := range env.notifier.notices {
		tos = append(tos, n.ToStatus)
	}
	assert.Equal(t, []string{
		string(entity.RequestLogisticApproved),
		string(entity.RequestAwaitingCEO),
		string(entity.RequestApproved),
		string(entity.RequestArrived),
		string(entity.RequestCompleted),
	}, tos)
}

// failingNotifier simula un canal de avisos caído.
type failingNotifier struct{}

func (failingNotifier) NotifyTransition(context.Context, assetops.TransitionNotice) error {
	return errors.New("canal de avisos caído")
}

func TestRequestTransition_AvisoFallido_NoRegistraExito(t *testing.T) {
	var buf bytes.Buffer
	store := newMemStore()
	uc := assetops.NewRequestUseCase(
		&fakeTxRunner{store},
		&fakeRequestRepo{store},
		docnumber.NewGenerator(),
		failingNotifier{},
		logger.NewWithWriter(&buf),
	)
	ctx := context.Background()

	r, err := uc.Create(ctx, assetops.CreateRequestInput{
		Requester:        "mmartinez",
		AllocationTarget: entity.TargetUsage,
		Items:            []assetops.CreateRequestItem{{Name: "Taladro", Quantity: 1}},
	})
	require.NoError(t, err)

	// La transición se confirma aunque el aviso falle; el log debe reflejar
	// solo la advertencia, nunca la línea de transición exitosa.
	r, err = uc.Reject(ctx, r.ID, "sin presupuesto", "logistica1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestRejected, r.Status)
	assert.Contains(t, buf.String(), "notificación de transición fallida")
	assert.NotContains(t, buf.String(), "transición de solicitud")
}
