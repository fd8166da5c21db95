package assetops

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/docnumber"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
	"github.com/jhoicas/activos-api/internal/domain/workflow"
	"github.com/jhoicas/activos-api/pkg/logger"
)

// RequestUseCase orquesta el workflow de solicitudes de compra/asignación.
// Cada transición corre dentro de TxRunner con el documento bloqueado
// (FOR UPDATE), de modo que dos aprobaciones concurrentes sobre la misma
// solicitud quedan serializadas.
type RequestUseCase struct {
	txRunner    TxRunner
	requestRepo repository.RequestRepository
	numbering   *docnumber.Generator
	notifier    Notifier
	log         *logger.Logger
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(txRunner TxRunner, requestRepo repository.RequestRepository, numbering *docnumber.Generator, notifier Notifier, log *logger.Logger) *RequestUseCase {
	return &RequestUseCase{
		txRunner:    txRunner,
		requestRepo: requestRepo,
		numbering:   numbering,
		notifier:    notifier,
		log:         log,
	}
}

// CreateRequestInput entrada para crear una solicitud.
type CreateRequestInput struct {
	Requester        string
	Division         string
	AllocationTarget entity.AllocationTarget
	Items            []CreateRequestItem
}

// CreateRequestItem ítem solicitado.
type CreateRequestItem struct {
	Name     string
	Brand    string
	Quantity int
}

// Create valida la entrada, numera el documento y persiste la solicitud en PENDING.
func (uc *RequestUseCase) Create(ctx context.Context, in CreateRequestInput) (*entity.Request, error) {
	if in.Requester == "" || len(in.Items) == 0 || !in.AllocationTarget.IsValid() {
		return nil, domain.ErrValidation
	}
	for _, it := range in.Items {
		if it.Name == "" || it.Quantity <= 0 {
			return nil, domain.ErrValidation
		}
	}

	now := time.Now()
	r := &entity.Request{
		ID:               uuid.New().String(),
		Requester:        in.Requester,
		Division:         in.Division,
		AllocationTarget: in.AllocationTarget,
		Status:           entity.RequestPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, it := range in.Items {
		r.Items = append(r.Items, entity.RequestItem{
			ItemID:   uuid.New().String(),
			Name:     it.Name,
			Brand:    it.Brand,
			Quantity: it.Quantity,
			Status:   entity.ItemPending,
		})
	}

	// Numeración determinista; ante una colisión por carrera se reintenta con
	// el conjunto refrescado.
	for attempt := 0; attempt < 3; attempt++ {
		existing, err := uc.requestRepo.ListDocNumbers(ctx, docnumber.PrefixRequest)
		if err != nil {
			return nil, err
		}
		r.DocNumber = uc.numbering.Generate(docnumber.PrefixRequest, existing, now)
		err = uc.requestRepo.Create(ctx, r)
		if err == nil {
			uc.log.Info().Str("doc_number", r.DocNumber).Str("requester", r.Requester).Msg("solicitud creada")
			return r, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, domain.ErrConflict
}

// GetByID lee una solicitud.
func (uc *RequestUseCase) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	return uc.requestRepo.GetByID(ctx, id)
}

// List lista solicitudes paginadas.
func (uc *RequestUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Request, error) {
	return uc.requestRepo.List(ctx, limit, offset)
}

// ApproveLogistic aprobación de logística con los resultados por ítem.
func (uc *RequestUseCase) ApproveLogistic(ctx context.Context, requestID string, decisions map[string]workflow.ItemDecision, approver string) (*entity.Request, error) {
	return uc.transition(ctx, requestID, approver, func(r *entity.Request, now time.Time) ([]workflow.AssetEvent, error) {
		return nil, workflow.ApproveLogistic(r, decisions, approver, now)
	})
}

// SubmitForCEO encola la solicitud para decisión del CEO.
func (uc *RequestUseCase) SubmitForCEO(ctx context.Context, requestID, actor string) (*entity.Request, error) {
	return uc.transition(ctx, requestID, actor, func(r *entity.Request, now time.Time) ([]workflow.AssetEvent, error) {
		return nil, workflow.SubmitForCEO(r, now)
	})
}

// DecideCEO aprueba o rechaza desde AWAITING_CEO_APPROVAL.
func (uc *RequestUseCase) DecideCEO(ctx context.Context, requestID string, approve bool, reason, approver string) (*entity.Request, error) {
	return uc.transition(ctx, requestID, approver, func(r *entity.Request, now time.Time) ([]workflow.AssetEvent, error) {
		return nil, workflow.DecideCEO(r, approve, approver, reason, now)
	})
}

// MarkArrived registra la llegada de los bienes comprados.
func (uc *RequestUseCase) MarkArrived(ctx context.Context, requestID, actor string) (*entity.Request, error) {
	return uc.transition(ctx, requestID, actor, func(r *entity.Request, now time.Time) ([]workflow.AssetEvent, error) {
		return nil, workflow.MarkArrived(r, now)
	})
}

// RegisterAssets acumula unidades registradas para un ítem.
func (uc *RequestUseCase) RegisterAssets(ctx context.Context, requestID, itemID string, count int, actor string) (*entity.Request, error) {
	return uc.transition(ctx, requestID, actor, func(r *entity.Request, now time.Time) ([]workflow.AssetEvent, error) {
		_, err := workflow.RegisterAssets(r, itemID, count, now)
		return nil, err
	})
}

// CompleteHandover cierra la entrega y pasa los activos entregados a IN_USE.
func (uc *RequestUseCase) CompleteHandover(ctx context.Context, requestID string, assetIDs []string, recipient, actor string) (*entity.Request, error) {
	return uc.transition(ctx, requestID, actor, func(r *entity.Request, now time.Time) ([]workflow.AssetEvent, error) {
		return workflow.CompleteHandover(r, assetIDs, recipient, now)
	})
}

// Reject rechazo terminal, idempotente; nunca toca el libro de custodia.
func (uc *RequestUseCase) Reject(ctx context.Context, requestID, reason, actor string) (*entity.Request, error) {
	return uc.transition(ctx, requestID, actor, func(r *entity.Request, now time.Time) ([]workflow.AssetEvent, error) {
		_, err := workflow.RejectRequest(r, reason, now)
		return nil, err
	})
}

// Cancel cancelación por el solicitante, idempotente sobre terminales.
func (uc *RequestUseCase) Cancel(ctx context.Context, requestID, actor string) (*entity.Request, error) {
	return uc.transition(ctx, requestID, actor, func(r *entity.Request, now time.Time) ([]workflow.AssetEvent, error) {
		_, err := workflow.CancelRequest(r, actor, now)
		return nil, err
	})
}

// transition ejecuta una transición atómica: bloquea el documento, aplica la
// función de workflow, aplica los eventos al libro de custodia y persiste con
// chequeo de versión. La notificación sale después del commit.
func (uc *RequestUseCase) transition(ctx context.Context, requestID, actor string, fn func(r *entity.Request, now time.Time) ([]workflow.AssetEvent, error)) (*entity.Request, error) {
	var (
		result     *entity.Request
		fromStatus entity.RequestStatus
	)
	err := uc.txRunner.RunRequest(ctx, func(requestRepo repository.RequestRepository, assetRepo repository.AssetRepository) error {
		now := time.Now()
		r, err := requestRepo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		fromStatus = r.Status
		events, err := fn(r, now)
		if err != nil {
			return err
		}
		// Las funciones de workflow fijan UpdatedAt solo cuando mutan; un no-op
		// idempotente no escribe ni sube la versión del documento.
		if r.UpdatedAt.Equal(now) {
			if err := requestRepo.Update(ctx, r); err != nil {
				return err
			}
		}
		if err := applyAssetEvents(ctx, assetRepo, events, actor, now); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Status != fromStatus {
		uc.notify(ctx, TransitionNotice{
			DocType:    "request",
			DocID:      result.ID,
			DocNumber:  result.DocNumber,
			FromStatus: string(fromStatus),
			ToStatus:   string(result.Status),
			Actor:      actor,
			At:         result.UpdatedAt,
		})
	}
	return result, nil
}

func (uc *RequestUseCase) notify(ctx context.Context, notice TransitionNotice) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.NotifyTransition(ctx, notice); err != nil {
		// La transición ya está confirmada: el aviso fallido solo se registra.
		uc.log.Warn().Err(err).Str("doc_number", notice.DocNumber).Msg("notificación de transición fallida")
		return
	}
	uc.log.Info().
		Str("doc_number", notice.DocNumber).
		Str("from", notice.FromStatus).
		Str("to", notice.ToStatus).
		Str("actor", notice.Actor).
		Msg("transición de solicitud")
}
