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

// LoanUseCase orquesta el workflow de préstamos: aprobación con asignación de
// activos, rechazo y presentación de devoluciones.
type LoanUseCase struct {
	txRunner   TxRunner
	loanRepo   repository.LoanRequestRepository
	returnRepo repository.AssetReturnRepository
	numbering  *docnumber.Generator
	notifier   Notifier
	log        *logger.Logger
}

// NewLoanUseCase construye el caso de uso.
func NewLoanUseCase(txRunner TxRunner, loanRepo repository.LoanRequestRepository, returnRepo repository.AssetReturnRepository, numbering *docnumber.Generator, notifier Notifier, log *logger.Logger) *LoanUseCase {
	return &LoanUseCase{
		txRunner:   txRunner,
		loanRepo:   loanRepo,
		returnRepo: returnRepo,
		numbering:  numbering,
		notifier:   notifier,
		log:        log,
	}
}

// CreateLoanInput entrada para crear una solicitud de préstamo.
type CreateLoanInput struct {
	Requester string
	Division  string
	Items     []CreateLoanItem
}

// CreateLoanItem ítem solicitado en préstamo.
type CreateLoanItem struct {
	Name       string
	Brand      string
	Quantity   int
	ReturnDate time.Time
}

// Create valida la entrada, numera el documento y persiste el préstamo en PENDING.
func (uc *LoanUseCase) Create(ctx context.Context, in CreateLoanInput) (*entity.LoanRequest, error) {
	if in.Requester == "" || len(in.Items) == 0 {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	for _, it := range in.Items {
		if it.Name == "" || it.Quantity <= 0 || it.ReturnDate.Before(now) {
			return nil, domain.ErrValidation
		}
	}

	l := &entity.LoanRequest{
		ID:        uuid.New().String(),
		Requester: in.Requester,
		Division:  in.Division,
		Status:    entity.LoanPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, it := range in.Items {
		l.Items = append(l.Items, entity.LoanItem{
			ItemID:     uuid.New().String(),
			Name:       it.Name,
			Brand:      it.Brand,
			Quantity:   it.Quantity,
			ReturnDate: it.ReturnDate,
			Status:     entity.ItemPending,
		})
	}

	for attempt := 0; attempt < 3; attempt++ {
		existing, err := uc.loanRepo.ListDocNumbers(ctx, docnumber.PrefixLoan)
		if err != nil {
			return nil, err
		}
		l.DocNumber = uc.numbering.Generate(docnumber.PrefixLoan, existing, now)
		err = uc.loanRepo.Create(ctx, l)
		if err == nil {
			uc.log.Info().Str("doc_number", l.DocNumber).Str("requester", l.Requester).Msg("préstamo creado")
			return l, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, domain.ErrConflict
}

// GetByID lee un préstamo.
func (uc *LoanUseCase) GetByID(ctx context.Context, id string) (*entity.LoanRequest, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// List lista préstamos paginados.
func (uc *LoanUseCase) List(ctx context.Context, limit, offset int) ([]*entity.LoanRequest, error) {
	return uc.loanRepo.List(ctx, limit, offset)
}

// Approve aprueba el préstamo asignando activos por ítem; los activos pasan a
// IN_USE con el solicitante como tenedor dentro de la misma transacción.
func (uc *LoanUseCase) Approve(ctx context.Context, loanID string, assigned map[string][]string, decisions map[string]entity.ItemStatus, approver string) (*entity.LoanRequest, error) {
	return uc.transition(ctx, loanID, approver, func(l *entity.LoanRequest, _ repository.AssetReturnRepository, now time.Time) ([]workflow.AssetEvent, error) {
		return workflow.ApproveLoan(l, assigned, decisions, approver, now)
	})
}

// Reject rechazo terminal, idempotente; nunca toca el libro de custodia.
func (uc *LoanUseCase) Reject(ctx context.Context, loanID, reason, actor string) (*entity.LoanRequest, error) {
	return uc.transition(ctx, loanID, actor, func(l *entity.LoanRequest, _ repository.AssetReturnRepository, now time.Time) ([]workflow.AssetEvent, error) {
		_, err := workflow.RejectLoan(l, reason, now)
		return nil, err
	})
}

// ReturnItemInput activo físicamente devuelto con su condición reportada.
type ReturnItemInput struct {
	AssetID           string
	Name              string
	ReturnedCondition entity.AssetCondition
}

// SubmitReturn crea el documento de devolución, numera y marca los activos
// AWAITING_RETURN. Devuelve el documento creado.
func (uc *LoanUseCase) SubmitReturn(ctx context.Context, loanID string, items []ReturnItemInput, actor string) (*entity.AssetReturn, error) {
	if len(items) == 0 {
		return nil, domain.ErrValidation
	}
	var created *entity.AssetReturn
	var fromStatus entity.LoanStatus
	var loan *entity.LoanRequest

	err := uc.txRunner.RunLoan(ctx, func(
		loanRepo repository.LoanRequestRepository,
		returnRepo repository.AssetReturnRepository,
		assetRepo repository.AssetRepository,
	) error {
		now := time.Now()
		l, err := loanRepo.GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		fromStatus = l.Status

		ret := &entity.AssetReturn{ID: uuid.New().String()}
		for _, it := range items {
			ret.Items = append(ret.Items, entity.ReturnItem{
				AssetID:           it.AssetID,
				Name:              it.Name,
				ReturnedCondition: it.ReturnedCondition,
			})
		}
		existing, err := returnRepo.ListDocNumbers(ctx, docnumber.PrefixReturn)
		if err != nil {
			return err
		}
		ret.DocNumber = uc.numbering.Generate(docnumber.PrefixReturn, existing, now)

		events, err := workflow.SubmitReturn(l, ret, now)
		if err != nil {
			return err
		}
		if err := returnRepo.Create(ctx, ret); err != nil {
			return err
		}
		if err := loanRepo.Update(ctx, l); err != nil {
			return err
		}
		if err := applyAssetEvents(ctx, assetRepo, events, actor, now); err != nil {
			return err
		}
		created = ret
		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, TransitionNotice{
		DocType:    "loan_request",
		DocID:      loan.ID,
		DocNumber:  loan.DocNumber,
		FromStatus: string(fromStatus),
		ToStatus:   string(loan.Status),
		Actor:      actor,
		At:         loan.UpdatedAt,
	})
	return created, nil
}

// transition ejecuta una transición atómica de préstamo con el documento bloqueado.
func (uc *LoanUseCase) transition(ctx context.Context, loanID, actor string, fn func(l *entity.LoanRequest, returnRepo repository.AssetReturnRepository, now time.Time) ([]workflow.AssetEvent, error)) (*entity.LoanRequest, error) {
	var (
		result     *entity.LoanRequest
		fromStatus entity.LoanStatus
	)
	err := uc.txRunner.RunLoan(ctx, func(
		loanRepo repository.LoanRequestRepository,
		returnRepo repository.AssetReturnRepository,
		assetRepo repository.AssetRepository,
	) error {
		now := time.Now()
		l, err := loanRepo.GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		fromStatus = l.Status
		events, err := fn(l, returnRepo, now)
		if err != nil {
			return err
		}
		if l.UpdatedAt.Equal(now) {
			if err := loanRepo.Update(ctx, l); err != nil {
				return err
			}
		}
		if err := applyAssetEvents(ctx, assetRepo, events, actor, now); err != nil {
			return err
		}
		result = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Status != fromStatus {
		uc.notify(ctx, TransitionNotice{
			DocType:    "loan_request",
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

func (uc *LoanUseCase) notify(ctx context.Context, notice TransitionNotice) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.NotifyTransition(ctx, notice); err != nil {
		uc.log.Warn().Err(err).Str("doc_number", notice.DocNumber).Msg("notificación de transición fallida")
		return
	}
	uc.log.Info().
		Str("doc_number", notice.DocNumber).
		Str("from", notice.FromStatus).
		Str("to", notice.ToStatus).
		Str("actor", notice.Actor).
		Msg("transición de préstamo")
}
