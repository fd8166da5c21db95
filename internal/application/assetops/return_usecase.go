package assetops

import (
	"context"
	"time"

	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
	"github.com/jhoicas/activos-api/internal/domain/workflow"
	"github.com/jhoicas/activos-api/pkg/logger"
)

// ReturnUseCase reconciliación de devoluciones: verifica lo físicamente
// devuelto contra el préstamo y resuelve aceptar/rechazar por ítem.
type ReturnUseCase struct {
	txRunner   TxRunner
	returnRepo repository.AssetReturnRepository
	notifier   Notifier
	log        *logger.Logger
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(txRunner TxRunner, returnRepo repository.AssetReturnRepository, notifier Notifier, log *logger.Logger) *ReturnUseCase {
	return &ReturnUseCase{txRunner: txRunner, returnRepo: returnRepo, notifier: notifier, log: log}
}

// GetByID lee un documento de devolución.
func (uc *ReturnUseCase) GetByID(ctx context.Context, id string) (*entity.AssetReturn, error) {
	return uc.returnRepo.GetByID(ctx, id)
}

// ListByLoan devoluciones asociadas a un préstamo.
func (uc *ReturnUseCase) ListByLoan(ctx context.Context, loanID string) ([]*entity.AssetReturn, error) {
	return uc.returnRepo.ListByLoan(ctx, loanID)
}

// Verify particiona los ítems en aceptados y rechazados, resuelve el efecto
// por activo y actualiza documento y préstamo en una sola transacción con
// ambos bloqueados.
func (uc *ReturnUseCase) Verify(ctx context.Context, returnID string, acceptedAssetIDs []string, verifier string) (*entity.AssetReturn, error) {
	var (
		result         *entity.AssetReturn
		loan           *entity.LoanRequest
		fromRetStatus  entity.ReturnStatus
		fromLoanStatus entity.LoanStatus
	)
	err := uc.txRunner.RunLoan(ctx, func(
		loanRepo repository.LoanRequestRepository,
		returnRepo repository.AssetReturnRepository,
		assetRepo repository.AssetRepository,
	) error {
		now := time.Now()
		ret, err := returnRepo.GetForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		l, err := loanRepo.GetForUpdate(ctx, ret.LoanRequestID)
		if err != nil {
			return err
		}
		fromRetStatus = ret.Status
		fromLoanStatus = l.Status

		events, err := workflow.VerifyReturn(ret, l, acceptedAssetIDs, verifier, now)
		if err != nil {
			return err
		}
		if err := returnRepo.Update(ctx, ret); err != nil {
			return err
		}
		if err := loanRepo.Update(ctx, l); err != nil {
			return err
		}
		if err := applyAssetEvents(ctx, assetRepo, events, verifier, now); err != nil {
			return err
		}
		result = ret
		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, TransitionNotice{
		DocType:    "asset_return",
		DocID:      result.ID,
		DocNumber:  result.DocNumber,
		FromStatus: string(fromRetStatus),
		ToStatus:   string(result.Status),
		Actor:      verifier,
		At:         result.UpdatedAt,
	})
	if loan.Status != fromLoanStatus {
		uc.notify(ctx, TransitionNotice{
			DocType:    "loan_request",
			DocID:      loan.ID,
			DocNumber:  loan.DocNumber,
			FromStatus: string(fromLoanStatus),
			ToStatus:   string(loan.Status),
			Actor:      verifier,
			At:         loan.UpdatedAt,
		})
	}
	return result, nil
}

func (uc *ReturnUseCase) notify(ctx context.Context, notice TransitionNotice) {
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
		Msg("transición de devolución")
}
