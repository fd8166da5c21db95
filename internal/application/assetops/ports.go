package assetops

import (
	"context"
	"time"

	"github.com/jhoicas/activos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que cada transición de workflow sea
// un read-modify-write atómico sobre el documento y los libros que toca.
type TxRunner interface {
	// RunAssets transacción solo sobre el libro de custodia.
	RunAssets(ctx context.Context, fn func(assetRepo repository.AssetRepository) error) error
	// RunRequest transacción sobre una solicitud y el libro de custodia.
	RunRequest(ctx context.Context, fn func(
		requestRepo repository.RequestRepository,
		assetRepo repository.AssetRepository,
	) error) error
	// RunLoan transacción sobre préstamo, devoluciones y libro de custodia.
	RunLoan(ctx context.Context, fn func(
		loanRepo repository.LoanRequestRepository,
		returnRepo repository.AssetReturnRepository,
		assetRepo repository.AssetRepository,
	) error) error
	// RunStock transacción sobre el libro de movimientos de stock.
	RunStock(ctx context.Context, fn func(stockRepo repository.StockMovementRepository) error) error
}

// TransitionNotice aviso de transición para el despachador de notificaciones.
type TransitionNotice struct {
	DocType    string    `json:"doc_type"` // request | loan_request | asset_return
	DocID      string    `json:"doc_id"`
	DocNumber  string    `json:"doc_number"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Actor      string    `json:"actor"`
	At         time.Time `json:"at"`
}

// Notifier colaborador externo informado de las transiciones confirmadas.
// Se invoca después del commit; un fallo de notificación no revierte la transición.
type Notifier interface {
	NotifyTransition(ctx context.Context, notice TransitionNotice) error
}
