package notify

import (
	"context"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/pkg/logger"
)

var _ assetops.Notifier = (*LogNotifier)(nil)

// LogNotifier despachador de respaldo cuando no hay broker configurado:
// cada transición queda solo en el log estructurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el despachador de log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// NotifyTransition registra el aviso; nunca falla.
func (n *LogNotifier) NotifyTransition(_ context.Context, notice assetops.TransitionNotice) error {
	n.log.Info().
		Str("doc_type", notice.DocType).
		Str("doc_number", notice.DocNumber).
		Str("from", notice.FromStatus).
		Str("to", notice.ToStatus).
		Str("actor", notice.Actor).
		Msg("transición de documento")
	return nil
}
