package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/application/auth"
	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RequestUC *assetops.RequestUseCase
	LoanUC    *assetops.LoanUseCase
	ReturnUC  *assetops.ReturnUseCase
	LedgerUC  *assetops.LedgerUseCase
	StockUC   *assetops.StockUseCase
	AuthUC    *auth.AuthUseCase
	PDF       DocPDFGenerator
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	logistic := RequireRole(entity.RoleLogistic, entity.RoleAdmin)
	ceo := RequireRole(entity.RoleCEO, entity.RoleAdmin)

	// Solicitudes de compra/asignación (protegido)
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC, deps.PDF)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Patch("/:id/approve", logistic, requestHandler.ApproveLogistic)
	requests.Patch("/:id/submit-ceo", logistic, requestHandler.SubmitForCEO)
	requests.Patch("/:id/ceo-approval", ceo, requestHandler.DecideCEO)
	requests.Patch("/:id/arrived", logistic, requestHandler.MarkArrived)
	requests.Post("/:id/register-assets", logistic, requestHandler.RegisterAssets)
	requests.Post("/:id/handover", logistic, requestHandler.CompleteHandover)
	requests.Patch("/:id/reject", logistic, requestHandler.Reject)
	requests.Patch("/:id/cancel", requestHandler.Cancel)
	requests.Get("/:id/handover-pdf", requestHandler.HandoverPDF)

	// Préstamos (protegido)
	loans := protected.Group("/loan-requests")
	loanHandler := NewLoanHandler(deps.LoanUC)
	loans.Post("/", loanHandler.Create)
	loans.Get("/", loanHandler.List)
	loans.Get("/:id", loanHandler.GetByID)
	loans.Patch("/:id/approve", logistic, loanHandler.Approve)
	loans.Patch("/:id/reject", logistic, loanHandler.Reject)
	loans.Post("/:id/returns", loanHandler.SubmitReturn)

	// Devoluciones (protegido)
	returns := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnUC, deps.LoanUC, deps.PDF)
	returns.Get("/:id", returnHandler.GetByID)
	returns.Patch("/:id/verify", logistic, returnHandler.Verify)
	returns.Get("/:id/receipt-pdf", returnHandler.ReceiptPDF)
	loans.Get("/:id/returns", returnHandler.ListByLoan)

	// Activos y su bitácora (protegido)
	assets := protected.Group("/assets")
	assetHandler := NewAssetHandler(deps.LedgerUC)
	assets.Patch("/batch", logistic, assetHandler.BatchUpdate)
	assets.Get("/:id", assetHandler.GetByID)
	assets.Patch("/:id", logistic, assetHandler.Update)
	assets.Get("/:id/activity", assetHandler.ListActivity)

	// Movimientos de stock (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/movements", logistic, stockHandler.Record)
	stock.Get("/movements", stockHandler.ListByItem)
}
