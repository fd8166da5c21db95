package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/application/dto"
)

// ReturnHandler maneja la verificación de devoluciones.
type ReturnHandler struct {
	uc    *assetops.ReturnUseCase
	loans *assetops.LoanUseCase
	pdf   DocPDFGenerator
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *assetops.ReturnUseCase, loans *assetops.LoanUseCase, pdf DocPDFGenerator) *ReturnHandler {
	return &ReturnHandler{uc: uc, loans: loans, pdf: pdf}
}

// GetByID godoc
// @Summary      Obtener documento de devolución
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	ret, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToReturnResponse(ret))
}

// ListByLoan godoc
// @Summary      Listar devoluciones de un préstamo
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del préstamo"
// @Success      200  {array}  dto.ReturnResponse
// @Router       /api/loan-requests/{id}/returns [get]
func (h *ReturnHandler) ListByLoan(c *fiber.Ctx) error {
	returns, err := h.uc.ListByLoan(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.ReturnResponse, 0, len(returns))
	for _, ret := range returns {
		out = append(out, dto.ToReturnResponse(ret))
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar una devolución aceptando activos uno a uno
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la devolución"
// @Param        body  body  dto.VerifyReturnRequest  true  "accepted_asset_ids"
// @Success      200   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/verify [patch]
func (h *ReturnHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ret, err := h.uc.Verify(c.Context(), c.Params("id"), in.AcceptedAssetIDs, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToReturnResponse(ret))
}

// ReceiptPDF godoc
// @Summary      Comprobante de devolución en PDF
// @Tags         returns
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "id de la devolución"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/receipt-pdf [get]
func (h *ReturnHandler) ReceiptPDF(c *fiber.Ctx) error {
	ret, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	loan, err := h.loans.GetByID(c.Context(), ret.LoanRequestID)
	if err != nil {
		return domainError(c, err)
	}
	doc, err := h.pdf.GenerateReturnReceiptPDF(c.Context(), ret, loan)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+ret.DocNumber+`.pdf"`)
	return c.Send(doc)
}
