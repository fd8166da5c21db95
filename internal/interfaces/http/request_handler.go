package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/application/dto"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/workflow"
)

// DocPDFGenerator genera las representaciones imprimibles de los documentos.
type DocPDFGenerator interface {
	GenerateHandoverPDF(ctx context.Context, r *entity.Request) ([]byte, error)
	GenerateReturnReceiptPDF(ctx context.Context, ret *entity.AssetReturn, loan *entity.LoanRequest) ([]byte, error)
}

// RequestHandler maneja las peticiones HTTP del workflow de solicitudes.
type RequestHandler struct {
	uc  *assetops.RequestUseCase
	pdf DocPDFGenerator
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *assetops.RequestUseCase, pdf DocPDFGenerator) *RequestHandler {
	return &RequestHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear solicitud de compra/asignación
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "division, allocation_target, items"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := assetops.CreateRequestInput{
		Requester:        GetUserID(c),
		Division:         in.Division,
		AllocationTarget: entity.AllocationTarget(in.AllocationTarget),
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, assetops.CreateRequestItem{
			Name:     it.Name,
			Brand:    it.Brand,
			Quantity: it.Quantity,
		})
	}
	r, err := h.uc.Create(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRequestResponse(r))
}

// List godoc
// @Summary      Listar solicitudes
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. resultados (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.RequestListResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	requests, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := dto.RequestListResponse{Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, r := range requests {
		out.Items = append(out.Items, dto.ToRequestResponse(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	r, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(r))
}

// ApproveLogistic godoc
// @Summary      Aprobación de logística con decisión por ítem
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la solicitud"
// @Param        body  body  dto.ApproveRequestRequest  true  "decisiones por item_id"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/approve [patch]
func (h *RequestHandler) ApproveLogistic(c *fiber.Ctx) error {
	var in dto.ApproveRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	decisions := make(map[string]workflow.ItemDecision, len(in.Decisions))
	for itemID, d := range in.Decisions {
		decisions[itemID] = workflow.ItemDecision{
			Status:           entity.ItemStatus(d.Status),
			ApprovedQuantity: d.ApprovedQuantity,
		}
	}
	r, err := h.uc.ApproveLogistic(c.Context(), c.Params("id"), decisions, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(r))
}

// SubmitForCEO godoc
// @Summary      Elevar la solicitud a aprobación del CEO
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/submit-ceo [patch]
func (h *RequestHandler) SubmitForCEO(c *fiber.Ctx) error {
	r, err := h.uc.SubmitForCEO(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(r))
}

// DecideCEO godoc
// @Summary      Decisión del CEO sobre la compra
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la solicitud"
// @Param        body  body  dto.CEODecisionRequest  true  "approve y reason"
// @Success      200   {object}  dto.RequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/ceo-approval [patch]
func (h *RequestHandler) DecideCEO(c *fiber.Ctx) error {
	var in dto.CEODecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.uc.DecideCEO(c.Context(), c.Params("id"), in.Approve, in.Reason, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(r))
}

// MarkArrived godoc
// @Summary      Marcar la compra como llegada
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/arrived [patch]
func (h *RequestHandler) MarkArrived(c *fiber.Ctx) error {
	r, err := h.uc.MarkArrived(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(r))
}

// RegisterAssets godoc
// @Summary      Registrar unidades llegadas de un ítem
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la solicitud"
// @Param        body  body  dto.RegisterAssetsRequest  true  "item_id y count"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/register-assets [post]
func (h *RequestHandler) RegisterAssets(c *fiber.Ctx) error {
	var in dto.RegisterAssetsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.uc.RegisterAssets(c.Context(), c.Params("id"), in.ItemID, in.Count, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(r))
}

// CompleteHandover godoc
// @Summary      Entregar físicamente los activos asignados
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la solicitud"
// @Param        body  body  dto.CompleteHandoverRequest  true  "asset_ids y recipient"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/handover [post]
func (h *RequestHandler) CompleteHandover(c *fiber.Ctx) error {
	var in dto.CompleteHandoverRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.uc.CompleteHandover(c.Context(), c.Params("id"), in.AssetIDs, in.Recipient, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(r))
}

// Reject godoc
// @Summary      Rechazar la solicitud (terminal, idempotente)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la solicitud"
// @Param        body  body  dto.RejectRequestRequest  false  "reason"
// @Success      200   {object}  dto.RequestResponse
// @Router       /api/requests/{id}/reject [patch]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	r, err := h.uc.Reject(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(r))
}

// Cancel godoc
// @Summary      Cancelar la solicitud (solo el solicitante, solo en PENDING)
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/cancel [patch]
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	r, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(r))
}

// HandoverPDF godoc
// @Summary      Acta de entrega en PDF de una solicitud completada
// @Tags         requests
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "id de la solicitud"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/handover-pdf [get]
func (h *RequestHandler) HandoverPDF(c *fiber.Ctx) error {
	r, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	doc, err := h.pdf.GenerateHandoverPDF(c.Context(), r)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+r.DocNumber+`.pdf"`)
	return c.Send(doc)
}
