package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/application/dto"
	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// LoanHandler maneja las peticiones HTTP del workflow de préstamos.
type LoanHandler struct {
	uc *assetops.LoanUseCase
}

// NewLoanHandler construye el handler.
func NewLoanHandler(uc *assetops.LoanUseCase) *LoanHandler {
	return &LoanHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de préstamo
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLoanRequest  true  "division e items con return_date"
// @Success      201   {object}  dto.LoanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/loan-requests [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := assetops.CreateLoanInput{
		Requester: GetUserID(c),
		Division:  in.Division,
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, assetops.CreateLoanItem{
			Name:       it.Name,
			Brand:      it.Brand,
			Quantity:   it.Quantity,
			ReturnDate: it.ReturnDate,
		})
	}
	loan, err := h.uc.Create(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLoanResponse(loan))
}

// List godoc
// @Summary      Listar préstamos
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. resultados (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.LoanListResponse
// @Router       /api/loan-requests [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	loans, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := dto.LoanListResponse{Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, l := range loans {
		out.Items = append(out.Items, dto.ToLoanResponse(l))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener préstamo
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del préstamo"
// @Success      200  {object}  dto.LoanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/loan-requests/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	loan, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToLoanResponse(loan))
}

// Approve godoc
// @Summary      Aprobar préstamo asignando activos concretos por ítem
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del préstamo"
// @Param        body  body  dto.ApproveLoanRequest  true  "assigned (item_id -> asset_ids) y decisions"
// @Success      200   {object}  dto.LoanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/loan-requests/{id}/approve [patch]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	decisions := make(map[string]entity.ItemStatus, len(in.Decisions))
	for itemID, status := range in.Decisions {
		decisions[itemID] = entity.ItemStatus(status)
	}
	loan, err := h.uc.Approve(c.Context(), c.Params("id"), in.Assigned, decisions, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToLoanResponse(loan))
}

// Reject godoc
// @Summary      Rechazar préstamo
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del préstamo"
// @Param        body  body  dto.RejectRequestRequest  false  "reason"
// @Success      200   {object}  dto.LoanResponse
// @Router       /api/loan-requests/{id}/reject [patch]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	loan, err := h.uc.Reject(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToLoanResponse(loan))
}

// SubmitReturn godoc
// @Summary      Declarar la devolución de activos prestados
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del préstamo"
// @Param        body  body  dto.SubmitReturnRequest  true  "items devueltos con condición reportada"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/loan-requests/{id}/returns [post]
func (h *LoanHandler) SubmitReturn(c *fiber.Ctx) error {
	var in dto.SubmitReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]assetops.ReturnItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, assetops.ReturnItemInput{
			AssetID:           it.AssetID,
			Name:              it.Name,
			ReturnedCondition: entity.AssetCondition(it.ReturnedCondition),
		})
	}
	ret, err := h.uc.SubmitReturn(c.Context(), c.Params("id"), items, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToReturnResponse(ret))
}
