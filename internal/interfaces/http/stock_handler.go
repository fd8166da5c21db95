package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/application/dto"
	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// StockHandler expone el libro de movimientos de stock consumible.
type StockHandler struct {
	uc *assetops.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *assetops.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar un movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "movimiento (occurred_at opcional para retroactivos)"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := assetops.RecordMovementInput{
		Name:        in.Name,
		Brand:       in.Brand,
		Type:        entity.MovementType(in.Type),
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		CreatedBy:   GetUserID(c),
	}
	if in.OccurredAt != nil {
		input.OccurredAt = *in.OccurredAt
	}
	mv, err := h.uc.Record(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockMovementResponse(mv))
}

// ListByItem godoc
// @Summary      Historial de movimientos de un ítem, más recientes primero
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        name    query  string  true   "nombre del ítem"
// @Param        brand   query  string  true   "marca"
// @Param        limit   query  int     false  "máx. resultados (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListByItem(c *fiber.Ctx) error {
	name := c.Query("name")
	brand := c.Query("brand")
	if name == "" || brand == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y brand son requeridos"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	movements, err := h.uc.ListByItem(c.Context(), name, brand, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := dto.StockMovementListResponse{Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, mv := range movements {
		out.Items = append(out.Items, dto.ToStockMovementResponse(mv))
	}
	return c.JSON(out)
}
