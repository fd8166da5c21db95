package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/application/dto"
)

// AssetHandler expone el libro mayor de custodia de activos.
type AssetHandler struct {
	uc *assetops.LedgerUseCase
}

// NewAssetHandler construye el handler.
func NewAssetHandler(uc *assetops.LedgerUseCase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

// GetByID godoc
// @Summary      Obtener activo
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del activo"
// @Success      200  {object}  dto.AssetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [get]
func (h *AssetHandler) GetByID(c *fiber.Ctx) error {
	a, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToAssetResponse(a))
}

// Update godoc
// @Summary      Actualizar estado, condición, tenedor o ubicación de un activo
// @Tags         assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del activo"
// @Param        body  body  dto.UpdateAssetRequest  true  "campos a cambiar y detail"
// @Success      200   {object}  dto.AssetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [patch]
func (h *AssetHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAssetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	a, err := h.uc.UpdateOne(c.Context(), c.Params("id"), in.ToAssetPatch(), GetUserID(c), in.Detail)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToAssetResponse(a))
}

// BatchUpdate godoc
// @Summary      Aplicar el mismo patch a varios activos, todo o nada
// @Tags         assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchUpdateAssetsRequest  true  "asset_ids, patch, detail, reference_id"
// @Success      204   "sin contenido"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assets/batch [patch]
func (h *AssetHandler) BatchUpdate(c *fiber.Ctx) error {
	var in dto.BatchUpdateAssetsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateBatch(c.Context(), in.AssetIDs, in.ToAssetPatch(), GetUserID(c), in.Detail, in.ReferenceID); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListActivity godoc
// @Summary      Bitácora de movimientos de un activo, más recientes primero
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "id del activo"
// @Param        limit   query  int     false  "máx. resultados (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ActivityListResponse
// @Router       /api/assets/{id}/activity [get]
func (h *AssetHandler) ListActivity(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	entries, err := h.uc.ListActivity(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := dto.ActivityListResponse{Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, e := range entries {
		out.Items = append(out.Items, dto.ToActivityEntryResponse(e))
	}
	return c.JSON(out)
}
