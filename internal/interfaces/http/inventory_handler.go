package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/inventory"
)

// InventoryHandler movimientos manuales, consultas del kardex y sugerencia de reposición.
type InventoryHandler struct {
	uc            *inventory.UseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, kind (entry|exit), quantity, reason"
// @Success      201   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterMovement(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Consultar el kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        kind        query  string  false  "entry | exit"
// @Param        from        query  string  false  "Desde (RFC3339 o AAAA-MM-DD, inclusivo)"
// @Param        to          query  string  false  "Hasta (RFC3339 exclusivo; AAAA-MM-DD incluye ese día)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	in.From, in.To = from, to
	out, err := h.uc.ListMovements(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RecentMovements godoc
// @Summary      Últimos movimientos del kardex (n por defecto 10)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        n    query  int  false  "Cantidad"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements/recent [get]
func (h *InventoryHandler) RecentMovements(c *fiber.Ctx) error {
	out, err := h.uc.ListRecentMovements(c.UserContext(), GetCompanyID(c), c.QueryInt("n", 0))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Sugerencia de reposición para productos con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
