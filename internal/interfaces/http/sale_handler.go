package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/sales"
	"github.com/jhoicas/stockpro/internal/domain"
)

// SaleHandler registro, cancelación y consulta de ventas.
type SaleHandler struct {
	create *sales.CreateSaleUseCase
	cancel *sales.CancelSaleUseCase
	query  *sales.QueryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(create *sales.CreateSaleUseCase, cancel *sales.CancelSaleUseCase, query *sales.QueryUseCase) *SaleHandler {
	return &SaleHandler{create: create, cancel: cancel, query: query}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Todo o nada: si alguna línea o el cliente falla responde 422 con todos los motivos y no modifica stock ni kardex.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "cliente, líneas, descuento, forma de pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.create.Execute(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	c.Location("/api/sales/" + out.ID)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Cancel godoc
// @Summary      Cancelar venta (repone el stock si estaba finalizada)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la venta"
// @Param        body  body  dto.CancelSaleRequest  false  "Motivo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSaleRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return err
		}
	}
	out, err := h.cancel.Cancel(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	out, err := h.query.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByNumber godoc
// @Summary      Obtener venta por número consecutivo
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        number  path  int  true  "Número de la venta"
// @Success      200     {object}  dto.SaleResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/sales/number/{number} [get]
func (h *SaleHandler) GetByNumber(c *fiber.Ctx) error {
	n, err := strconv.ParseInt(c.Params("number"), 10, 64)
	if err != nil {
		return domain.Invalid("number", "debe ser un entero")
	}
	out, err := h.query.GetByNumber(c.UserContext(), GetCompanyID(c), n)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas (más recientes primero)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "pending | finalized | cancelled"
// @Param        client_id  query  string  false  "Cliente"
// @Param        from       query  string  false  "Desde (inclusivo)"
// @Param        to         query  string  false  "Hasta (RFC3339 exclusivo; AAAA-MM-DD incluye ese día)"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.SaleFilterRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	in.From, in.To = from, to
	out, err := h.query.List(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.query.Receipt(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
