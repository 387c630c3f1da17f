package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-optimizer/internal/application/analytics"
	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/application/inventory"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	ledger  *inventory.ProductLedger
	sales   *inventory.SaleRecorder
	reports *analytics.ReportUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(ledger *inventory.ProductLedger, sales *inventory.SaleRecorder, reports *analytics.ReportUseCase) *ProductHandler {
	return &ProductHandler{ledger: ledger, sales: sales, reports: reports}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p, err := h.ledger.Create(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromProduct(p))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.ledger.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromProduct(p))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	if page.Limit > 100 {
		page.Limit = 100
	}
	page.DefaultPage()
	list, total, err := h.ledger.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProductListResponse{
		Items: dto.FromProducts(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Description  Stock por debajo del umbral del producto. El umbral es informativo: no bloquea ventas.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.ledger.ListLowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromProducts(list))
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Solo cambia los campos enviados. El stock no se modifica por esta vía.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p, err := h.ledger.Update(c.UserContext(), GetUsername(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromProduct(p))
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Falla con 409 si el producto tiene ventas; en ese caso conviene descontinuarlo.
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.Delete(c.UserContext(), GetUsername(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ForceDelete godoc
// @Summary      Eliminar producto y sus ventas
// @Description  Solo admin. Borra primero las ventas (auditadas como DELETE_SALES) y luego el producto.
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/force [delete]
func (h *ProductHandler) ForceDelete(c *fiber.Ctx) error {
	if err := h.ledger.ForceDelete(c.UserContext(), GetUsername(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddStock godoc
// @Summary      Sumar stock
// @Description  Con unit_cost el costo del producto pasa a ser el promedio ponderado.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del producto"
// @Param        body  body  dto.AddStockRequest  true  "Cantidad a sumar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/add-stock [post]
func (h *ProductHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p, err := h.ledger.ReceiveStock(c.UserContext(), GetUsername(c), c.Params("id"), in.Quantity, in.UnitCost)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromProduct(p))
}

// Discontinue godoc
// @Summary      Descontinuar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/discontinue [put]
func (h *ProductHandler) Discontinue(c *fiber.Ctx) error {
	return h.setDiscontinued(c, true)
}

// Reactivate godoc
// @Summary      Reactivar producto descontinuado
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reactivate [put]
func (h *ProductHandler) Reactivate(c *fiber.Ctx) error {
	return h.setDiscontinued(c, false)
}

func (h *ProductHandler) setDiscontinued(c *fiber.Ctx, discontinued bool) error {
	p, err := h.ledger.SetDiscontinued(c.UserContext(), GetUsername(c), c.Params("id"), discontinued)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromProduct(p))
}

// Revenue godoc
// @Summary      Ingreso acumulado de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductRevenueResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/revenue [get]
func (h *ProductHandler) Revenue(c *fiber.Ctx) error {
	out, err := h.sales.ProductRevenue(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Sales godoc
// @Summary      Ventas de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.SaleRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/sales [get]
func (h *ProductHandler) Sales(c *fiber.Ctx) error {
	list, err := h.sales.ListByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromSaleRecords(list))
}

// StockInvestment godoc
// @Summary      Inversión en inventario
// @Description  Valor del stock actual y de lo vendido, usando el costo actual de cada producto.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockInvestmentResponse
// @Router       /api/products/stock-investment [get]
func (h *ProductHandler) StockInvestment(c *fiber.Ctx) error {
	out, err := h.reports.StockInvestment(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
