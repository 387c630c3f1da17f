package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-optimizer/internal/application/analytics"
	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/application/inventory"
)

// SaleHandler registro de ventas y reportes de ingresos (protegido).
type SaleHandler struct {
	sales   *inventory.SaleRecorder
	reports *analytics.ReportUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(sales *inventory.SaleRecorder, reports *analytics.ReportUseCase) *SaleHandler {
	return &SaleHandler{sales: sales, reports: reports}
}

// Record godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de forma atómica. Si no hay stock suficiente responde 400 con available/requested.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleRecordResponse
// @Failure      400   {object}  dto.InsufficientStockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	sale, err := h.sales.RecordSaleFromRequest(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSaleRecord(sale))
}

// Quick godoc
// @Summary      Venta rápida
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        productId     query  string  true  "ID del producto"
// @Param        quantitySold  query  int     true  "Unidades"
// @Success      201  {object}  dto.SaleRecordResponse
// @Failure      400  {object}  dto.InsufficientStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/quick [post]
func (h *SaleHandler) Quick(c *fiber.Ctx) error {
	var in dto.QuickSaleRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidParam(c, "parámetros de consulta inválidos")
	}
	if err := validate.Struct(&in); err != nil {
		return validationError(c, err)
	}
	sale, err := h.sales.RecordQuickSale(c.UserContext(), GetUsername(c), in.ProductID, in.QuantitySold)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSaleRecord(sale))
}

// List godoc
// @Summary      Listar ventas (más recientes primero)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleRecordResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	list, err := h.sales.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromSaleRecords(list))
}

// Recent godoc
// @Summary      Ventas recientes
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad"  default(10)
// @Success      200  {array}  dto.SaleRecordResponse
// @Router       /api/sales/recent [get]
func (h *SaleHandler) Recent(c *fiber.Ctx) error {
	list, err := h.sales.ListRecent(c.UserContext(), c.QueryInt("limit", inventory.DefaultRecentSales))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromSaleRecords(list))
}

// ByProduct godoc
// @Summary      Ventas de un producto
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}   dto.SaleRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/product/{productId} [get]
func (h *SaleHandler) ByProduct(c *fiber.Ctx) error {
	list, err := h.sales.ListByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromSaleRecords(list))
}

// DailyTrend godoc
// @Summary      Tendencia diaria de ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(30)
// @Success      200  {object}  dto.DailyTrendResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/history/daily-trend [get]
func (h *SaleHandler) DailyTrend(c *fiber.Ctx) error {
	out, err := h.reports.DailyTrend(c.UserContext(), c.QueryInt("days", analytics.DefaultTrendDays))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TotalRevenue godoc
// @Summary      Ingresos totales
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RevenueResponse
// @Router       /api/sales/revenue/total [get]
func (h *SaleHandler) TotalRevenue(c *fiber.Ctx) error {
	out, err := h.reports.TotalRevenue(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RevenueForPeriod godoc
// @Summary      Ingresos de un período
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  true  "Inicio (RFC 3339)"
// @Param        endDate    query  string  true  "Fin (RFC 3339)"
// @Success      200  {object}  dto.RevenueResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/revenue/period [get]
func (h *SaleHandler) RevenueForPeriod(c *fiber.Ctx) error {
	start, end, ok := parseRange(c)
	if !ok {
		return invalidParam(c, "startDate y endDate son requeridos en formato RFC 3339")
	}
	out, err := h.reports.RevenueForPeriod(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseRange lee startDate y endDate (RFC 3339) de la query.
func parseRange(c *fiber.Ctx) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, c.Query("startDate"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, c.Query("endDate"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
