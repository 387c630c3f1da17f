package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-optimizer/internal/application/analytics"
)

// WarmupEnqueuer encola el precalentamiento del cache de pronósticos en el worker.
type WarmupEnqueuer interface {
	EnqueueWarmup(ctx context.Context, horizonDays int) (taskID string, err error)
}

// ForecastHandler pronósticos de demanda e ingresos (protegido).
type ForecastHandler struct {
	uc             *analytics.ForecastUseCase
	enqueuer       WarmupEnqueuer
	defaultHorizon int
}

// NewForecastHandler construye el handler. enqueuer nil ejecuta el warmup en la misma petición.
func NewForecastHandler(uc *analytics.ForecastUseCase, enqueuer WarmupEnqueuer, defaultHorizon int) *ForecastHandler {
	if defaultHorizon < 1 {
		defaultHorizon = analytics.DefaultHorizonDays
	}
	return &ForecastHandler{uc: uc, enqueuer: enqueuer, defaultHorizon: defaultHorizon}
}

// Demand godoc
// @Summary      Pronóstico de demanda de un producto
// @Description  Regresión lineal sobre las ventas diarias. Con menos de 2 ventas devuelve 0 y confianza LOW.
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        days       query  int     false  "Horizonte en días"  default(7)
// @Success      200  {object}  dto.DemandForecastResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/forecasts/product/{productId} [get]
func (h *ForecastHandler) Demand(c *fiber.Ctx) error {
	out, err := h.uc.ForecastDemand(c.UserContext(), c.Params("productId"), c.QueryInt("days", h.defaultHorizon))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Revenue godoc
// @Summary      Pronóstico de ingresos
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Horizonte en días"  default(7)
// @Success      200  {object}  dto.RevenueForecastResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/forecasts/revenue [get]
func (h *ForecastHandler) Revenue(c *fiber.Ctx) error {
	out, err := h.uc.ForecastRevenue(c.UserContext(), c.QueryInt("days", h.defaultHorizon))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Warmup godoc
// @Summary      Precalentar cache de pronósticos
// @Description  Con worker configurado responde 202 con el id de la tarea; sin él calcula en línea.
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Horizonte en días"  default(7)
// @Success      200  {object}  map[string]interface{}
// @Success      202  {object}  map[string]interface{}
// @Router       /api/forecasts/warmup [post]
func (h *ForecastHandler) Warmup(c *fiber.Ctx) error {
	days := c.QueryInt("days", h.defaultHorizon)
	if days < 1 {
		return invalidParam(c, "days debe ser mayor o igual a 1")
	}
	if h.enqueuer != nil {
		id, err := h.enqueuer.EnqueueWarmup(c.UserContext(), days)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": id, "horizon_days": days})
	}
	n, err := h.uc.Warmup(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"products_warmed": n, "horizon_days": days})
}
