package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-optimizer/internal/application/analytics"
	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
)

// SummaryRenderer genera la representación PDF del resumen financiero.
type SummaryRenderer interface {
	Generate(ctx context.Context, summary *dto.SummaryResponse) ([]byte, error)
}

// ReportHandler resumen financiero en JSON y PDF (protegido).
type ReportHandler struct {
	uc       *analytics.ReportUseCase
	renderer SummaryRenderer
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase, renderer SummaryRenderer) *ReportHandler {
	return &ReportHandler{uc: uc, renderer: renderer}
}

// Summary godoc
// @Summary      Resumen financiero
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Resumen financiero en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/reports/summary.pdf [get]
func (h *ReportHandler) SummaryPDF(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.renderer.Generate(c.UserContext(), summary)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="resumen-%s.pdf"`, summary.GeneratedAt.Format("20060102")))
	return c.Send(doc)
}
