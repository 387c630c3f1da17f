package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-optimizer/internal/application/audit"
)

// DigestHeader cabecera con el digest SHA-256 del documento exportado.
const DigestHeader = "X-Content-Digest"

// AuditHandler consultas del log de auditoría (solo lectura, protegido).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Log de auditoría paginado
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        page  query  int  false  "Página (base 0)"  default(0)
// @Param        size  query  int  false  "Tamaño de página"  default(50)
// @Success      200  {object}  dto.AuditLogPageResponse
// @Router       /api/logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.QueryInt("page", 0), c.QueryInt("size", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByAction godoc
// @Summary      Entradas por acción
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        action  path  string  true  "CREATE, UPDATE, DELETE, SALE, STOCK_ADJUSTMENT, DELETE_SALES"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/logs/action/{action} [get]
func (h *AuditHandler) ByAction(c *fiber.Ctx) error {
	out, err := h.uc.ByAction(c.UserContext(), c.Params("action"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByEntityType godoc
// @Summary      Entradas por tipo de entidad
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        entityType  path  string  true  "PRODUCT o SALE_RECORD"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/logs/entity/{entityType} [get]
func (h *AuditHandler) ByEntityType(c *fiber.Ctx) error {
	out, err := h.uc.ByEntityType(c.UserContext(), c.Params("entityType"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByEntity godoc
// @Summary      Historial de una entidad
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        entityType  path  string  true  "PRODUCT o SALE_RECORD"
// @Param        entityId    path  string  true  "ID de la entidad"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/logs/entity/{entityType}/{entityId} [get]
func (h *AuditHandler) ByEntity(c *fiber.Ctx) error {
	out, err := h.uc.ByEntity(c.UserContext(), c.Params("entityType"), c.Params("entityId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByDateRange godoc
// @Summary      Entradas en un rango de fechas
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  true  "Inicio (RFC 3339)"
// @Param        endDate    query  string  true  "Fin (RFC 3339)"
// @Success      200  {array}   dto.AuditLogResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/logs/date-range [get]
func (h *AuditHandler) ByDateRange(c *fiber.Ctx) error {
	start, end, ok := parseRange(c)
	if !ok {
		return invalidParam(c, "startDate y endDate son requeridos en formato RFC 3339")
	}
	out, err := h.uc.ByDateRange(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByUser godoc
// @Summary      Entradas registradas por un usuario
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        userName  path  string  true  "Usuario"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/logs/user/{userName} [get]
func (h *AuditHandler) ByUser(c *fiber.Ctx) error {
	out, err := h.uc.ByUser(c.UserContext(), c.Params("userName"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar log a XML canónico
// @Description  Documento C14N con el digest SHA-256 (base64) en la cabecera X-Content-Digest.
// @Tags         logs
// @Security     Bearer
// @Produce      xml
// @Param        startDate  query  string  true  "Inicio (RFC 3339)"
// @Param        endDate    query  string  true  "Fin (RFC 3339)"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/logs/export.xml [get]
func (h *AuditHandler) Export(c *fiber.Ctx) error {
	start, end, ok := parseRange(c)
	if !ok {
		return invalidParam(c, "startDate y endDate son requeridos en formato RFC 3339")
	}
	doc, digest, err := h.uc.Export(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(DigestHeader, "SHA-256="+digest)
	return c.Send(doc)
}
