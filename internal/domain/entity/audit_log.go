package entity

import "time"

// Acciones registradas en el log de auditoría.
const (
	AuditActionCreate          = "CREATE"
	AuditActionUpdate          = "UPDATE"
	AuditActionDelete          = "DELETE"
	AuditActionSale            = "SALE"
	AuditActionStockAdjustment = "STOCK_ADJUSTMENT"
	AuditActionDeleteSales     = "DELETE_SALES"
)

// Tipos de entidad referenciados por el log.
const (
	AuditEntityProduct    = "PRODUCT"
	AuditEntitySaleRecord = "SALE_RECORD"
)

// AuditLog entrada inmutable del log de auditoría (append-only).
// EntityID no tiene FK: la entrada sobrevive a la eliminación de la entidad.
type AuditLog struct {
	ID          string
	Action      string
	EntityType  string
	EntityID    string // vacío si la acción afecta a varias entidades
	Description string
	UserName    string
	Timestamp   time.Time
	Details     string // JSON opcional
}
