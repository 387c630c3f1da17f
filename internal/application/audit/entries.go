// Package audit construye y consulta las entradas del log de auditoría.
// Las entradas se insertan dentro de la misma transacción que la mutación que describen.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
)

// NewEntry crea una entrada con ID y timestamp asignados.
func NewEntry(action, entityType, entityID, description, userName string, at time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:          uuid.New().String(),
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		UserName:    userName,
		Timestamp:   at,
	}
}

// ProductCreated entrada CREATE de un producto.
func ProductCreated(p *entity.Product, userName string, at time.Time) *entity.AuditLog {
	return NewEntry(entity.AuditActionCreate, entity.AuditEntityProduct, p.ID,
		"Producto creado: "+p.Name, userName, at)
}

// ProductUpdated entrada UPDATE de un producto.
func ProductUpdated(p *entity.Product, userName string, at time.Time) *entity.AuditLog {
	return NewEntry(entity.AuditActionUpdate, entity.AuditEntityProduct, p.ID,
		"Producto actualizado: "+p.Name, userName, at)
}

// ProductDeleted entrada DELETE de un producto.
func ProductDeleted(p *entity.Product, userName string, at time.Time) *entity.AuditLog {
	return NewEntry(entity.AuditActionDelete, entity.AuditEntityProduct, p.ID,
		"Producto eliminado: "+p.Name, userName, at)
}

// StockAdjusted entrada STOCK_ADJUSTMENT con el valor anterior y el nuevo.
func StockAdjusted(p *entity.Product, oldQty, newQty int, userName string, at time.Time) *entity.AuditLog {
	e := NewEntry(entity.AuditActionStockAdjustment, entity.AuditEntityProduct, p.ID,
		fmt.Sprintf("Stock ajustado para %s: %d → %d", p.Name, oldQty, newQty), userName, at)
	e.Details = details(map[string]any{"old_quantity": oldQty, "new_quantity": newQty})
	return e
}

// SalesDeleted entrada DELETE_SALES al forzar la eliminación de un producto.
// No apunta a una venta concreta: EntityID queda vacío y el producto va en Details.
func SalesDeleted(p *entity.Product, count int, userName string, at time.Time) *entity.AuditLog {
	e := NewEntry(entity.AuditActionDeleteSales, entity.AuditEntitySaleRecord, "",
		fmt.Sprintf("Se eliminaron %d registros de venta del producto: %s", count, p.Name), userName, at)
	e.Details = details(map[string]any{"product_id": p.ID, "count": count})
	return e
}

// SaleRecorded entrada SALE para una venta nueva.
func SaleRecorded(s *entity.SaleRecord, userName string, at time.Time) *entity.AuditLog {
	e := NewEntry(entity.AuditActionSale, entity.AuditEntitySaleRecord, s.ID,
		fmt.Sprintf("Venta registrada: %d unidades de %s", s.QuantitySold, s.ProductName), userName, at)
	e.Details = details(map[string]any{
		"product_id":   s.ProductID,
		"quantity":     s.QuantitySold,
		"total_amount": s.TotalAmount.StringFixed(2),
	})
	return e
}

func details(v map[string]any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
