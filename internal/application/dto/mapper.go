package dto

import "github.com/jhoicas/inventory-optimizer/internal/domain/entity"

// FromProduct convierte la entidad en su representación de salida.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		SKU:               p.SKU,
		QuantityOnHand:    p.QuantityOnHand,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		Price:             p.Price,
		CostPrice:         p.CostPrice,
		Discontinued:      p.Discontinued,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// FromProducts convierte una lista de productos; nunca devuelve nil.
func FromProducts(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromProduct(p))
	}
	return out
}

// FromSaleRecord convierte una venta en su representación de salida.
func FromSaleRecord(s *entity.SaleRecord) SaleRecordResponse {
	return SaleRecordResponse{
		ID:           s.ID,
		ProductID:    s.ProductID,
		ProductName:  s.ProductName,
		QuantitySold: s.QuantitySold,
		UnitPrice:    s.UnitPrice,
		TotalAmount:  s.TotalAmount,
		Timestamp:    s.Timestamp,
		CustomerName: s.CustomerName,
		Notes:        s.Notes,
	}
}

// FromSaleRecords convierte una lista de ventas; nunca devuelve nil.
func FromSaleRecords(list []*entity.SaleRecord) []SaleRecordResponse {
	out := make([]SaleRecordResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromSaleRecord(s))
	}
	return out
}

// FromAuditLogs convierte entradas de auditoría; nunca devuelve nil.
func FromAuditLogs(list []*entity.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, 0, len(list))
	for _, e := range list {
		out = append(out, AuditLogResponse{
			ID:          e.ID,
			Action:      e.Action,
			EntityType:  e.EntityType,
			EntityID:    e.EntityID,
			Description: e.Description,
			UserName:    e.UserName,
			Timestamp:   e.Timestamp,
			Details:     e.Details,
		})
	}
	return out
}
