package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
)

// AuditLogRepository puerto del log de auditoría. Solo inserta y consulta;
// todas las consultas ordenan por timestamp descendente.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, error)
	Count(ctx context.Context) (int, error)
	ListByAction(ctx context.Context, action string) ([]*entity.AuditLog, error)
	ListByEntityType(ctx context.Context, entityType string) ([]*entity.AuditLog, error)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.AuditLog, error)
	ListByUser(ctx context.Context, userName string) ([]*entity.AuditLog, error)
}
