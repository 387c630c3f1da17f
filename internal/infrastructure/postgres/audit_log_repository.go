package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	"github.com/jhoicas/inventory-optimizer/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

const auditSelect = `
	SELECT id, action, entity_type, entity_id, description, user_name, logged_at, details
	FROM audit_logs`

const auditOrder = ` ORDER BY logged_at DESC, id DESC`

// AuditLogRepo log de auditoría append-only sobre PostgreSQL.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, action, entity_type, entity_id, description, user_name, logged_at, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.Action, e.EntityType, e.EntityID, e.Description, e.UserName, e.Timestamp, e.Details,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *AuditLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, error) {
	return r.query(ctx, auditSelect+auditOrder+` LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *AuditLogRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit logs: %w", err)
	}
	return n, nil
}

func (r *AuditLogRepo) ListByAction(ctx context.Context, action string) ([]*entity.AuditLog, error) {
	return r.query(ctx, auditSelect+` WHERE action = $1`+auditOrder, action)
}

func (r *AuditLogRepo) ListByEntityType(ctx context.Context, entityType string) ([]*entity.AuditLog, error) {
	return r.query(ctx, auditSelect+` WHERE entity_type = $1`+auditOrder, entityType)
}

func (r *AuditLogRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	return r.query(ctx, auditSelect+` WHERE entity_type = $1 AND entity_id = $2`+auditOrder, entityType, entityID)
}

func (r *AuditLogRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.AuditLog, error) {
	return r.query(ctx, auditSelect+` WHERE logged_at >= $1 AND logged_at <= $2`+auditOrder, start, end)
}

func (r *AuditLogRepo) ListByUser(ctx context.Context, userName string) ([]*entity.AuditLog, error) {
	return r.query(ctx, auditSelect+` WHERE user_name = $1`+auditOrder, userName)
}

func (r *AuditLogRepo) query(ctx context.Context, query string, args ...any) ([]*entity.AuditLog, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.AuditLog, 0)
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanAudit(row pgx.Row) (*entity.AuditLog, error) {
	var e entity.AuditLog
	if err := row.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.Description, &e.UserName, &e.Timestamp, &e.Details); err != nil {
		return nil, err
	}
	return &e, nil
}
