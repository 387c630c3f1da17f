package audit

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
	"github.com/jhoicas/inventory-optimizer/internal/domain"
	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	"github.com/jhoicas/inventory-optimizer/internal/domain/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Exporter serializa entradas de auditoría a un documento firmado por digest.
type Exporter interface {
	Export(entries []*entity.AuditLog, start, end time.Time) (doc []byte, digest string, err error)
}

// UseCase consultas de solo lectura sobre el log de auditoría.
type UseCase struct {
	repo     repository.AuditLogRepository
	exporter Exporter
}

// NewUseCase construye el caso de uso. exporter puede ser nil si no se expone la exportación.
func NewUseCase(repo repository.AuditLogRepository, exporter Exporter) *UseCase {
	return &UseCase{repo: repo, exporter: exporter}
}

// List página del log (page base 0), más recientes primero.
func (uc *UseCase) List(ctx context.Context, page, size int) (*dto.AuditLogPageResponse, error) {
	if page < 0 {
		return nil, domain.ErrInvalidInput
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	items, err := uc.repo.List(ctx, size, page*size)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AuditLogPageResponse{
		Items:         dto.FromAuditLogs(items),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
	}, nil
}

// ByAction entradas con la acción dada (sin distinguir mayúsculas).
func (uc *UseCase) ByAction(ctx context.Context, action string) ([]dto.AuditLogResponse, error) {
	list, err := uc.repo.ListByAction(ctx, normalize(action))
	if err != nil {
		return nil, err
	}
	return dto.FromAuditLogs(list), nil
}

// ByEntityType entradas de un tipo de entidad (PRODUCT, SALE_RECORD).
func (uc *UseCase) ByEntityType(ctx context.Context, entityType string) ([]dto.AuditLogResponse, error) {
	list, err := uc.repo.ListByEntityType(ctx, normalize(entityType))
	if err != nil {
		return nil, err
	}
	return dto.FromAuditLogs(list), nil
}

// ByEntity historial de una entidad concreta.
func (uc *UseCase) ByEntity(ctx context.Context, entityType, entityID string) ([]dto.AuditLogResponse, error) {
	if entityID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByEntity(ctx, normalize(entityType), entityID)
	if err != nil {
		return nil, err
	}
	return dto.FromAuditLogs(list), nil
}

// ByDateRange entradas en [start, end].
func (uc *UseCase) ByDateRange(ctx context.Context, start, end time.Time) ([]dto.AuditLogResponse, error) {
	if start.After(end) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return dto.FromAuditLogs(list), nil
}

// ByUser entradas registradas por un usuario.
func (uc *UseCase) ByUser(ctx context.Context, userName string) ([]dto.AuditLogResponse, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByUser(ctx, userName)
	if err != nil {
		return nil, err
	}
	return dto.FromAuditLogs(list), nil
}

// Export genera el documento de exportación de [start, end] y su digest.
func (uc *UseCase) Export(ctx context.Context, start, end time.Time) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", domain.ErrInvalidInput
	}
	if start.After(end) {
		return nil, "", domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, "", err
	}
	return uc.exporter.Export(list, start, end)
}

// normalize pasa a mayúsculas los parámetros de ruta. cases.Caser no es seguro
// entre goroutines, así que se crea uno por llamada.
func normalize(s string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}
