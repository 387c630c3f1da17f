package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError indica que la reducción solicitada supera el stock disponible.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente. Disponible: %d, Solicitado: %d", e.Available, e.Requested)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// DeleteConflictError indica que un producto no puede eliminarse porque tiene ventas asociadas.
// errors.Is(err, ErrConflict) es verdadero.
type DeleteConflictError struct {
	ProductID   string
	ProductName string
	SaleCount   int
}

func (e *DeleteConflictError) Error() string {
	return fmt.Sprintf(
		"no se puede eliminar el producto '%s' porque tiene %d registros de venta asociados; considere marcarlo como descontinuado",
		e.ProductName, e.SaleCount,
	)
}

// Is permite comparar contra el sentinel ErrConflict.
func (e *DeleteConflictError) Is(target error) bool {
	return target == ErrConflict
}
