// Package memory implementa los puertos de repositorio en memoria.
// Lo usan las pruebas de los casos de uso y del API; TxRunner serializa las
// transacciones y restaura el estado previo si la función devuelve error.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/inventory-optimizer/internal/domain/entity"
	"github.com/jhoicas/inventory-optimizer/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Store guarda productos, ventas, auditoría y usuarios.
type Store struct {
	mu       sync.Mutex
	products map[string]entity.Product
	sales    []entity.SaleRecord
	audits   []entity.AuditLog
	users    map[string]entity.User

	auditErr error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		users:    make(map[string]entity.User),
	}
}

// FailAuditWith hace que las siguientes inserciones de auditoría fallen con err (nil las reactiva).
func (s *Store) FailAuditWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditErr = err
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// AuditLogs repositorio de auditoría fuera de transacción.
func (s *Store) AuditLogs() *AuditRepo { return &AuditRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// TxRunner devuelve un TxRunner sobre este store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

type snapshot struct {
	products map[string]entity.Product
	sales    []entity.SaleRecord
	audits   []entity.AuditLog
}

func (s *Store) snapshot() snapshot {
	products := make(map[string]entity.Product, len(s.products))
	for k, v := range s.products {
		products[k] = v
	}
	return snapshot{
		products: products,
		sales:    append([]entity.SaleRecord(nil), s.sales...),
		audits:   append([]entity.AuditLog(nil), s.audits...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.sales = snap.sales
	s.audits = snap.audits
}

// TxRunner ejecuta fn con el store bloqueado; si fn falla se descartan sus cambios.
type TxRunner struct {
	s *Store
}

// Run implementa inventory.TxRunner.
func (t *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRecordRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	err := fn(
		&ProductRepo{s: t.s, inTx: true},
		&SaleRepo{s: t.s, inTx: true},
		&AuditRepo{s: t.s, inTx: true},
	)
	if err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// lock toma el mutex salvo cuando el repo está atado a una transacción (ya lo tiene).
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[p.ID]; !ok {
		return nil
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.QuantityOnHand = quantity
	r.s.products[id] = p
	return nil
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	all, _ := r.ListAll(ctx)
	if offset >= len(all) {
		return []*entity.Product{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	all, _ := r.ListAll(ctx)
	out := make([]*entity.Product, 0)
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) Count(_ context.Context) (int, error) {
	defer r.s.lock(r.inTx)()
	return len(r.s.products), nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.products, id)
	return nil
}

// SaleRepo implementa repository.SaleRecordRepository.
type SaleRepo struct {
	s    *Store
	inTx bool
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.SaleRecord) error {
	defer r.s.lock(r.inTx)()
	r.s.sales = append(r.s.sales, *sale)
	return nil
}

// filter copia las ventas que cumplen keep, con el nombre de producto actual, en orden cronológico.
func (r *SaleRepo) filter(keep func(entity.SaleRecord) bool) []*entity.SaleRecord {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.SaleRecord, 0)
	for _, sale := range r.s.sales {
		if !keep(sale) {
			continue
		}
		sale := sale
		if p, ok := r.s.products[sale.ProductID]; ok {
			sale.ProductName = p.Name
		}
		out = append(out, &sale)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func reverseSales(list []*entity.SaleRecord) []*entity.SaleRecord {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list
}

func (r *SaleRepo) ListAll(_ context.Context) ([]*entity.SaleRecord, error) {
	return reverseSales(r.filter(func(entity.SaleRecord) bool { return true })), nil
}

func (r *SaleRepo) ListRecent(ctx context.Context, limit int) ([]*entity.SaleRecord, error) {
	all, _ := r.ListAll(ctx)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *SaleRepo) ListByProduct(_ context.Context, productID string) ([]*entity.SaleRecord, error) {
	return r.filter(func(s entity.SaleRecord) bool { return s.ProductID == productID }), nil
}

func (r *SaleRepo) ListBetween(_ context.Context, start, end time.Time) ([]*entity.SaleRecord, error) {
	return r.filter(func(s entity.SaleRecord) bool {
		return !s.Timestamp.Before(start) && !s.Timestamp.After(end)
	}), nil
}

func (r *SaleRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	list, _ := r.ListByProduct(ctx, productID)
	return len(list), nil
}

func (r *SaleRepo) DeleteByProduct(_ context.Context, productID string) (int, error) {
	defer r.s.lock(r.inTx)()
	kept := r.s.sales[:0:0]
	deleted := 0
	for _, sale := range r.s.sales {
		if sale.ProductID == productID {
			deleted++
			continue
		}
		kept = append(kept, sale)
	}
	r.s.sales = kept
	return deleted, nil
}

func (r *SaleRepo) SumByProduct(ctx context.Context, productID string) (decimal.Decimal, int, error) {
	list, _ := r.ListByProduct(ctx, productID)
	total := decimal.Zero
	qty := 0
	for _, s := range list {
		total = total.Add(s.TotalAmount)
		qty += s.QuantitySold
	}
	return total, qty, nil
}

// AuditRepo implementa repository.AuditLogRepository.
type AuditRepo struct {
	s    *Store
	inTx bool
}

func (r *AuditRepo) Create(_ context.Context, entry *entity.AuditLog) error {
	defer r.s.lock(r.inTx)()
	if r.s.auditErr != nil {
		return r.s.auditErr
	}
	r.s.audits = append(r.s.audits, *entry)
	return nil
}

// filter devuelve las entradas que cumplen keep, más recientes primero.
func (r *AuditRepo) filter(keep func(entity.AuditLog) bool) []*entity.AuditLog {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.AuditLog, 0)
	for i := len(r.s.audits) - 1; i >= 0; i-- {
		e := r.s.audits[i]
		if keep(e) {
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func (r *AuditRepo) List(_ context.Context, limit, offset int) ([]*entity.AuditLog, error) {
	all := r.filter(func(entity.AuditLog) bool { return true })
	if offset >= len(all) {
		return []*entity.AuditLog{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *AuditRepo) Count(_ context.Context) (int, error) {
	defer r.s.lock(r.inTx)()
	return len(r.s.audits), nil
}

func (r *AuditRepo) ListByAction(_ context.Context, action string) ([]*entity.AuditLog, error) {
	return r.filter(func(e entity.AuditLog) bool { return e.Action == action }), nil
}

func (r *AuditRepo) ListByEntityType(_ context.Context, entityType string) ([]*entity.AuditLog, error) {
	return r.filter(func(e entity.AuditLog) bool { return e.EntityType == entityType }), nil
}

func (r *AuditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	return r.filter(func(e entity.AuditLog) bool {
		return e.EntityType == entityType && e.EntityID == entityID
	}), nil
}

func (r *AuditRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]*entity.AuditLog, error) {
	return r.filter(func(e entity.AuditLog) bool {
		return !e.Timestamp.Before(start) && !e.Timestamp.After(end)
	}), nil
}

func (r *AuditRepo) ListByUser(_ context.Context, userName string) ([]*entity.AuditLog, error) {
	return r.filter(func(e entity.AuditLog) bool { return e.UserName == userName }), nil
}

// UserRepo implementa repository.UserRepository.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

var (
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.SaleRecordRepository = (*SaleRepo)(nil)
	_ repository.AuditLogRepository   = (*AuditRepo)(nil)
	_ repository.UserRepository       = (*UserRepo)(nil)
)
