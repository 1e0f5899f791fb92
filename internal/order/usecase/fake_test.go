package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	productdto "github.com/fekuna/omnipos-order-service/internal/product/dto"
)

// memStore is an in-memory order store. Transact serialises on one mutex and applies
// changes only when fn succeeds.
type memStore struct {
	mu       sync.Mutex
	orders   map[string]model.Order
	lines    map[string][]model.OrderLine
	products map[string]model.Product

	failDecrement map[string]error
	lastFilters   *dto.OrderFilters
}

func newMemStore() *memStore {
	return &memStore{
		orders:        map[string]model.Order{},
		lines:         map[string][]model.OrderLine{},
		products:      map[string]model.Product{},
		failDecrement: map[string]error{},
	}
}

func (s *memStore) addProduct(p model.Product) {
	s.products[p.ID] = p
}

func (s *memStore) addOrder(o model.Order, lines ...model.OrderLine) {
	for i := range lines {
		lines[i].OrderID = o.ID
	}
	s.orders[o.ID] = o
	s.lines[o.ID] = lines
}

func (s *memStore) stock(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].StockQuantity
}

func (s *memStore) status(orderID string) model.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[orderID].Status
}

func (s *memStore) withProducts(lines []model.OrderLine, stock map[string]int) []model.OrderLine {
	out := make([]model.OrderLine, len(lines))
	for i, l := range lines {
		l.Product = s.products[l.ProductID]
		if stock != nil {
			l.Product.StockQuantity = stock[l.ProductID]
		}
		out[i] = l
	}
	return out
}

func (s *memStore) FindByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Lines = s.withProducts(s.lines[id], nil)
	return &o, nil
}

func (s *memStore) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilters = f

	var out []model.Order
	for _, o := range s.orders {
		if f.ClientID != "" && o.ClientID != f.ClientID {
			continue
		}
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, o.Status) {
			continue
		}
		if f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && o.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		o.Lines = s.withProducts(s.lines[o.ID], nil)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func hasStatus(statuses []model.OrderStatus, s model.OrderStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (s *memStore) Transact(ctx context.Context, fn func(tx order.TxRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, stock: map[string]int{}, status: map[string]model.OrderStatus{}}
	for id, p := range s.products {
		tx.stock[id] = p.StockQuantity
	}
	for id, o := range s.orders {
		tx.status[id] = o.Status
	}

	if err := fn(tx); err != nil {
		return err
	}

	for id, qty := range tx.stock {
		p := s.products[id]
		p.StockQuantity = qty
		s.products[id] = p
	}
	for id, st := range tx.status {
		o := s.orders[id]
		o.Status = st
		s.orders[id] = o
	}
	return nil
}

type memTx struct {
	store  *memStore
	stock  map[string]int
	status map[string]model.OrderStatus
}

func (t *memTx) LockOrder(ctx context.Context, id string) (*model.Order, error) {
	o, ok := t.store.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = t.status[id]
	return &o, nil
}

func (t *memTx) LockLines(ctx context.Context, orderID string) ([]model.OrderLine, error) {
	lines := t.store.withProducts(t.store.lines[orderID], t.stock)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

func (t *memTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if err := t.store.failDecrement[productID]; err != nil {
		return err
	}
	if t.stock[productID] < quantity {
		return &pricing.StockShortageError{ProductID: productID, Requested: quantity, Available: t.stock[productID]}
	}
	t.stock[productID] -= quantity
	return nil
}

func (t *memTx) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if _, ok := t.status[orderID]; !ok {
		return errors.New("no such order")
	}
	t.status[orderID] = status
	return nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]string
	attempts int
	busy     bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]string{}}
}

func (l *fakeLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts++
	if l.busy {
		return false, nil
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocker) ReleaseLock(ctx context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == value {
		delete(l.held, key)
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []order.OrderConfirmedEvent
	keys   []string
}

func (p *fakePublisher) Publish(ctx context.Context, key string, v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, v.(order.OrderConfirmedEvent))
	return nil
}

type fakeIndexer struct {
	mu       sync.Mutex
	synced   []model.Product
	reindexN int
}

func (f *fakeIndexer) SyncStock(ctx context.Context, products []model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, products...)
	return nil
}

func (f *fakeIndexer) ReindexProduct(ctx context.Context, id string) error {
	return nil
}

func (f *fakeIndexer) Reindex(ctx context.Context, filters *productdto.ProductFilters) (int, error) {
	return f.reindexN, nil
}
