package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

// memoryStore mimics the transactional behaviour of OrderRepository: InTx
// snapshots state and restores it when fn fails.
type memoryStore struct {
	mu          sync.Mutex
	users       map[string]domain.User
	products    map[int64]domain.Product
	orders      map[int64]domain.Order
	nextOrderID int64
	nextLineID  int64

	failLineInsert bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    map[string]domain.User{},
		products: map[int64]domain.Product{},
		orders:   map[int64]domain.Order{},
	}
}

func (m *memoryStore) addUser(id int64, email string) {
	m.users[email] = domain.User{ID: id, Name: "Cliente", Email: email, Enabled: true}
}

func (m *memoryStore) addProduct(id int64, name string, price float64, stock int) {
	m.products[id] = domain.Product{ID: id, Name: name, Description: name + " de prueba", Price: price, Stock: stock}
}

func (m *memoryStore) stock(id int64) int {
	return m.products[id].Stock
}

// deleteProduct behaves like the ON DELETE SET NULL foreign key.
func (m *memoryStore) deleteProduct(id int64) {
	delete(m.products, id)
	for oid, o := range m.orders {
		for i := range o.Lines {
			if o.Lines[i].ProductID != nil && *o.Lines[i].ProductID == id {
				o.Lines[i].ProductID = nil
			}
		}
		m.orders[oid] = o
	}
}

func (m *memoryStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make(map[int64]domain.Product, len(m.products))
	for k, v := range m.products {
		products[k] = v
	}
	orders := make(map[int64]domain.Order, len(m.orders))
	for k, v := range m.orders {
		orders[k] = v
	}
	nextOrderID, nextLineID := m.nextOrderID, m.nextLineID

	if err := fn(memoryTx{m}); err != nil {
		m.products, m.orders = products, orders
		m.nextOrderID, m.nextLineID = nextOrderID, nextLineID
		return err
	}
	return nil
}

func (m *memoryStore) FindBuyer(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return m.joined(o), nil
}

func (m *memoryStore) ListByBuyer(_ context.Context, buyerID int64, page, size int) ([]domain.Order, int64, error) {
	var matched []domain.Order
	for _, o := range m.orders {
		if o.BuyerID == buyerID {
			matched = append(matched, *m.joined(o))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	start := min(page*size, len(matched))
	end := min(start+size, len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (m *memoryStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.orders[id]; !ok {
		return false, nil
	}
	delete(m.orders, id)
	return true, nil
}

// joined returns what the LEFT JOIN read would: raw lines with current
// product name and price, and nothing for deleted products.
func (m *memoryStore) joined(o domain.Order) *domain.Order {
	lines := make([]domain.OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		stored := domain.OrderLine{ID: l.ID, Quantity: l.Quantity}
		if l.ProductID != nil {
			if p, ok := m.products[*l.ProductID]; ok {
				id := p.ID
				stored.ProductID = &id
				stored.ProductName = p.Name
				stored.UnitPrice = p.Price
			}
		}
		lines = append(lines, stored)
	}
	o.Lines = lines
	return &o
}

type memoryTx struct {
	m *memoryStore
}

func (t memoryTx) FindBuyer(ctx context.Context, email string) (*domain.User, error) {
	return t.m.FindBuyer(ctx, email)
}

func (t memoryTx) FindProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := t.m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (t memoryTx) DecrementStock(_ context.Context, productID int64, quantity int) (bool, error) {
	p, ok := t.m.products[productID]
	if !ok || p.Stock < quantity {
		return false, nil
	}
	p.Stock -= quantity
	t.m.products[productID] = p
	return true, nil
}

func (t memoryTx) InsertOrder(_ context.Context, order *domain.Order) error {
	t.m.nextOrderID++
	order.ID = t.m.nextOrderID
	stored := *order
	stored.Lines = nil
	t.m.orders[order.ID] = stored
	return nil
}

func (t memoryTx) InsertLine(_ context.Context, orderID int64, line *domain.OrderLine) error {
	if t.m.failLineInsert {
		return errors.New("connection reset by peer")
	}
	t.m.nextLineID++
	line.ID = t.m.nextLineID

	o := t.m.orders[orderID]
	o.Lines = append(o.Lines, domain.OrderLine{ID: line.ID, ProductID: line.ProductID, Quantity: line.Quantity})
	t.m.orders[orderID] = o
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
