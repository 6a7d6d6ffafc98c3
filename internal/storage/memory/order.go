// Package memory implements order storage that lives in process memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xenking/coffee-orders/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository with a map guarded by a
// read-write mutex. Insertion order is kept for List.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
	ids    []string
}

// NewOrderRepository returns an empty OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*order.Order)}
}

// Create stores a copy of o. Returns order.ErrAlreadyExists if the ID is taken.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	stored := o.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; ok {
		return order.ErrAlreadyExists
	}
	r.orders[o.ID] = &stored
	r.ids = append(r.ids, o.ID)
	return nil
}

// Get returns a copy of the order with the given ID.
func (r *OrderRepository) Get(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	out := o.Clone()
	return &out, nil
}

// List returns copies of all orders in insertion order.
func (r *OrderRepository) List(_ context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]order.Order, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.orders[id].Clone())
	}
	return out, nil
}

// UpdateStatus sets the status of an order under the write lock.
func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status order.Status) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	o.Status = status
	out := o.Clone()
	return &out, nil
}

// Delete removes an order if guard accepts its current state. The guard sees
// a copy and runs under the write lock.
func (r *OrderRepository) Delete(_ context.Context, id string, guard func(order.Order) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	if guard != nil {
		if err := guard(o.Clone()); err != nil {
			return err
		}
	}
	delete(r.orders, id)
	if i := slices.Index(r.ids, id); i >= 0 {
		r.ids = slices.Delete(r.ids, i, i+1)
	}
	return nil
}

// Count returns the number of stored orders.
func (r *OrderRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.orders), nil
}
