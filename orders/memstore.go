package orders

import (
	"context"
	"sync"
	"time"

	"github.com/thor8126/ProShop/models"
)

// MemoryStore keeps orders in memory. It backs the tests and local
// runs without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
	seq    []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*models.Order)}
}

func (s *MemoryStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *order
	s.orders[order.OrderID] = &cp
	s.seq = append(s.seq, order.OrderID)
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, orderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []models.Order
	for _, id := range s.seq {
		if o := s.orders[id]; o.UserID == userID {
			list = append(list, *o)
		}
	}
	return list, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []models.Order
	for _, id := range s.seq {
		list = append(list, *s.orders[id])
	}
	return list, nil
}

func (s *MemoryStore) MarkPaid(_ context.Context, orderID string, at time.Time) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	order.IsPaid = true
	order.PaidAt = &at
	order.UpdatedAt = at
	cp := *order
	return &cp, nil
}

func (s *MemoryStore) MarkDelivered(_ context.Context, orderID string, at time.Time) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	order.IsDelivered = true
	order.DeliveredAt = &at
	order.UpdatedAt = at
	cp := *order
	return &cp, nil
}
