package orders

import (
	"context"
	"errors"
	"time"

	"github.com/thor8126/ProShop/models"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrInvalidInput = errors.New("invalid order input")
)

// Store persists order records. Orders are created once with items and
// pricing fixed; afterwards only the two status flag pairs change.
type Store interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// MarkPaid sets is_paid unconditionally: a replayed callback
	// produces a second write with a fresh timestamp. There is no
	// dedupe guard; that gap is a documented limitation.
	MarkPaid(ctx context.Context, orderID string, at time.Time) (*models.Order, error)
	MarkDelivered(ctx context.Context, orderID string, at time.Time) (*models.Order, error)
}
