// Package cart aggregates the user's cart line items into totals and orders.
package cart

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/jrsteele09/go-shop-client/services"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Product is the part of a product a cart line needs.
type Product struct {
	ID          string
	Name        string
	Price       float64
	Image       string
	Description string
}

// LineItem is one product in the cart with its quantity.
type LineItem struct {
	Product Product
	Amount  int
}

// Shopping is the remote shopping service.
type Shopping interface {
	Cart(ctx context.Context) ([]services.Cart, error)
	CreateOrder(ctx context.Context, order services.Order) error
}

// ComputeTotal returns the sum of price times amount over items, formatted
// with exactly two decimals. An empty cart totals "0.00".
func ComputeTotal(items []LineItem) string {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Amount)))
		total = total.Add(line)
	}
	return total.StringFixed(2)
}

// BuildOrder turns items into a pending order carrying only product IDs and
// quantities.
func BuildOrder(items []LineItem) services.Order {
	order := services.Order{
		Items:  make([]services.OrderItem, 0, len(items)),
		Amount: ComputeTotal(items),
		Status: services.OrderStatusPending,
	}
	for _, item := range items {
		order.Items = append(order.Items, services.OrderItem{
			Product: services.ProductRef{ID: item.Product.ID},
			Amount:  item.Amount,
		})
	}
	return order
}

// Aggregator holds the last fetched cart and places orders from it.
type Aggregator struct {
	shopping Shopping

	lock  sync.RWMutex
	items []LineItem
}

func New(shopping Shopping) (*Aggregator, error) {
	if shopping == nil {
		return nil, errors.New("[cart.New] shopping service is required")
	}
	return &Aggregator{shopping: shopping}, nil
}

// Refresh fetches the cart from the shopping service. The user's cart is the
// first cart document returned. On failure the previous items are kept.
func (a *Aggregator) Refresh(ctx context.Context) error {
	carts, err := a.shopping.Cart(ctx)
	if err != nil {
		return errors.Wrap(err, "[Aggregator.Refresh] fetch cart")
	}

	var items []LineItem
	if len(carts) > 0 {
		items = make([]LineItem, 0, len(carts[0].Items))
		for _, ci := range carts[0].Items {
			items = append(items, LineItem{
				Product: Product{
					ID:          ci.Product.ID,
					Name:        ci.Product.Name,
					Price:       ci.Product.Price,
					Image:       ci.Product.Img,
					Description: ci.Product.Desc,
				},
				Amount: ci.Amount,
			})
		}
	}

	a.lock.Lock()
	a.items = items
	a.lock.Unlock()
	return nil
}

// Items returns a copy of the last fetched line items.
func (a *Aggregator) Items() []LineItem {
	a.lock.RLock()
	defer a.lock.RUnlock()
	return slices.Clone(a.items)
}

// Total is ComputeTotal over the last fetched items.
func (a *Aggregator) Total() string {
	return ComputeTotal(a.Items())
}

// PlaceOrder submits items as a pending order and re-fetches the cart. An
// empty cart fails with ErrEmptyCart before any network call.
func (a *Aggregator) PlaceOrder(ctx context.Context, items []LineItem) error {
	if len(items) == 0 {
		return errors.Wrap(apperrors.ErrEmptyCart, "[Aggregator.PlaceOrder]")
	}
	for _, item := range items {
		if item.Product.ID == "" || item.Amount <= 0 {
			return errors.Wrapf(apperrors.ErrInvalidRequest, "[Aggregator.PlaceOrder] bad line item %q x %d", item.Product.ID, item.Amount)
		}
	}

	order := BuildOrder(items)
	if err := a.shopping.CreateOrder(ctx, order); err != nil {
		return errors.Wrap(err, "[Aggregator.PlaceOrder] submit order")
	}
	log.Info().Int("items", len(order.Items)).Str("amount", order.Amount).Msg("order placed")

	if err := a.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("cart refresh after order failed")
	}
	return nil
}
