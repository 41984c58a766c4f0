package services

import (
	"context"
	"net/http"
)

// ShoppingService covers cart retrieval and order creation.
type ShoppingService struct {
	c *Client
}

// Cart returns the user's cart documents. The service answers with a list
// whose first element is the active cart.
func (s *ShoppingService) Cart(ctx context.Context) ([]Cart, error) {
	var carts []Cart
	err := s.c.do(ctx, call{
		op:     "Shopping.Cart",
		method: http.MethodGet,
		url:    join(s.c.urls.GetShoppingServiceURL(), "cart"),
		out:    &carts,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return carts, nil
}

// CreateOrder submits an order.
func (s *ShoppingService) CreateOrder(ctx context.Context, order Order) error {
	return s.c.do(ctx, call{
		op:     "Shopping.CreateOrder",
		method: http.MethodPost,
		url:    join(s.c.urls.GetShoppingServiceURL(), "order"),
		body:   order,
		authed: true,
	})
}
