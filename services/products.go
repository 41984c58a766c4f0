package services

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/pkg/errors"
)

// ProductService covers the catalog plus the wishlist and cart mutations the
// product service owns.
type ProductService struct {
	c *Client
}

func (s *ProductService) url(parts ...string) string {
	return join(s.c.urls.GetProductServiceURL(), parts...)
}

// List returns every product.
func (s *ProductService) List(ctx context.Context) ([]Product, error) {
	var resp productsResponse
	err := s.c.do(ctx, call{
		op:     "Products.List",
		method: http.MethodGet,
		url:    s.c.urls.GetProductServiceURL() + "/",
		out:    &resp,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, "[Products.Get] product id is required")
	}
	var p Product
	err := s.c.do(ctx, call{
		op:     "Products.Get",
		method: http.MethodGet,
		url:    s.url(id),
		out:    &p,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ByCategory returns the products of one category.
func (s *ProductService) ByCategory(ctx context.Context, category string) ([]Product, error) {
	var products []Product
	err := s.c.do(ctx, call{
		op:     "Products.ByCategory",
		method: http.MethodGet,
		url:    s.url("category", category),
		out:    &products,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create adds a product owned by the authenticated seller.
func (s *ProductService) Create(ctx context.Context, p Product) (*Product, error) {
	var out Product
	err := s.c.do(ctx, call{
		op:     "Products.Create",
		method: http.MethodPost,
		url:    s.url("product", "create"),
		body:   p,
		out:    &out,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a product. Only its seller may do so.
func (s *ProductService) Update(ctx context.Context, id string, p Product) (*Product, error) {
	if id == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, "[Products.Update] product id is required")
	}
	p.ID = ""
	var out Product
	err := s.c.do(ctx, call{
		op:           "Products.Update",
		method:       http.MethodPut,
		url:          s.url("product", id),
		body:         p,
		out:          &out,
		authed:       true,
		forbiddenMsg: MsgUpdateNotOwner,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a product. Deleting another seller's product fails with
// ErrForbidden and MsgDeleteNotOwner.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.Wrap(apperrors.ErrInvalidRequest, "[Products.Delete] product id is required")
	}
	err := s.c.do(ctx, call{
		op:           "Products.Delete",
		method:       http.MethodDelete,
		url:          s.url("product", id),
		authed:       true,
		forbiddenMsg: MsgDeleteNotOwner,
	})
	var rerr *RemoteError
	if errors.As(err, &rerr) && rerr.Status == 0 {
		// the service reports ownership failures in a 2xx error body
		return &RemoteError{Op: rerr.Op, Message: MsgDeleteNotOwner, Kind: apperrors.ErrForbidden}
	}
	return err
}

// AddToWishlist adds a product to the user's server-side wishlist.
func (s *ProductService) AddToWishlist(ctx context.Context, id string) error {
	return s.c.do(ctx, call{
		op:     "Products.AddToWishlist",
		method: http.MethodPut,
		url:    s.url("wishlist"),
		body:   ProductRef{ID: id},
		authed: true,
	})
}

// RemoveFromWishlist removes a product from the user's server-side wishlist.
func (s *ProductService) RemoveFromWishlist(ctx context.Context, id string) error {
	return s.c.do(ctx, call{
		op:     "Products.RemoveFromWishlist",
		method: http.MethodDelete,
		url:    s.url("wishlist", id),
		authed: true,
	})
}

// Wishlist returns the user's server-side wishlist.
func (s *ProductService) Wishlist(ctx context.Context) ([]Product, error) {
	var products []Product
	err := s.c.do(ctx, call{
		op:     "Products.Wishlist",
		method: http.MethodGet,
		url:    s.url("wishlist"),
		out:    &products,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// AddToCart puts quantity units of a product in the user's cart.
func (s *ProductService) AddToCart(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return errors.Wrapf(apperrors.ErrInvalidRequest, "[Products.AddToCart] quantity must be positive, got %d", quantity)
	}
	return s.c.do(ctx, call{
		op:     "Products.AddToCart",
		method: http.MethodPut,
		url:    s.url("cart"),
		body:   cartMutation{Product: ProductRef{ID: id}, Amount: quantity},
		authed: true,
	})
}

// RemoveFromCart removes a product from the user's cart.
func (s *ProductService) RemoveFromCart(ctx context.Context, id string) error {
	return s.c.do(ctx, call{
		op:     "Products.RemoveFromCart",
		method: http.MethodDelete,
		url:    s.url("cart", id),
		authed: true,
	})
}
