package cart_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-shop-client/cart"
	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/jrsteele09/go-shop-client/services"
	"github.com/stretchr/testify/require"
)

type fakeShopping struct {
	carts     []services.Cart
	cartErr   error
	orderErr  error
	orders    []services.Order
	cartCalls int
}

func (s *fakeShopping) Cart(ctx context.Context) ([]services.Cart, error) {
	s.cartCalls++
	if s.cartErr != nil {
		return nil, s.cartErr
	}
	return s.carts, nil
}

func (s *fakeShopping) CreateOrder(ctx context.Context, order services.Order) error {
	if s.orderErr != nil {
		return s.orderErr
	}
	s.orders = append(s.orders, order)
	s.carts = nil
	return nil
}

func lineItem(id string, price float64, amount int) cart.LineItem {
	return cart.LineItem{Product: cart.Product{ID: id, Name: "name-" + id, Price: price}, Amount: amount}
}

func TestComputeTotal(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		require.Equal(t, "0.00", cart.ComputeTotal(nil))
		require.Equal(t, "0.00", cart.ComputeTotal([]cart.LineItem{}))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		items := []cart.LineItem{lineItem("a", 10.005, 2), lineItem("b", 5, 1)}
		require.Equal(t, "25.01", cart.ComputeTotal(items))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		items := []cart.LineItem{lineItem("a", 1.1, 3)}
		before := append([]cart.LineItem(nil), items...)
		require.Equal(t, "3.30", cart.ComputeTotal(items))
		require.Equal(t, before, items)
	})
}

func TestBuildOrder(t *testing.T) {
	order := cart.BuildOrder([]cart.LineItem{lineItem("a", 2.5, 2)})
	require.Equal(t, services.Order{
		Items:  []services.OrderItem{{Product: services.ProductRef{ID: "a"}, Amount: 2}},
		Amount: "5.00",
		Status: services.OrderStatusPending,
	}, order)
}

func TestAggregator(t *testing.T) {
	ctx := context.Background()

	_, err := cart.New(nil)
	require.Error(t, err)

	setup := func(t *testing.T) (*fakeShopping, *cart.Aggregator) {
		t.Helper()
		shopping := &fakeShopping{carts: []services.Cart{{
			ID: "c1",
			Items: []services.CartItem{
				{Product: services.Product{ID: "p1", Name: "Lamp", Price: 12.5, Img: "lamp.png", Desc: "bright"}, Amount: 2},
			},
		}}}
		agg, err := cart.New(shopping)
		require.NoError(t, err)
		return shopping, agg
	}

	t.Run("refresh", func(t *testing.T) {
		_, agg := setup(t)
		require.NoError(t, agg.Refresh(ctx))
		items := agg.Items()
		require.Len(t, items, 1)
		require.Equal(t, cart.Product{ID: "p1", Name: "Lamp", Price: 12.5, Image: "lamp.png", Description: "bright"}, items[0].Product)
		require.Equal(t, "25.00", agg.Total())
	})

	t.Run("refresh failure keeps items", func(t *testing.T) {
		shopping, agg := setup(t)
		require.NoError(t, agg.Refresh(ctx))
		shopping.cartErr = apperrors.ErrTransport

		require.ErrorIs(t, agg.Refresh(ctx), apperrors.ErrTransport)
		require.Len(t, agg.Items(), 1)
	})

	t.Run("empty order makes no call", func(t *testing.T) {
		shopping, agg := setup(t)
		err := agg.PlaceOrder(ctx, nil)
		require.ErrorIs(t, err, apperrors.ErrEmptyCart)
		require.Equal(t, "your cart is empty", apperrors.ErrEmptyCart.Error())
		require.Empty(t, shopping.orders)
		require.Zero(t, shopping.cartCalls)
	})

	t.Run("order submitted and cart refetched", func(t *testing.T) {
		shopping, agg := setup(t)
		require.NoError(t, agg.Refresh(ctx))

		require.NoError(t, agg.PlaceOrder(ctx, agg.Items()))
		require.Len(t, shopping.orders, 1)
		require.Equal(t, "25.00", shopping.orders[0].Amount)
		require.Equal(t, "Pending", shopping.orders[0].Status)
		require.Equal(t, 2, shopping.cartCalls)
		require.Empty(t, agg.Items())
	})

	t.Run("order failure leaves cart", func(t *testing.T) {
		shopping, agg := setup(t)
		require.NoError(t, agg.Refresh(ctx))
		shopping.orderErr = apperrors.ErrTransport

		require.ErrorIs(t, agg.PlaceOrder(ctx, agg.Items()), apperrors.ErrTransport)
		require.Len(t, agg.Items(), 1)
		require.Equal(t, 1, shopping.cartCalls)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		shopping, agg := setup(t)
		require.ErrorIs(t, agg.PlaceOrder(ctx, []cart.LineItem{lineItem("a", 1, 0)}), apperrors.ErrInvalidRequest)
		require.Empty(t, shopping.orders)
	})
}
