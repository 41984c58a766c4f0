package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-shop-client/internal/config"
	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/jrsteele09/go-shop-client/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testToken = "test-bearer-token"

type recorded struct {
	Method string
	Path   string
	Auth   string
	ReqID  string
	Body   map[string]any
}

// fakeServices serves every remote service from one httptest server.
type fakeServices struct {
	t        *testing.T
	server   *httptest.Server
	last     recorded
	handlers map[string]http.HandlerFunc
}

func newFakeServices(t *testing.T) *fakeServices {
	t.Helper()
	f := &fakeServices{t: t, handlers: map[string]http.HandlerFunc{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), ReqID: r.Header.Get("X-Request-ID")}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, &rec.Body))
		}
		f.last = rec
		if h, ok := f.handlers[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeServices) handle(pattern string, status int, body string) {
	f.handlers[pattern] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func (f *fakeServices) urls() config.ServicesConfig {
	return config.Services{
		AccountURL:  f.server.URL + "/account",
		UserURL:     f.server.URL + "/users",
		ProductURL:  f.server.URL + "/products",
		ShoppingURL: f.server.URL + "/shopping",
	}
}

type tokenFunc func() (*oauth2.Token, error)

func (f tokenFunc) Token() (*oauth2.Token, error) { return f() }

func staticTokens() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: testToken, TokenType: "Bearer"})
}

func newClient(t *testing.T, f *fakeServices, tokens oauth2.TokenSource, opts ...services.ClientOption) *services.Client {
	t.Helper()
	c, err := services.New(f.urls(), tokens, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := services.New(nil, staticTokens())
	require.Error(t, err)
	_, err = services.New(config.Services{}, nil)
	require.Error(t, err)
}

func TestClient_Headers(t *testing.T) {
	f := newFakeServices(t)
	c := newClient(t, f, staticTokens())
	ctx := context.Background()

	t.Run("authenticated call carries bearer token", func(t *testing.T) {
		_, err := c.Users.Profile(ctx)
		require.NoError(t, err)
		require.Equal(t, "Bearer "+testToken, f.last.Auth)
		require.NotEmpty(t, f.last.ReqID)
	})

	t.Run("login is public", func(t *testing.T) {
		f.handle("POST /users/login", http.StatusOK, `{"token":"abc"}`)
		tok, err := c.Users.Login(ctx, services.Credentials{Email: "a@b.c", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, "abc", tok)
		require.Empty(t, f.last.Auth)
		require.Equal(t, "a@b.c", f.last.Body["email"])
	})
}

func TestClient_Unauthorized(t *testing.T) {
	f := newFakeServices(t)
	f.handle("GET /users/profile", http.StatusUnauthorized, `{"error":"jwt expired"}`)
	var expired atomic.Int32
	c := newClient(t, f, staticTokens(), services.WithUnauthorizedHandler(func() { expired.Add(1) }))

	_, err := c.Users.Profile(context.Background())
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	require.Contains(t, err.Error(), apperrors.ErrSessionExpired.Error())
	require.Equal(t, int32(1), expired.Load())
}

func TestClient_PublicUnauthorized(t *testing.T) {
	f := newFakeServices(t)
	f.handle("POST /account/signup", http.StatusUnauthorized, `{"error":"signup disabled"}`)
	var expired atomic.Int32
	c := newClient(t, f, staticTokens(), services.WithUnauthorizedHandler(func() { expired.Add(1) }))

	err := c.Account.Signup(context.Background(), services.SignupRequest{Email: "a@b.c", Password: "pw", Role: "Buyer"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	require.Contains(t, err.Error(), "signup disabled")
	require.Zero(t, expired.Load())
}

func TestClient_NoTokenSkipsNetwork(t *testing.T) {
	f := newFakeServices(t)
	c := newClient(t, f, tokenFunc(func() (*oauth2.Token, error) { return nil, apperrors.ErrNotAuthenticated }))

	_, err := c.Products.List(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	require.Empty(t, f.last.Path)
}

func TestClient_TransportFailure(t *testing.T) {
	f := newFakeServices(t)
	c := newClient(t, f, staticTokens())
	f.server.Close()

	_, err := c.Products.List(context.Background())
	require.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestProducts(t *testing.T) {
	f := newFakeServices(t)
	c := newClient(t, f, staticTokens())
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		f.handle("GET /products/", http.StatusOK, `{"products":[{"_id":"p1","name":"Lamp","price":12.5}]}`)
		products, err := c.Products.List(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
		require.Equal(t, "p1", products[0].ID)
		require.Equal(t, 12.5, products[0].Price)
	})

	t.Run("by category", func(t *testing.T) {
		f.handle("GET /products/category/Home and Kitchen", http.StatusOK, `[{"_id":"p2","type":"Home and Kitchen"}]`)
		products, err := c.Products.ByCategory(ctx, "Home and Kitchen")
		require.NoError(t, err)
		require.Len(t, products, 1)
	})

	t.Run("add to wishlist body", func(t *testing.T) {
		require.NoError(t, c.Products.AddToWishlist(ctx, "p1"))
		require.Equal(t, http.MethodPut, f.last.Method)
		require.Equal(t, "/products/wishlist", f.last.Path)
		require.Equal(t, "p1", f.last.Body["_id"])
	})

	t.Run("add to cart body", func(t *testing.T) {
		require.NoError(t, c.Products.AddToCart(ctx, "p1", 3))
		require.Equal(t, "/products/cart", f.last.Path)
		require.Equal(t, map[string]any{"_id": "p1"}, f.last.Body["product"])
		require.Equal(t, float64(3), f.last.Body["amount"])
	})

	t.Run("add to cart rejects zero quantity", func(t *testing.T) {
		f.last = recorded{}
		err := c.Products.AddToCart(ctx, "p1", 0)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		require.Empty(t, f.last.Path)
	})

	t.Run("remove from cart", func(t *testing.T) {
		require.NoError(t, c.Products.RemoveFromCart(ctx, "p9"))
		require.Equal(t, http.MethodDelete, f.last.Method)
		require.Equal(t, "/products/cart/p9", f.last.Path)
	})

	t.Run("delete not owner via error body", func(t *testing.T) {
		f.handle("DELETE /products/product/p1", http.StatusOK, `{"error":"not yours"}`)
		err := c.Products.Delete(ctx, "p1")
		require.ErrorIs(t, err, apperrors.ErrForbidden)
		var rerr *services.RemoteError
		require.True(t, errors.As(err, &rerr))
		require.Equal(t, services.MsgDeleteNotOwner, rerr.UserMessage())
	})

	t.Run("delete not owner via 403", func(t *testing.T) {
		f.handle("DELETE /products/product/p2", http.StatusForbidden, `{"error":"forbidden"}`)
		err := c.Products.Delete(ctx, "p2")
		require.ErrorIs(t, err, apperrors.ErrForbidden)
		require.Contains(t, err.Error(), services.MsgDeleteNotOwner)
	})

	t.Run("update not owner", func(t *testing.T) {
		f.handle("PUT /products/product/p3", http.StatusForbidden, ``)
		_, err := c.Products.Update(ctx, "p3", services.Product{Name: "x"})
		require.ErrorIs(t, err, apperrors.ErrForbidden)
		require.Contains(t, err.Error(), services.MsgUpdateNotOwner)
	})

	t.Run("not found", func(t *testing.T) {
		f.handle("GET /products/missing", http.StatusNotFound, `{"message":"no such product"}`)
		_, err := c.Products.Get(ctx, "missing")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		require.Contains(t, err.Error(), "no such product")
	})
}

func TestUsers(t *testing.T) {
	f := newFakeServices(t)
	c := newClient(t, f, staticTokens())
	ctx := context.Background()

	t.Run("profile wishlist references", func(t *testing.T) {
		f.handle("GET /users/profile", http.StatusOK, `{"name":"Jo","wishlist":["p1",{"_id":"p2","name":"Lamp"}]}`)
		p, err := c.Users.Profile(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"p1", "p2"}, p.WishlistIDs())
	})

	t.Run("login rejected keeps credentials message", func(t *testing.T) {
		f.handle("POST /users/login", http.StatusUnauthorized, `{"message":"Invalid email or password"}`)
		_, err := c.Users.Login(ctx, services.Credentials{Email: "a@b.c", Password: "wrong"})
		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
		var rerr *services.RemoteError
		require.True(t, errors.As(err, &rerr))
		require.Equal(t, services.MsgLoginFailed, rerr.UserMessage())
		require.NotContains(t, err.Error(), apperrors.ErrSessionExpired.Error())
	})

	t.Run("login without token", func(t *testing.T) {
		f.handle("POST /users/login", http.StatusOK, `{}`)
		_, err := c.Users.Login(ctx, services.Credentials{Email: "a@b.c", Password: "pw"})
		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("login requires credentials", func(t *testing.T) {
		_, err := c.Users.Login(ctx, services.Credentials{})
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("create profile requires name", func(t *testing.T) {
		_, err := c.Users.CreateProfile(ctx, services.Profile{})
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("seller", func(t *testing.T) {
		f.handle("GET /users/product/seller/s1", http.StatusOK, `{"name":"Acme"}`)
		name, err := c.Users.Seller(ctx, "s1")
		require.NoError(t, err)
		require.Equal(t, "Acme", name)
	})
}

func TestAccount_Signup(t *testing.T) {
	f := newFakeServices(t)
	c := newClient(t, f, staticTokens())
	ctx := context.Background()

	require.NoError(t, c.Account.Signup(ctx, services.SignupRequest{Email: "a@b.c", Password: "pw", Role: "Seller"}))
	require.Equal(t, "/account/signup", f.last.Path)
	require.Equal(t, "Seller", f.last.Body["role"])

	err := c.Account.Signup(ctx, services.SignupRequest{Email: "a@b.c", Password: "pw", Role: "Admin"})
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestShopping(t *testing.T) {
	f := newFakeServices(t)
	c := newClient(t, f, staticTokens())
	ctx := context.Background()

	f.handle("GET /shopping/cart", http.StatusOK, `[{"_id":"c1","items":[{"_id":"i1","product":{"_id":"p1","price":2.5},"amount":2}]}]`)
	carts, err := c.Shopping.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, carts, 1)
	require.Equal(t, 2, carts[0].Items[0].Amount)

	order := services.Order{
		Items:  []services.OrderItem{{Product: services.ProductRef{ID: "p1"}, Amount: 2}},
		Amount: "5.00",
		Status: services.OrderStatusPending,
	}
	require.NoError(t, c.Shopping.CreateOrder(ctx, order))
	require.Equal(t, "/shopping/order", f.last.Path)
	require.Equal(t, "5.00", f.last.Body["amount"])
	require.Equal(t, "Pending", f.last.Body["status"])
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestClient_WithTransport(t *testing.T) {
	f := newFakeServices(t)
	rt := &countingTransport{}
	c := newClient(t, f, staticTokens(), services.WithTransport(rt))
	f.handle("GET /products/wishlist", http.StatusOK, `[{"_id":"p1"}]`)

	_, err := c.Products.Wishlist(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), rt.calls.Load())
	require.Equal(t, "Bearer "+testToken, f.last.Auth)
}

func TestClient_RemoteErrorLogFields(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	f := newFakeServices(t)
	f.handle("GET /products/missing", http.StatusNotFound, `{"message":"no such product"}`)
	c := newClient(t, f, staticTokens())

	_, err := c.Products.Get(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "remote service error", entry["message"])
	require.Equal(t, "no such product", entry["remote_message"])
	require.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"message":`)))
}
