// Package catalog caches the product list served by the product service.
package catalog

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/jrsteele09/go-shop-client/services"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultResolveLimit = 8

// Source is the remote product service.
type Source interface {
	List(ctx context.Context) ([]services.Product, error)
	Get(ctx context.Context, id string) (*services.Product, error)
	ByCategory(ctx context.Context, category string) ([]services.Product, error)
}

// Cache holds the last successfully fetched product list.
type Cache struct {
	source       Source
	resolveLimit int

	lock     sync.RWMutex
	products []services.Product
	byID     map[string]services.Product
}

// CacheOption defines a function type to modify the Cache instance.
type CacheOption func(*Cache)

// WithResolveLimit caps the number of concurrent fetches made by Resolve.
func WithResolveLimit(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.resolveLimit = n
		}
	}
}

func New(source Source, options ...CacheOption) (*Cache, error) {
	if source == nil {
		return nil, errors.New("[catalog.New] product source is required")
	}
	c := &Cache{
		source:       source,
		resolveLimit: defaultResolveLimit,
		byID:         map[string]services.Product{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Refresh replaces the cached list. On failure the last known good list is
// kept.
func (c *Cache) Refresh(ctx context.Context) error {
	products, err := c.source.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("product list refresh failed, keeping cached list")
		return errors.Wrap(err, "[Cache.Refresh] list products")
	}

	byID := make(map[string]services.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	c.lock.Lock()
	c.products = products
	c.byID = byID
	c.lock.Unlock()
	return nil
}

// Products returns a copy of the cached list.
func (c *Cache) Products() []services.Product {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return slices.Clone(c.products)
}

// Product returns the cached product with id, fetching it when it is not
// cached.
func (c *Cache) Product(ctx context.Context, id string) (*services.Product, error) {
	if id == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, "[Cache.Product] product id is required")
	}

	c.lock.RLock()
	p, ok := c.byID[id]
	c.lock.RUnlock()
	if ok {
		return &p, nil
	}

	fetched, err := c.source.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "[Cache.Product] get %s", id)
	}
	return fetched, nil
}

// ByCategory returns the products of one category from the product service.
func (c *Cache) ByCategory(ctx context.Context, category string) ([]services.Product, error) {
	if !ValidCategory(category) {
		return nil, errors.Wrapf(apperrors.ErrInvalidRequest, "[Cache.ByCategory] unknown category %q", category)
	}
	products, err := c.source.ByCategory(ctx, category)
	if err != nil {
		return nil, errors.Wrapf(err, "[Cache.ByCategory] %s", category)
	}
	return products, nil
}

// Resolve fetches the details of every id concurrently. The result keeps the
// order of ids. Any failure fails the whole call.
func (c *Cache) Resolve(ctx context.Context, ids []string) ([]services.Product, error) {
	out := make([]services.Product, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.resolveLimit)
	for i, id := range ids {
		g.Go(func() error {
			p, err := c.Product(gctx, id)
			if err != nil {
				return err
			}
			out[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "[Cache.Resolve]")
	}
	return out, nil
}
